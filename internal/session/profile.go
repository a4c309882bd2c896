package session

import (
	"fmt"
	"strings"

	"github.com/marianozunino/uploadpro/internal/upload"
)

const earningsPerDownload = 0.0085

// ProfileFile is a demo file listed on the profile page
type ProfileFile struct {
	ID          string
	Name        string
	Title       string
	Description string
	Keywords    []string
	Size        string
	Downloads   int
}

// Profile is the editable demo profile
type Profile struct {
	Name  string
	Files []ProfileFile
}

func defaultProfile() Profile {
	return Profile{
		Name: "عبد الله",
		Files: []ProfileFile{
			{ID: "f1", Name: "project-design.fig", Title: "Project Design", Description: "Main design file for the new company branding project.", Keywords: []string{"design", "figma", "branding"}, Size: "15.2 MB", Downloads: 1045},
			{ID: "f2", Name: "quarterly-report.pdf", Title: "Quarterly Report Q2", Description: "Financial and performance report for the second quarter.", Keywords: []string{"finance", "report", "pdf"}, Size: "2.1 MB", Downloads: 782},
			{ID: "f3", Name: "website-backup.zip", Title: "Website Backup", Description: "Full backup of the main website from July.", Keywords: []string{"backup", "archive"}, Size: "128.4 MB", Downloads: 150},
			{ID: "f4", Name: "upbeat-track.mp3", Title: "Upbeat Background Track", Description: "An energetic and positive audio track for video intros.", Keywords: []string{"audio", "music"}, Size: "3.5 MB", Downloads: 5210},
			{ID: "f5", Name: "onboarding-video.mp4", Title: "New Employee Onboarding", Description: "Welcome video for new hires, explaining company culture.", Keywords: []string{"video", "hr", "onboarding"}, Size: "45.8 MB", Downloads: 530},
			{ID: "f6", Name: "marketing-banner.jpg", Title: "Summer Sale Banner", Description: "High-resolution banner for the upcoming summer sale campaign.", Keywords: []string{"marketing", "image", "sale"}, Size: "1.2 MB", Downloads: 3102},
		},
	}
}

// TotalDownloads sums the download counters of all files
func (p Profile) TotalDownloads() int {
	total := 0
	for _, f := range p.Files {
		total += f.Downloads
	}
	return total
}

// EstimatedEarnings is the simulated revenue of all downloads
func (p Profile) EstimatedEarnings() float64 {
	return float64(p.TotalDownloads()) * earningsPerDownload
}

func (p Profile) clone() Profile {
	files := make([]ProfileFile, len(p.Files))
	for i, f := range p.Files {
		f.Keywords = append([]string(nil), f.Keywords...)
		files[i] = f
	}
	return Profile{Name: p.Name, Files: files}
}

// RenameProfile changes the display name. Blank names are ignored.
func (s *Session) RenameProfile(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Name = name
	s.changed()
}

// UpdateProfileFile edits the metadata of a demo file
func (s *Session) UpdateProfileFile(id string, patch upload.MetadataPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.profile.Files {
		f := &s.profile.Files[i]
		if f.ID != id {
			continue
		}
		if patch.Title != nil {
			f.Title = *patch.Title
		}
		if patch.Description != nil {
			f.Description = *patch.Description
		}
		if patch.Keywords != nil {
			f.Keywords = append([]string(nil), patch.Keywords...)
		}
		s.changed()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownFile, id)
}

// DeleteProfileFile removes a demo file
func (s *Session) DeleteProfileFile(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.profile.Files {
		if f.ID == id {
			s.profile.Files = append(s.profile.Files[:i], s.profile.Files[i+1:]...)
			s.changed()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownFile, id)
}
