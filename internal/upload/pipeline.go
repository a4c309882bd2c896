package upload

import (
	"errors"
	"fmt"
	"time"

	"github.com/marianozunino/uploadpro/internal/clock"
	"github.com/marianozunino/uploadpro/internal/model"
)

// Status is the state of the upload pipeline
type Status string

const (
	StatusIdle      Status = "idle"
	StatusSelected  Status = "selected"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

const (
	// TickInterval is the period of one simulated transfer step
	TickInterval = 200 * time.Millisecond
	// StepsPerFile is the number of steps each file adds to a transfer
	StepsPerFile = 5
)

var (
	ErrNoFiles      = errors.New("no files selected")
	ErrInvalidState = errors.New("operation not allowed in current upload state")
	ErrFileNotFound = errors.New("file not found")
)

// SizeLimitError rejects a batch containing a file above the configured limit
type SizeLimitError struct {
	File    string
	LimitMB int
}

func (e *SizeLimitError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("upload exceeds the %d MB limit", e.LimitMB)
	}
	return fmt.Sprintf("file %q exceeds the %d MB limit", e.File, e.LimitMB)
}

// MetadataPatch is a partial metadata edit. Nil fields are left unchanged.
type MetadataPatch struct {
	Title       *string
	Description *string
	Keywords    []string
}

// Pipeline simulates selecting and uploading a batch of files.
// It is not safe for concurrent use; callers serialize access with the lock
// the scheduler holds while running ticks.
type Pipeline struct {
	sched *clock.Scheduler

	status   Status
	files    []model.UploadedFile
	progress int
	step     int
	err      error
	ticker   *clock.Token

	// OnComplete runs when a transfer reaches 100%, with the number of files sent
	OnComplete func(count int)
}

func New(sched *clock.Scheduler) *Pipeline {
	return &Pipeline{sched: sched, status: StatusIdle}
}

func (p *Pipeline) Status() Status {
	return p.status
}

// Progress is the transfer percentage, 0 to 100
func (p *Pipeline) Progress() int {
	return p.progress
}

// Err is the error that moved the pipeline to StatusError
func (p *Pipeline) Err() error {
	return p.err
}

// Files returns a copy of the selected files
func (p *Pipeline) Files() []model.UploadedFile {
	out := make([]model.UploadedFile, len(p.files))
	for i, f := range p.files {
		f.Keywords = append([]string{}, f.Keywords...)
		out[i] = f
	}
	return out
}

// File returns the selected file at index i
func (p *Pipeline) File(i int) (model.UploadedFile, bool) {
	if i < 0 || i >= len(p.files) {
		return model.UploadedFile{}, false
	}
	return p.files[i], true
}

func (p *Pipeline) Count() int {
	return len(p.files)
}

// TotalSize sums the sizes of the selected files
func (p *Pipeline) TotalSize() int64 {
	var total int64
	for _, f := range p.files {
		total += f.Size
	}
	return total
}

// Select adds a batch of files. The whole batch is rejected when any file is
// larger than maxMB megabytes; the pipeline then moves to StatusError with no
// file added.
func (p *Pipeline) Select(files []model.UploadedFile, maxMB int) error {
	if p.status != StatusIdle && p.status != StatusSelected {
		return fmt.Errorf("%w: select while %s", ErrInvalidState, p.status)
	}
	if len(files) == 0 {
		return ErrNoFiles
	}

	limit := int64(maxMB) * 1024 * 1024
	for _, f := range files {
		if f.Size > limit {
			return p.reject(&SizeLimitError{File: f.Name, LimitMB: maxMB})
		}
	}

	for _, f := range files {
		if f.Title == "" {
			f.Title = model.DefaultTitle(f.Name)
		}
		if f.Keywords == nil {
			f.Keywords = []string{}
		}
		p.files = append(p.files, f)
	}
	p.err = nil
	p.status = StatusSelected
	return nil
}

// RejectOversized fails a batch whose request was too large to read, moving the
// pipeline to StatusError like Select does for an oversized file
func (p *Pipeline) RejectOversized(maxMB int) error {
	if p.status != StatusIdle && p.status != StatusSelected {
		return fmt.Errorf("%w: select while %s", ErrInvalidState, p.status)
	}
	return p.reject(&SizeLimitError{LimitMB: maxMB})
}

func (p *Pipeline) reject(err error) error {
	p.err = err
	p.status = StatusError
	return err
}

// UpdateMetadata edits every file whose original name is name
func (p *Pipeline) UpdateMetadata(name string, patch MetadataPatch) error {
	if p.status != StatusSelected {
		return fmt.Errorf("%w: edit while %s", ErrInvalidState, p.status)
	}
	found := false
	for i := range p.files {
		if p.files[i].Name != name {
			continue
		}
		found = true
		if patch.Title != nil {
			p.files[i].Title = *patch.Title
		}
		if patch.Description != nil {
			p.files[i].Description = *patch.Description
		}
		if patch.Keywords != nil {
			p.files[i].Keywords = append([]string{}, patch.Keywords...)
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return nil
}

// Start begins the simulated transfer. Progress advances one step every
// TickInterval; a batch of n files takes n*StepsPerFile steps.
func (p *Pipeline) Start() error {
	if p.status != StatusSelected {
		return fmt.Errorf("%w: start while %s", ErrInvalidState, p.status)
	}
	if len(p.files) == 0 {
		return ErrNoFiles
	}

	p.status = StatusUploading
	p.progress = 0
	p.step = 0
	total := len(p.files) * StepsPerFile

	p.ticker = p.sched.Every(TickInterval, func() {
		p.step++
		p.progress = min(100, p.step*100/total)
		if p.progress < 100 {
			return
		}
		p.ticker.Cancel()
		p.ticker = nil
		p.status = StatusSuccess
		if p.OnComplete != nil {
			p.OnComplete(len(p.files))
		}
	})
	return nil
}

// Reset discards the files and returns to StatusIdle from any state, stopping a
// running transfer
func (p *Pipeline) Reset() {
	p.ticker.Cancel()
	p.ticker = nil
	p.files = nil
	p.progress = 0
	p.step = 0
	p.err = nil
	p.status = StatusIdle
}
