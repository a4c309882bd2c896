package model

import (
	"slices"
	"strings"
	"time"
)

// UploadedFile is a file selected by the visitor together with its editable metadata.
// The bytes never leave the process; they are served back for preview and download.
type UploadedFile struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	ModTime     time.Time `json:"mod_time"`
	Data        []byte    `json:"-"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// NewUploadedFile wraps a file handle with default metadata
func NewUploadedFile(name string, size int64, contentType string, data []byte) UploadedFile {
	return UploadedFile{
		Name:        name,
		Size:        size,
		ContentType: contentType,
		ModTime:     time.Now(),
		Data:        data,
		Title:       DefaultTitle(name),
		Keywords:    []string{},
	}
}

var titleSeparators = strings.NewReplacer("-", " ", "_", " ")

// DefaultTitle strips the final extension from a filename and turns dashes and
// underscores into spaces. Names without a usable stem are kept whole.
func DefaultTitle(filename string) string {
	stem := filename
	if i := strings.LastIndex(filename, "."); i > 0 {
		stem = filename[:i]
	}
	return titleSeparators.Replace(stem)
}

// ParseKeywords splits a comma separated keyword list, trimming entries and
// dropping blanks and repeats
func ParseKeywords(s string) []string {
	keywords := []string{}
	for _, k := range strings.Split(s, ",") {
		k = strings.TrimSpace(k)
		if k != "" && !slices.Contains(keywords, k) {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// Transaction is a simulated payment record
type Transaction struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}
