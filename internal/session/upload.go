package session

import (
	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/marianozunino/uploadpro/internal/upload"
)

// SelectFiles adds a batch to the pipeline using the configured size limit
func (s *Session) SelectFiles(files []model.UploadedFile) error {
	maxMB := s.deps.Settings.Settings().MaxFileSize

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.changed()
	return s.pipeline.Select(files, maxMB)
}

// RejectOversizedUpload fails the current selection for a request body that
// exceeded what the server reads
func (s *Session) RejectOversizedUpload() error {
	maxMB := s.deps.Settings.Settings().MaxFileSize

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.changed()
	return s.pipeline.RejectOversized(maxMB)
}

// UpdateFileMetadata edits the selected files with the given original name
func (s *Session) UpdateFileMetadata(name string, patch upload.MetadataPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.changed()
	return s.pipeline.UpdateMetadata(name, patch)
}

// StartUpload begins the simulated transfer
func (s *Session) StartUpload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.changed()
	return s.pipeline.Start()
}

// ResetUpload clears the pipeline and returns to the upload page
func (s *Session) ResetUpload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetPipeline()
	s.navigate(model.PageUpload)
	s.changed()
}

// UploadedFile returns the selected file at index i
func (s *Session) UploadedFile(i int) (model.UploadedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline.File(i)
}

// UploadStatus is the state of the pipeline
func (s *Session) UploadStatus() upload.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline.Status()
}

func (s *Session) resetPipeline() {
	s.postUpload.Cancel()
	s.postUpload = nil
	s.pipeline.Reset()
}

// uploadCompleted runs from a pipeline tick with the lock held
func (s *Session) uploadCompleted(count int) {
	s.changed()
	s.postUpload.Cancel()
	if count == 1 {
		s.postUpload = s.sched.After(successSingleDelay, func() {
			s.postUpload = nil
			s.navigate(model.PagePreDownload)
		})
		return
	}
	s.postUpload = s.sched.After(successMultipleDelay, func() {
		s.postUpload = nil
		s.resetPipeline()
		s.navigate(model.PageUpload)
		s.changed()
	})
}
