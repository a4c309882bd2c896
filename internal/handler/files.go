package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/marianozunino/uploadpro/internal/session"
	"github.com/marianozunino/uploadpro/internal/upload"
)

// HandleSelectFiles adds the files of a multipart form to the upload batch
func (h *Handler) HandleSelectFiles(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}

	limit := h.uploadBodyLimit()
	req := c.Request()
	if req.ContentLength > limit {
		return h.rejectOversized(c, s, req.ContentLength)
	}
	req.Body = http.MaxBytesReader(c.Response(), req.Body, limit)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return h.rejectOversized(c, s, tooLarge.Limit)
		}
		return c.String(http.StatusBadRequest, "Failed to parse upload form")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return c.String(http.StatusBadRequest, "No files provided")
	}

	// sizes come from the part headers so an oversized batch is never read
	files := make([]model.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, model.NewUploadedFile(fh.Filename, fh.Size, fh.Header.Get("Content-Type"), nil))
	}
	if !fitsLimit(files, h.store.Settings().MaxFileSize) {
		return h.selectFiles(c, s, files)
	}

	files = files[:0]
	for _, fh := range headers {
		f, err := readUploadedFile(fh)
		if err != nil {
			log.Printf("Error: Failed to read uploaded file %s: %v", fh.Filename, err)
			return c.String(http.StatusInternalServerError, "Failed to read uploaded file")
		}
		files = append(files, f)
	}
	return h.selectFiles(c, s, files)
}

func (h *Handler) selectFiles(c echo.Context, s *session.Session, files []model.UploadedFile) error {
	err := s.SelectFiles(files)
	var sizeErr *upload.SizeLimitError
	if err != nil && !errors.As(err, &sizeErr) {
		return failure(c, err)
	}
	if sizeErr != nil {
		log.Printf("Warning: Rejected batch of %d files: %v", len(files), sizeErr)
	}
	return back(c, s)
}

// uploadBodyLimit is the largest upload request read. It always admits one file
// at the configured size limit plus the multipart framing.
func (h *Handler) uploadBodyLimit() int64 {
	perFile := int64(h.store.Settings().MaxFileSize)*1024*1024 + multipartOverhead
	return max(h.cfg.MaxRequestToBytes(), perFile)
}

const multipartOverhead = 1024 * 1024

func fitsLimit(files []model.UploadedFile, maxMB int) bool {
	limit := int64(maxMB) * 1024 * 1024
	for _, f := range files {
		if f.Size > limit {
			return false
		}
	}
	return true
}

// rejectOversized answers an upload request too large to read with the error
// state of the upload page
func (h *Handler) rejectOversized(c echo.Context, s *session.Session, size int64) error {
	log.Printf("Warning: Rejected upload request of %s", humanize.Bytes(uint64(size)))
	if err := s.RejectOversizedUpload(); err != nil {
		var sizeErr *upload.SizeLimitError
		if !errors.As(err, &sizeErr) {
			return failure(c, err)
		}
	}
	return back(c, s)
}

// readUploadedFile loads a multipart part into memory, detecting its content type
// from the bytes when the browser sent none
func readUploadedFile(fh *multipart.FileHeader) (model.UploadedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return model.UploadedFile{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return model.UploadedFile{}, err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}
	return model.NewUploadedFile(fh.Filename, int64(len(data)), contentType, data), nil
}

// HandleFileMetadata edits the title, description and keywords of a selected file
func (h *Handler) HandleFileMetadata(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}

	name := c.FormValue("name")
	if name == "" {
		return c.String(http.StatusBadRequest, "File name is required")
	}
	if err := s.UpdateFileMetadata(name, metadataPatch(c)); err != nil {
		return failure(c, err)
	}
	return back(c, s)
}

// metadataPatch reads the metadata fields present in the form
func metadataPatch(c echo.Context) upload.MetadataPatch {
	var patch upload.MetadataPatch
	params, _ := c.FormParams()
	if _, ok := params["title"]; ok {
		title := c.FormValue("title")
		patch.Title = &title
	}
	if _, ok := params["description"]; ok {
		description := c.FormValue("description")
		patch.Description = &description
	}
	if _, ok := params["keywords"]; ok {
		patch.Keywords = model.ParseKeywords(c.FormValue("keywords"))
	}
	return patch
}

// HandleStartUpload starts the simulated transfer of the selected batch
func (h *Handler) HandleStartUpload(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	if err := s.StartUpload(); err != nil {
		return failure(c, err)
	}
	return back(c, s)
}

// HandleResetUpload discards the batch and returns to the dropzone
func (h *Handler) HandleResetUpload(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	s.ResetUpload()
	return back(c, s)
}

// HandlePreview serves a selected file inline so the browser can preview it
func (h *Handler) HandlePreview(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}

	index, err := cast.ToIntE(c.Param("index"))
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid file index")
	}
	f, ok := s.UploadedFile(index)
	if !ok {
		return c.String(http.StatusNotFound, "File not found")
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", f.Name))
	serveFile(c, f)
	return nil
}

// HandleDownload serves the first file once the download countdown finished
func (h *Handler) HandleDownload(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}

	st := s.Snapshot()
	if st.View != session.View(model.PageDownload) || len(st.Files) == 0 {
		return c.String(http.StatusNotFound, "File not found")
	}
	if !st.Countdown.Ready {
		return c.String(http.StatusForbidden, "Download is not ready yet")
	}

	f := st.Files[0]
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	log.Printf("File served: %s (%s) to %s", f.Name, humanize.Bytes(uint64(f.Size)), c.RealIP())
	serveFile(c, f)
	return nil
}

// serveFile writes the file bytes, honoring range and conditional requests
func serveFile(c echo.Context, f model.UploadedFile) {
	if f.ContentType != "" {
		c.Response().Header().Set("Content-Type", f.ContentType)
	}
	c.Response().Header().Set("Cache-Control", "private, no-cache")
	http.ServeContent(c.Response(), c.Request(), f.Name, f.ModTime, bytes.NewReader(f.Data))
}
