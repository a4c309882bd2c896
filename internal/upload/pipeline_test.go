package upload

import (
	"sync"
	"testing"
	"time"

	"github.com/marianozunino/uploadpro/internal/clock"
	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mb = 1024 * 1024

func newTestPipeline(t *testing.T) (*Pipeline, *clock.Fake, *sync.Mutex) {
	t.Helper()
	m := clock.NewFake(time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC))
	var mu sync.Mutex
	return New(clock.NewScheduler(m, &mu)), m, &mu
}

func file(name string, size int64) model.UploadedFile {
	return model.NewUploadedFile(name, size, "application/octet-stream", nil)
}

func TestSelectAcceptsBatch(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	err := p.Select([]model.UploadedFile{file("holiday-photo_01.jpg", 5*mb), file("notes.txt", 10)}, 100)
	require.NoError(t, err)

	assert.Equal(t, StatusSelected, p.Status())
	files := p.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "holiday photo 01", files[0].Title)
	assert.Empty(t, files[0].Description)
	assert.Empty(t, files[0].Keywords)
	assert.Equal(t, int64(5*mb+10), p.TotalSize())
}

func TestSelectAppendsToExisting(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	require.NoError(t, p.Select([]model.UploadedFile{file("a.txt", 1)}, 100))
	require.NoError(t, p.Select([]model.UploadedFile{file("b.txt", 1)}, 100))

	assert.Equal(t, 2, p.Count())
}

func TestSelectRejectsWholeBatch(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	err := p.Select([]model.UploadedFile{file("small.bin", 1*mb), file("big.bin", 150*mb)}, 100)

	var limitErr *SizeLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 100, limitErr.LimitMB)
	assert.Equal(t, "big.bin", limitErr.File)
	assert.Equal(t, StatusError, p.Status())
	assert.Equal(t, 0, p.Count())
	assert.Equal(t, err, p.Err())

	p.Reset()
	assert.Equal(t, StatusIdle, p.Status())
	assert.NoError(t, p.Err())
}

func TestSelectLimitIsInclusive(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	require.NoError(t, p.Select([]model.UploadedFile{file("exact.bin", 100*mb)}, 100))
}

func TestSelectInvalidStates(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	assert.ErrorIs(t, p.Select(nil, 100), ErrNoFiles)

	_ = p.Select([]model.UploadedFile{file("big.bin", 2*mb)}, 1)
	require.Equal(t, StatusError, p.Status())
	assert.ErrorIs(t, p.Select([]model.UploadedFile{file("a.txt", 1)}, 100), ErrInvalidState)
}

func TestUpdateMetadataPartial(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	require.NoError(t, p.Select([]model.UploadedFile{file("report.pdf", 10)}, 100))

	require.NoError(t, p.UpdateMetadata("report.pdf", MetadataPatch{Description: ptr("Q2 numbers")}))
	require.NoError(t, p.UpdateMetadata("report.pdf", MetadataPatch{Keywords: []string{"finance"}}))

	f, ok := p.File(0)
	require.True(t, ok)
	assert.Equal(t, "report", f.Title)
	assert.Equal(t, "Q2 numbers", f.Description)
	assert.Equal(t, []string{"finance"}, f.Keywords)

	assert.ErrorIs(t, p.UpdateMetadata("other.pdf", MetadataPatch{}), ErrFileNotFound)
}

func TestUpdateMetadataEditsSameNamedFiles(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	require.NoError(t, p.Select([]model.UploadedFile{file("scan.png", 10), file("notes.txt", 10)}, 100))
	require.NoError(t, p.Select([]model.UploadedFile{file("scan.png", 20)}, 100))

	require.NoError(t, p.UpdateMetadata("scan.png", MetadataPatch{Title: ptr("Receipt")}))

	files := p.Files()
	assert.Equal(t, "Receipt", files[0].Title)
	assert.Equal(t, "notes", files[1].Title)
	assert.Equal(t, "Receipt", files[2].Title)
}

func TestRejectOversized(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	require.NoError(t, p.Select([]model.UploadedFile{file("a.txt", 1)}, 100))

	err := p.RejectOversized(100)
	var limitErr *SizeLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, "upload exceeds the 100 MB limit", err.Error())
	assert.Equal(t, StatusError, p.Status())
	assert.Equal(t, 1, p.Count(), "files selected earlier are kept")

	assert.ErrorIs(t, p.RejectOversized(100), ErrInvalidState)
}

func TestSingleFileUploadCompletes(t *testing.T) {
	p, m, _ := newTestPipeline(t)
	completed := -1
	p.OnComplete = func(n int) { completed = n }

	require.NoError(t, p.Select([]model.UploadedFile{file("movie.mp4", 5*mb)}, 100))
	require.NoError(t, p.Start())
	assert.Equal(t, StatusUploading, p.Status())

	m.Advance(TickInterval)
	assert.Equal(t, 20, p.Progress())

	m.Advance(3 * TickInterval)
	assert.Equal(t, 80, p.Progress())
	assert.Equal(t, StatusUploading, p.Status())

	m.Advance(TickInterval)
	assert.Equal(t, 100, p.Progress())
	assert.Equal(t, StatusSuccess, p.Status())
	assert.Equal(t, 1, completed)
	assert.Equal(t, 0, m.Pending())
}

func TestMultiFileProgressSteps(t *testing.T) {
	p, m, _ := newTestPipeline(t)
	require.NoError(t, p.Select([]model.UploadedFile{file("a", 1), file("b", 1), file("c", 1)}, 100))
	require.NoError(t, p.Start())

	var seen []int
	for i := 0; i < 15; i++ {
		m.Advance(TickInterval)
		seen = append(seen, p.Progress())
	}
	assert.Equal(t, 6, seen[0])
	assert.Equal(t, 100, seen[14])
	assert.Equal(t, 93, seen[13])
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
	assert.Equal(t, StatusSuccess, p.Status())
}

func TestStartRequiresSelected(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	assert.ErrorIs(t, p.Start(), ErrInvalidState)
}

func TestResetStopsTransfer(t *testing.T) {
	p, m, _ := newTestPipeline(t)
	require.NoError(t, p.Select([]model.UploadedFile{file("a", 1)}, 100))
	require.NoError(t, p.Start())
	m.Advance(TickInterval)

	p.Reset()
	m.Advance(time.Minute)

	assert.Equal(t, StatusIdle, p.Status())
	assert.Equal(t, 0, p.Progress())
	assert.Equal(t, 0, p.Count())
}

func ptr[T any](v T) *T { return &v }
