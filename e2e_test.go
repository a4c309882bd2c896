package uploadpro_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianozunino/uploadpro/internal/app"
	"github.com/marianozunino/uploadpro/internal/config"
)

var server *httptest.Server

func TestMain(m *testing.M) {
	tempDir, err := os.MkdirTemp("", "uploadpro-e2e-test")
	if err != nil {
		fmt.Printf("Failed to create temp directory: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Default()
	cfg.SQLitePath = filepath.Join(tempDir, "data", "e2e.db")
	cfg.BaseURL = "http://uploadpro.test/"
	cfg.SessionSecret = "e2e-secret"

	testApp, err := app.NewWithConfig(cfg)
	if err != nil {
		fmt.Printf("Failed to create test app: %v\n", err)
		os.RemoveAll(tempDir)
		os.Exit(1)
	}
	server = httptest.NewServer(testApp.Handler())

	code := m.Run()

	server.Close()
	testApp.Stop()
	os.RemoveAll(tempDir)
	os.Exit(code)
}

// browser is one visitor with its own cookie jar
type browser struct {
	t    *testing.T
	http *http.Client
}

func newBrowser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, http: &http.Client{Jar: jar, Timeout: 10 * time.Second}}
}

func (b *browser) get(path string) *http.Response {
	b.t.Helper()
	resp, err := b.http.Get(server.URL + path)
	require.NoError(b.t, err)
	b.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (b *browser) post(path string, form url.Values) *http.Response {
	b.t.Helper()
	resp, err := b.http.PostForm(server.URL+path, form)
	require.NoError(b.t, err)
	b.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (b *browser) upload(name string, content []byte) *http.Response {
	b.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("files", name)
	require.NoError(b.t, err)
	_, err = part.Write(content)
	require.NoError(b.t, err)
	require.NoError(b.t, w.Close())

	resp, err := b.http.Post(server.URL+"/upload/select", w.FormDataContentType(), &body)
	require.NoError(b.t, err)
	b.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type state struct {
	Version uint64 `json:"version"`
	Page    string `json:"page"`
	Role    string `json:"role"`
	Notice  string `json:"notice"`
}

func (b *browser) state() state {
	b.t.Helper()
	var st state
	require.NoError(b.t, json.NewDecoder(b.get("/api/state").Body).Decode(&st))
	return st
}

// waitFor polls the visitor state until cond holds
func (b *browser) waitFor(what string, cond func(state) bool) state {
	b.t.Helper()
	deadline := time.Now().Add(8 * time.Second)
	for {
		st := b.state()
		if cond(st) {
			return st
		}
		if time.Now().After(deadline) {
			b.t.Fatalf("timed out waiting for %s, last state %+v", what, st)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func loginAdmin(t *testing.T) *browser {
	t.Helper()
	admin := newBrowser(t)
	resp := admin.post("/login", url.Values{"tab": {"admin"}, "login": {"admin"}, "password": {"admin123"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	admin.waitFor("admin role", func(st state) bool { return st.Role == "admin" })
	return admin
}

func generalSettings(overrides url.Values) url.Values {
	form := url.Values{
		"siteTitle":         {"File Uploader Pro"},
		"siteDescription":   {"Share files"},
		"siteKeywords":      {"upload, share"},
		"preDownloadDelay":  {"0"},
		"countdownDuration": {"0"},
		"maxFileSize":       {"1"},
	}
	for k, v := range overrides {
		form[k] = v
	}
	return form
}

func TestHomePage(t *testing.T) {
	visitor := newBrowser(t)

	resp := visitor.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "rtl", doc.Find("html").AttrOr("dir", ""))
	assert.Equal(t, 1, doc.Find("form[data-dropzone]").Length())

	st := visitor.state()
	assert.Equal(t, "upload", st.Page)
	assert.Empty(t, st.Role)
}

func TestUploadAndDownload(t *testing.T) {
	admin := loginAdmin(t)
	resp := admin.post("/admin/general", generalSettings(nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin.notifSaveSuccess", admin.state().Notice)

	visitor := newBrowser(t)
	content := []byte("hello from the e2e suite")

	resp = visitor.upload("greeting.txt", content)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = visitor.post("/upload/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	visitor.waitFor("download page", func(st state) bool { return st.Page == "download" })

	resp = visitor.get("/download")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "greeting.txt")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)

	other := newBrowser(t)
	assert.Equal(t, http.StatusNotFound, other.get("/download").StatusCode)
}

func TestOversizedUploadIsRejected(t *testing.T) {
	admin := loginAdmin(t)
	admin.post("/admin/general", generalSettings(nil))

	visitor := newBrowser(t)
	resp := visitor.upload("big.bin", bytes.Repeat([]byte{1}, 1024*1024+1))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find(".error-box").Length())
	assert.Contains(t, doc.Find(".error-box").Text(), "1")
}

func TestMaintenanceMode(t *testing.T) {
	admin := loginAdmin(t)
	admin.post("/admin/general", generalSettings(url.Values{"maintenanceMode": {"on"}}))
	t.Cleanup(func() { admin.post("/admin/general", generalSettings(nil)) })

	visitor := newBrowser(t)
	assert.Equal(t, http.StatusServiceUnavailable, visitor.get("/go/plans").StatusCode)
	assert.Equal(t, http.StatusOK, visitor.get("/robots.txt").StatusCode)
	assert.Equal(t, http.StatusOK, admin.get("/go/plans").StatusCode)
}

func TestCrawlerFilesUseSiteURL(t *testing.T) {
	visitor := newBrowser(t)

	body, err := io.ReadAll(visitor.get("/sitemap.xml").Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http://uploadpro.test")
	assert.NotContains(t, string(body), "[YOUR_SITE_URL]")
}

func TestSettingsExportImport(t *testing.T) {
	admin := loginAdmin(t)
	admin.post("/admin/general", generalSettings(url.Values{"siteTitle": {"Before Import"}}))

	resp := admin.get("/admin/export")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	exported, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(exported), "Before Import")

	restored := strings.Replace(string(exported), "Before Import", "After Import", 1)
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("settings", "backup.json")
	require.NoError(t, err)
	part.Write([]byte(restored))
	require.NoError(t, w.Close())

	resp, err = admin.http.Post(server.URL+"/admin/import", w.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin.notifImportSuccess", admin.state().Notice)

	doc, err := goquery.NewDocumentFromReader(newBrowser(t).get("/").Body)
	require.NoError(t, err)
	assert.Contains(t, doc.Find("title").Text(), "After Import")
}

func TestVisitorsCannotUseAdminRoutes(t *testing.T) {
	visitor := newBrowser(t)

	assert.Equal(t, http.StatusForbidden, visitor.get("/admin/export").StatusCode)
	resp := visitor.post("/admin/general", generalSettings(url.Values{"siteTitle": {"Hijacked"}}))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
