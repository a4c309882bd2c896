package app

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianozunino/uploadpro/internal/config"
	"github.com/marianozunino/uploadpro/internal/db"
	"github.com/marianozunino/uploadpro/internal/settings"
)

func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `port: 0
base_url: "http://localhost:8080/"
sqlite_path: "` + filepath.Join(tempDir, "data", "test.db") + `"
session_secret: "test-secret"
session_ttl_min: 30
check_interval_min: 60
max_request_mib: 16
` + extra

	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))
	t.Setenv("CONFIG_PATH", configPath)
	return tempDir
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	writeConfig(t, "")
	app, err := New()
	require.NoError(t, err)
	t.Cleanup(func() {
		app.Stop()
		app.db.Close()
	})
	return app
}

func TestSetupCreatesDatabaseDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := &config.Config{SQLitePath: filepath.Join(dir, "uploadpro.db")}

	require.NoError(t, setup(cfg))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSetupWithInvalidPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	cfg := &config.Config{SQLitePath: filepath.Join(file, "sub", "uploadpro.db")}
	assert.Error(t, setup(cfg))
}

func TestNewWithValidConfig(t *testing.T) {
	app := newTestApp(t)

	assert.NotNil(t, app.server)
	assert.NotNil(t, app.expirationManager)
	assert.NotNil(t, app.sessions)
	assert.NotNil(t, app.config)
	assert.NotNil(t, app.db)
	assert.Equal(t, "test-secret", app.config.SessionSecret)
}

func TestNewRunsMigrations(t *testing.T) {
	app := newTestApp(t)

	app.store.UpdateSettings(settings.SettingsPatch{SiteTitle: settings.Ptr("Persisted")})

	raw, err := app.db.Get(settings.StorageKey)
	require.NoError(t, err)
	assert.Contains(t, raw, "Persisted")

	_, err = app.db.Get("missing")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestNewWithInvalidConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/non/existent/config.yaml")

	app, err := New()
	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestNewWithInvalidConfigContent(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("port: 8080\ninvalid: yaml: content: ["), 0o644))
	t.Setenv("CONFIG_PATH", configPath)

	app, err := New()
	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestNewRejectsZeroCheckInterval(t *testing.T) {
	writeConfig(t, "")
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	require.NoError(t, err)
	cfg.CheckInterval = 0

	app, err := NewWithConfig(cfg)
	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestLocalesPathFallsBackToEmbedded(t *testing.T) {
	writeConfig(t, `locales_path: "/does/not/exist"`)

	app, err := New()
	require.NoError(t, err)
	defer app.db.Close()
	defer app.Stop()

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lang="ar"`)
}

func TestRoutes(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantHeader string
	}{
		{"index", "/", http.StatusOK, "text/html; charset=utf-8"},
		{"stylesheet", "/static/app.css", http.StatusOK, "text/css; charset=utf-8"},
		{"script", "/static/app.js", http.StatusOK, "text/javascript; charset=utf-8"},
		{"robots", "/robots.txt", http.StatusOK, "text/plain; charset=UTF-8"},
		{"state", "/api/state", http.StatusOK, "application/json"},
		{"unknown page", "/go/nowhere", http.StatusNotFound, ""},
		{"missing media", "/media/site-icon", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantHeader != "" {
				assert.Contains(t, rec.Header().Get("Content-Type"), tt.wantHeader)
			}
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestBodyLimitLeavesUploadsToHandler(t *testing.T) {
	app := newTestApp(t)
	declared := int64(17 * 1024 * 1024)

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("name=a"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.ContentLength = declared
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("files", "notes.txt")
	require.NoError(t, err)
	part.Write([]byte("notes"))
	require.NoError(t, w.Close())

	req = httptest.NewRequest(http.MethodPost, "/upload/select", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.ContentLength = declared
	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestFavicon(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/static/favicon.svg", rec.Header().Get("Location"))

	app.store.UpdateSettings(settings.SettingsPatch{SiteIcon: settings.Ptr("https://cdn.example/icon.png")})

	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	assert.Equal(t, "/media/site-icon", rec.Header().Get("Location"))
}

func TestAppStartAndShutdown(t *testing.T) {
	writeConfig(t, "")
	app, err := New()
	require.NoError(t, err)

	app.Start()
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, app.Shutdown(ctx))
	app.Stop()
	app.Stop()
}
