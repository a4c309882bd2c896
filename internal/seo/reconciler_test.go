package seo

import (
	"encoding/json"
	"testing"

	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() model.SiteSettings {
	return model.SiteSettings{
		SiteTitle:            "Uploader",
		SiteDescription:      "Share files",
		SiteKeywords:         []string{"share", "files"},
		EnableStructuredData: true,
	}
}

func translate(key string) string {
	return map[string]string{
		"plansPage.title":    "Plans",
		"plansPage.subtitle": "Pick one",
		"footer.aboutUs":     "About",
	}[key]
}

func meta(t *testing.T, h Head, attr, key string) string {
	t.Helper()
	v, ok := h.Meta(attr, key)
	require.True(t, ok, key)
	return v
}

func TestDefaultPageHead(t *testing.T) {
	r := NewReconciler()

	h, changed := r.Reconcile(Inputs{
		Settings: testSettings(),
		Page:     model.PageUpload,
		Origin:   "https://files.example",
	}, translate)

	require.True(t, changed)
	assert.Equal(t, "Uploader", h.Title)
	assert.Equal(t, "Share files", meta(t, h, "name", "description"))
	assert.Equal(t, "share, files", meta(t, h, "name", "keywords"))
	assert.Equal(t, "https://files.example", h.Canonical)
	assert.Equal(t, "website", meta(t, h, "property", "og:type"))
	assert.Equal(t, "summary", meta(t, h, "name", "twitter:card"))
	assert.Empty(t, meta(t, h, "property", "og:image"))
	assert.Equal(t, DefaultFavicon, h.Favicon)

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(h.StructuredData), &data))
	assert.Equal(t, "WebSite", data["@type"])
	assert.Equal(t, "https://files.example", data["url"])
}

func TestFilePageHead(t *testing.T) {
	r := NewReconciler()
	f := model.NewUploadedFile("report.pdf", 10, "application/pdf", nil)
	f.Keywords = []string{"q2"}

	h, _ := r.Reconcile(Inputs{
		Settings: testSettings(),
		Page:     model.PagePreDownload,
		Files:    []model.UploadedFile{f},
		Role:     model.RoleUser,
		Origin:   "https://files.example",
		PageURL:  "https://files.example/go/preDownload",
	}, translate)

	assert.Equal(t, "report - Uploader", h.Title)
	assert.Equal(t, "Share files", meta(t, h, "name", "description"))
	assert.Equal(t, "q2, share, files", meta(t, h, "name", "keywords"))
	assert.Equal(t, "article", meta(t, h, "property", "og:type"))
	assert.Equal(t, "report", meta(t, h, "property", "og:title"))
	assert.Equal(t, "https://files.example/go/preDownload", h.Canonical)

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(h.StructuredData), &data))
	assert.Equal(t, "CreativeWork", data["@type"])
	assert.Equal(t, "application/pdf", data["encodingFormat"])
	assert.Equal(t, "Authenticated User", data["author"].(map[string]any)["name"])
}

func TestStaticPageHeadUsesTranslations(t *testing.T) {
	r := NewReconciler()
	s := testSettings()
	s.OGImage = "data:image/png;base64,AAAA"

	h, _ := r.Reconcile(Inputs{Settings: s, Page: model.PagePlans, Origin: "https://x.example"}, translate)

	assert.Equal(t, "Plans - Uploader", h.Title)
	assert.Equal(t, "Pick one", meta(t, h, "name", "description"))
	assert.Equal(t, "Plans - Uploader", meta(t, h, "property", "og:title"))
	assert.Equal(t, "https://x.example"+OGImagePath, meta(t, h, "property", "og:image"))
	assert.Equal(t, "https://x.example"+OGImagePath, meta(t, h, "name", "twitter:image"))
}

func TestStructuredDataDisabled(t *testing.T) {
	r := NewReconciler()
	s := testSettings()
	s.EnableStructuredData = false

	h, _ := r.Reconcile(Inputs{Settings: s, Page: model.PageUpload}, translate)
	assert.Empty(t, h.StructuredData)
}

func TestReconcileSkipsUnchangedInputs(t *testing.T) {
	r := NewReconciler()
	in := Inputs{Settings: testSettings(), Page: model.PageUpload, Locale: "ar"}

	_, changed := r.Reconcile(in, translate)
	assert.True(t, changed)
	_, changed = r.Reconcile(in, translate)
	assert.False(t, changed)

	in.Locale = "en"
	_, changed = r.Reconcile(in, translate)
	assert.True(t, changed)

	in.Role = model.RoleAdmin
	_, changed = r.Reconcile(in, translate)
	assert.True(t, changed)
	assert.Equal(t, 3, r.Runs())
}

func TestSiteIconFavicon(t *testing.T) {
	r := NewReconciler()
	s := testSettings()
	s.SiteIcon = "data:image/png;base64,AAAA"

	h, _ := r.Reconcile(Inputs{Settings: s, Page: model.PageUpload}, translate)
	assert.Equal(t, IconPath, h.Favicon)
}

func TestAdScriptIdempotent(t *testing.T) {
	h := NewHead()

	AdScript(h, "ca-pub-1")
	AdScript(h, "ca-pub-1")
	require.Len(t, h.Scripts, 1)
	s, ok := h.Script(AdScriptID)
	require.True(t, ok)
	assert.Equal(t, "https://pagead2.googlesyndication.com/pagead/js/adsbygoogle.js?client=ca-pub-1", s.Src)
	assert.True(t, s.Async)

	AdScript(h, "ca-pub-2")
	require.Len(t, h.Scripts, 1)

	AdScript(h, "")
	assert.Empty(t, h.Scripts)
	AdScript(h, "")
	assert.Empty(t, h.Scripts)
}

func TestSetMetaIgnoresUnownedElements(t *testing.T) {
	h := NewHead()
	h.SetMeta("name", "robots", "noindex")

	_, ok := h.Meta("name", "robots")
	assert.False(t, ok)
}
