package seo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"

	"github.com/marianozunino/uploadpro/internal/model"
)

const (
	DefaultFavicon = "/static/favicon.svg"
	IconPath       = "/media/site-icon"
	OGImagePath    = "/media/og-image"

	AdScriptID  = "adsense-script"
	adScriptSrc = "https://pagead2.googlesyndication.com/pagead/js/adsbygoogle.js?client="

	fallbackTitle = "File Uploader Pro"
)

// Translator resolves a dictionary key in the active locale
type Translator func(key string) string

// Inputs lists everything the head depends on
type Inputs struct {
	Settings model.SiteSettings
	Page     model.Page
	Files    []model.UploadedFile
	Locale   string
	Role     model.Role
	Origin   string
	PageURL  string
}

type fileKey struct {
	Name        string
	ContentType string
	Title       string
	Description string
	Keywords    []string
}

// Key fingerprints the inputs. Two inputs with the same key produce the same head.
func (in Inputs) Key() string {
	files := make([]fileKey, len(in.Files))
	for i, f := range in.Files {
		files[i] = fileKey{f.Name, f.ContentType, f.Title, f.Description, f.Keywords}
	}
	data, err := json.Marshal(struct {
		Settings model.SiteSettings
		Page     model.Page
		Files    []fileKey
		Locale   string
		Role     model.Role
		Origin   string
		PageURL  string
	}{in.Settings, in.Page, files, in.Locale, in.Role, in.Origin, in.PageURL})
	if err != nil {
		log.Printf("Warning: Failed to fingerprint head inputs: %v", err)
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Reconciler keeps a head in sync with its inputs, recomputing only when they change
type Reconciler struct {
	head    *Head
	lastKey string
	runs    int
}

func NewReconciler() *Reconciler {
	return &Reconciler{head: NewHead()}
}

// Head returns a copy of the current head
func (r *Reconciler) Head() Head {
	return r.head.Clone()
}

// Runs counts how many times the head was recomputed
func (r *Reconciler) Runs() int {
	return r.runs
}

// Reconcile applies the inputs to the head when their key differs from the last
// applied one. It reports whether the head was recomputed.
func (r *Reconciler) Reconcile(in Inputs, t Translator) (Head, bool) {
	key := in.Key()
	if key != "" && key == r.lastKey {
		return r.Head(), false
	}
	r.lastKey = key
	r.runs++
	apply(r.head, in, t)
	AdScript(r.head, in.Settings.AdsensePublisherID)
	return r.Head(), true
}

type website struct {
	Context string `json:"@context"`
	Type    string `json:"@type"`
	Name    string `json:"name"`
	URL     string `json:"url"`
}

type person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type creativeWork struct {
	Context        string `json:"@context"`
	Type           string `json:"@type"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Keywords       string `json:"keywords"`
	EncodingFormat string `json:"encodingFormat"`
	Author         person `json:"author"`
}

var staticTitleKeys = map[model.Page]string{
	model.PagePlans:   "plansPage.title",
	model.PageAbout:   "footer.aboutUs",
	model.PagePrivacy: "footer.privacyPolicy",
	model.PageContact: "footer.contactUs",
}

func apply(h *Head, in Inputs, t Translator) {
	s := in.Settings

	h.Favicon = DefaultFavicon
	if s.SiteIcon != "" {
		h.Favicon = IconPath
	}

	defaultTitle := s.SiteTitle
	if defaultTitle == "" {
		defaultTitle = fallbackTitle
	}
	defaultDescription := s.SiteDescription

	setSocialImages := func() {
		if s.OGImage == "" {
			return
		}
		image := in.Origin + OGImagePath
		h.SetMeta("property", "og:image", image)
		h.SetMeta("name", "twitter:image", image)
	}

	site := website{
		Context: "https://schema.org",
		Type:    "WebSite",
		Name:    defaultTitle,
		URL:     in.Origin,
	}

	switch in.Page {
	case model.PageDownload, model.PagePreDownload:
		if len(in.Files) == 0 {
			return
		}
		f := in.Files[0]
		description := f.Description
		if description == "" {
			description = defaultDescription
		}
		keywords := append(append([]string{}, f.Keywords...), s.SiteKeywords...)

		h.Title = f.Title + " - " + defaultTitle
		h.SetMeta("name", "description", description)
		h.SetMeta("name", "keywords", strings.Join(keywords, ", "))
		h.Canonical = in.PageURL

		h.SetMeta("property", "og:title", f.Title)
		h.SetMeta("property", "og:description", description)
		h.SetMeta("property", "og:type", "article")
		h.SetMeta("property", "og:url", in.PageURL)
		h.SetMeta("name", "twitter:card", "summary")
		h.SetMeta("name", "twitter:title", f.Title)
		h.SetMeta("name", "twitter:description", description)
		setSocialImages()

		author := "Anonymous"
		if in.Role.LoggedIn() {
			author = "Authenticated User"
		}
		setStructuredData(h, s.EnableStructuredData, creativeWork{
			Context:        "https://schema.org",
			Type:           "CreativeWork",
			Name:           f.Title,
			Description:    f.Description,
			Keywords:       strings.Join(f.Keywords, ", "),
			EncodingFormat: f.ContentType,
			Author:         person{Type: "Person", Name: author},
		})

	case model.PagePlans, model.PageAbout, model.PagePrivacy, model.PageContact:
		title := t(staticTitleKeys[in.Page]) + " - " + defaultTitle
		description := defaultDescription
		if in.Page == model.PagePlans {
			description = t("plansPage.subtitle")
		}

		h.Title = title
		h.SetMeta("name", "description", description)
		h.SetMeta("property", "og:title", title)
		h.SetMeta("property", "og:description", description)
		setSocialImages()
		setStructuredData(h, s.EnableStructuredData, site)

	default:
		h.Title = defaultTitle
		h.SetMeta("name", "description", defaultDescription)
		h.SetMeta("name", "keywords", strings.Join(s.SiteKeywords, ", "))
		h.Canonical = in.Origin

		h.SetMeta("property", "og:title", defaultTitle)
		h.SetMeta("property", "og:description", defaultDescription)
		h.SetMeta("property", "og:type", "website")
		h.SetMeta("property", "og:url", in.Origin)
		h.SetMeta("name", "twitter:card", "summary")
		h.SetMeta("name", "twitter:title", defaultTitle)
		h.SetMeta("name", "twitter:description", defaultDescription)
		setSocialImages()
		setStructuredData(h, s.EnableStructuredData, site)
	}
}

func setStructuredData(h *Head, enabled bool, data any) {
	if !enabled {
		h.StructuredData = ""
		return
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Printf("Warning: Failed to encode structured data: %v", err)
		h.StructuredData = ""
		return
	}
	h.StructuredData = string(out)
}

// AdScript keeps exactly one ad network loader in the head while a publisher id
// is configured and removes it once the id is cleared
func AdScript(h *Head, publisherID string) {
	existing, ok := h.Script(AdScriptID)
	if publisherID == "" {
		if ok {
			h.RemoveScript(AdScriptID)
		}
		return
	}
	src := adScriptSrc + publisherID
	if ok && existing.Src == src {
		return
	}
	h.RemoveScript(AdScriptID)
	h.EnsureScript(Script{
		ID:          AdScriptID,
		Src:         src,
		Async:       true,
		CrossOrigin: "anonymous",
	})
}
