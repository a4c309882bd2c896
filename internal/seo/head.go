package seo

// Meta is one owned meta element, addressed by its name or property attribute
type Meta struct {
	Attr    string
	Key     string
	Content string
}

// Script is an external script element addressed by id
type Script struct {
	ID          string
	Src         string
	Async       bool
	CrossOrigin string
}

// Head is the set of document head elements the application owns
type Head struct {
	Title          string
	Metas          []Meta
	Canonical      string
	Favicon        string
	StructuredData string
	Scripts        []Script
}

var ownedMetas = []Meta{
	{Attr: "name", Key: "description"},
	{Attr: "name", Key: "keywords"},
	{Attr: "property", Key: "og:title"},
	{Attr: "property", Key: "og:description"},
	{Attr: "property", Key: "og:type"},
	{Attr: "property", Key: "og:url"},
	{Attr: "property", Key: "og:image"},
	{Attr: "name", Key: "twitter:card"},
	{Attr: "name", Key: "twitter:title"},
	{Attr: "name", Key: "twitter:description"},
	{Attr: "name", Key: "twitter:image"},
}

// NewHead returns a head holding every owned element, all empty
func NewHead() *Head {
	return &Head{
		Metas:   append([]Meta(nil), ownedMetas...),
		Favicon: DefaultFavicon,
	}
}

// SetMeta overwrites the content of an owned meta element. Unknown elements are
// ignored.
func (h *Head) SetMeta(attr, key, content string) {
	for i := range h.Metas {
		if h.Metas[i].Attr == attr && h.Metas[i].Key == key {
			h.Metas[i].Content = content
			return
		}
	}
}

// Meta returns the content of an owned meta element
func (h *Head) Meta(attr, key string) (string, bool) {
	for _, m := range h.Metas {
		if m.Attr == attr && m.Key == key {
			return m.Content, true
		}
	}
	return "", false
}

// EnsureScript adds s unless a script with the same id exists. It reports whether
// the script was added.
func (h *Head) EnsureScript(s Script) bool {
	if _, ok := h.Script(s.ID); ok {
		return false
	}
	h.Scripts = append(h.Scripts, s)
	return true
}

// RemoveScript drops the script with the given id and reports whether it existed
func (h *Head) RemoveScript(id string) bool {
	for i, s := range h.Scripts {
		if s.ID == id {
			h.Scripts = append(h.Scripts[:i], h.Scripts[i+1:]...)
			return true
		}
	}
	return false
}

func (h *Head) Script(id string) (Script, bool) {
	for _, s := range h.Scripts {
		if s.ID == id {
			return s, true
		}
	}
	return Script{}, false
}

// Clone returns a copy sharing no slices with h
func (h Head) Clone() Head {
	h.Metas = append([]Meta(nil), h.Metas...)
	h.Scripts = append([]Script(nil), h.Scripts...)
	return h
}
