package templates

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/a-h/templ"
)

//go:embed views/*.html
var viewsFS embed.FS

//go:embed static
var staticFS embed.FS

var views = template.Must(template.New("").Funcs(funcs).ParseFS(viewsFS, "views/*.html"))

// Static returns the stylesheet, script and icon served under /static
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// AppPage renders the full document for the current view
func AppPage(p Page) templ.Component {
	return templ.FromGoHTML(views.Lookup("layout"), p)
}

// MaintenancePage renders the document shown while the site is in maintenance
func MaintenancePage(p Page) templ.Component {
	return templ.FromGoHTML(views.Lookup("maintenance-layout"), p)
}
