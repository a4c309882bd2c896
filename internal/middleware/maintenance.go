package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/marianozunino/uploadpro/internal/settings"
)

// MaintenanceExempt lists the paths served while the site is in maintenance
var MaintenanceExempt = []string{
	"/static/",
	"/media/",
	"/go/login",
	"/login",
	"/logout",
	"/locale",
	"/api/state",
	"/robots.txt",
	"/sitemap.xml",
}

// Maintenance answers with the maintenance view while maintenance mode is on.
// Administrators pass through, and a visitor on the login page may still render it.
func Maintenance(store *settings.Store, view echo.HandlerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !store.Settings().MaintenanceMode || hasAnyPrefix(c.Request().URL.Path, MaintenanceExempt) {
				return next(c)
			}
			if s := Session(c); s != nil {
				if s.Role().IsAdmin() || (rendersPage(c) && s.Page() == model.PageLogin) {
					return next(c)
				}
			}
			c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
			c.Response().Header().Set("Retry-After", "3600")
			c.Response().WriteHeader(http.StatusServiceUnavailable)
			return view(c)
		}
	}
}

// rendersPage reports whether the request renders the visitor's current page
func rendersPage(c echo.Context) bool {
	return c.Request().Method == http.MethodGet && c.Request().URL.Path == "/"
}
