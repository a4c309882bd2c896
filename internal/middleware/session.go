package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marianozunino/uploadpro/internal/auth"
	"github.com/marianozunino/uploadpro/internal/locale"
	"github.com/marianozunino/uploadpro/internal/session"
)

const (
	CookieName = "uploadpro_visitor"
	sessionKey = "session"
)

// VisitorCookieTTL is how long a browser keeps its visitor id
const VisitorCookieTTL = 365 * 24 * time.Hour

// Sessions resolves the visitor cookie into a session, issuing a new cookie for
// unknown or tampered visitors. A known visitor whose session expired gets a fresh
// session under the same id, so its stored locale survives.
func Sessions(manager *session.Manager, signer *auth.Signer, prefs *locale.Preferences, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var s *session.Session
			if cookie, err := c.Cookie(CookieName); err == nil {
				if id, err := signer.Parse(cookie.Value); err == nil {
					s = manager.Restore(id, prefs.Get(id))
				}
			}

			if s == nil {
				s = manager.Create(prefs.Get(""))
				token, err := signer.Sign(s.ID)
				if err != nil {
					log.Printf("Error: Failed to sign visitor cookie: %v", err)
					return echo.NewHTTPError(http.StatusInternalServerError, "failed to start session")
				}
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					Expires:  time.Now().Add(VisitorCookieTTL),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			s.Touch()
			c.Set(sessionKey, s)
			return next(c)
		}
	}
}

// Session returns the visitor session attached by Sessions
func Session(c echo.Context) *session.Session {
	s, _ := c.Get(sessionKey).(*session.Session)
	return s
}
