package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marianozunino/uploadpro/internal/config"
	"github.com/marianozunino/uploadpro/internal/locale"
	"github.com/marianozunino/uploadpro/internal/middleware"
	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/marianozunino/uploadpro/internal/session"
	"github.com/marianozunino/uploadpro/internal/settings"
	"github.com/marianozunino/uploadpro/internal/upload"
	"github.com/marianozunino/uploadpro/templates"
)

// Handler handles HTTP requests
type Handler struct {
	cfg   *config.Config
	store *settings.Store
	prefs *locale.Preferences
}

// NewHandler creates a new handler
func NewHandler(cfg *config.Config, store *settings.Store, prefs *locale.Preferences) *Handler {
	return &Handler{
		cfg:   cfg,
		store: store,
		prefs: prefs,
	}
}

// visitor returns the session attached by the session middleware
func (h *Handler) visitor(c echo.Context) (*session.Session, error) {
	s := middleware.Session(c)
	if s == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Session not available")
	}
	return s, nil
}

// page assembles everything the templates need for the visitor's current view
func (h *Handler) page(c echo.Context, s *session.Session) templates.Page {
	st := s.Snapshot()
	origin := h.cfg.Origin()
	pageURL := origin + "/go/" + string(st.Page)

	tab := c.QueryParam("tab")
	if !slices.Contains(templates.AdminTabs, tab) {
		tab = templates.TabGeneral
	}

	return templates.Page{
		State:    st,
		Head:     s.Head(origin, pageURL),
		L:        s.Localizer(),
		App:      h.store.Snapshot(),
		AdminTab: tab,
		Origin:   origin,
		PageURL:  pageURL,
		Year:     time.Now().Year(),
	}
}

func (h *Handler) render(c echo.Context, s *session.Session) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	err := templates.AppPage(h.page(c, s)).Render(c.Request().Context(), c.Response())
	if err != nil {
		log.Printf("Error: Failed to render %s: %v", s.Page(), err)
		return c.String(http.StatusInternalServerError, fmt.Sprintf("Error rendering template: %v", err))
	}
	return nil
}

// back sends the browser to the visitor's current page after a form post
func back(c echo.Context, s *session.Session) error {
	return c.Redirect(http.StatusSeeOther, "/go/"+string(s.Page()))
}

// failure answers a rejected action with a status matching its cause
func failure(c echo.Context, err error) error {
	status := http.StatusConflict
	switch {
	case errors.Is(err, session.ErrUnknownPlan),
		errors.Is(err, session.ErrUnknownFile),
		errors.Is(err, session.ErrNoFile),
		errors.Is(err, upload.ErrFileNotFound),
		errors.Is(err, settings.ErrUnknownPlan),
		errors.Is(err, settings.ErrUnknownPage):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrIncompleteForm),
		errors.Is(err, session.ErrGatewayDisabled),
		errors.Is(err, settings.ErrInvalidPageContent):
		status = http.StatusBadRequest
	}
	return c.String(status, err.Error())
}

// HandleIndex renders the current view without navigating
func (h *Handler) HandleIndex(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	return h.render(c, s)
}

// HandleNavigate moves the visitor to the page named in the path and renders it
func (h *Handler) HandleNavigate(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}

	page, ok := model.ParsePage(c.Param("page"))
	if !ok {
		return c.String(http.StatusNotFound, "Page not found")
	}
	s.Navigate(page)
	return h.render(c, s)
}

// HandleMaintenance renders the maintenance document for the visitor
func (h *Handler) HandleMaintenance(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	err = templates.MaintenancePage(h.page(c, s)).Render(c.Request().Context(), c.Response())
	if err != nil {
		log.Printf("Error: Failed to render maintenance page: %v", err)
	}
	return err
}

// HandleLocale switches the interface language and remembers it for the visitor
func (h *Handler) HandleLocale(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}

	l := c.FormValue("locale")
	if err := s.SetLocale(l); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	if err := h.prefs.Set(s.ID, l); err != nil {
		log.Printf("Warning: Failed to persist locale for %s: %v", s.ID, err)
	}
	return back(c, s)
}

// stateResponse is what the page poller needs to decide whether to reload
type stateResponse struct {
	Version uint64 `json:"version"`
	Page    string `json:"page"`
	View    string `json:"view"`
	Role    string `json:"role"`
	Notice  string `json:"notice,omitempty"`
}

// HandleState reports the visitor's state version
func (h *Handler) HandleState(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	st := s.Snapshot()
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.JSON(http.StatusOK, stateResponse{
		Version: st.Version,
		Page:    string(st.Page),
		View:    string(st.View),
		Role:    string(st.Role),
		Notice:  st.Notice,
	})
}

// HandleDismissNotice hides the current notification
func (h *Handler) HandleDismissNotice(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	s.DismissNotice()
	return back(c, s)
}
