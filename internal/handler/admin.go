package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/marianozunino/uploadpro/internal/session"
	"github.com/marianozunino/uploadpro/internal/settings"
	"github.com/marianozunino/uploadpro/templates"
)

const (
	noticeSaved          = "admin.notifSaveSuccess"
	noticeImported       = "admin.notifImportSuccess"
	noticeImportFailed   = "admin.notifImportError"
	exportFilename       = "uploadpro-settings.json"
	maxImageUploadMiB    = 10
	maxSettingsImportMiB = 20
)

// admin returns the visitor session when it carries the admin role
func (h *Handler) admin(c echo.Context) (*session.Session, error) {
	s, err := h.visitor(c)
	if err != nil {
		return nil, err
	}
	if !s.Role().IsAdmin() {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Forbidden")
	}
	return s, nil
}

// saved notifies the administrator and returns to the dashboard tab
func saved(c echo.Context, s *session.Session, tab, notice string) error {
	s.Notify(notice)
	return c.Redirect(http.StatusSeeOther, templates.AdminTabURL(tab))
}

// HandleAdminGeneral saves branding and operational settings
func (h *Handler) HandleAdminGeneral(c echo.Context) error {
	s, err := h.admin(c)
	if err != nil {
		return err
	}

	current := h.store.Settings()
	patch := settings.SettingsPatch{
		SiteTitle:          settings.Ptr(strings.TrimSpace(c.FormValue("siteTitle"))),
		SiteDescription:    settings.Ptr(strings.TrimSpace(c.FormValue("siteDescription"))),
		SiteKeywords:       model.ParseKeywords(c.FormValue("siteKeywords")),
		MaintenanceMode:    settings.Ptr(c.FormValue("maintenanceMode") != ""),
		AdsensePublisherID: settings.Ptr(strings.TrimSpace(c.FormValue("adsensePublisherId"))),
	}

	numbers := []struct {
		field string
		min   int
		dst   **int
	}{
		{"preDownloadDelay", 0, &patch.PreDownloadDelay},
		{"countdownDuration", 0, &patch.CountdownDuration},
		{"maxFileSize", 1, &patch.MaxFileSize},
	}
	for _, n := range numbers {
		raw := strings.TrimSpace(c.FormValue(n.field))
		if raw == "" {
			continue
		}
		v, err := cast.ToIntE(raw)
		if err != nil || v < n.min {
			return c.String(http.StatusBadRequest, fmt.Sprintf("Invalid value for %s", n.field))
		}
		*n.dst = settings.Ptr(v)
	}

	icon, err := formImage(c, "siteIcon")
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	switch {
	case icon != "":
		patch.SiteIcon = &icon
	case c.FormValue("removeSiteIcon") != "":
		patch.SiteIcon = settings.Ptr("")
	}

	bg, err := backgroundFromForm(c, current.DownloadPageBackground)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	patch.DownloadPageBackground = &bg

	h.store.UpdateSettings(patch)
	log.Printf("Admin %s updated general settings", s.ID)
	return saved(c, s, templates.TabGeneral, noticeSaved)
}

// backgroundFromForm resolves the download page background. Choosing the image
// type without uploading keeps the current image.
func backgroundFromForm(c echo.Context, current model.Background) (model.Background, error) {
	switch model.BackgroundType(c.FormValue("backgroundType")) {
	case model.BackgroundImage:
		img, err := formImage(c, "backgroundImage")
		if err != nil {
			return current, err
		}
		if img != "" {
			return model.Background{Type: model.BackgroundImage, Value: img}, nil
		}
		if current.Type == model.BackgroundImage && current.Value != "" {
			return current, nil
		}
		return current, errors.New("background image is required")
	case model.BackgroundColor:
		color := strings.TrimSpace(c.FormValue("backgroundColor"))
		if !isColor(color) {
			return current, errors.New("invalid background color")
		}
		return model.Background{Type: model.BackgroundColor, Value: color}, nil
	}
	return current, nil
}

// HandleAdminSEO saves crawler files and social sharing settings
func (h *Handler) HandleAdminSEO(c echo.Context) error {
	s, err := h.admin(c)
	if err != nil {
		return err
	}

	patch := settings.SettingsPatch{
		RobotsTxtContent:     settings.Ptr(c.FormValue("robotsTxtContent")),
		SitemapXMLContent:    settings.Ptr(c.FormValue("sitemapXmlContent")),
		EnableStructuredData: settings.Ptr(c.FormValue("enableStructuredData") != ""),
	}

	og, err := formImage(c, "ogImage")
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	switch {
	case og != "":
		patch.OGImage = &og
	case c.FormValue("removeOgImage") != "":
		patch.OGImage = settings.Ptr("")
	}

	h.store.UpdateSettings(patch)
	log.Printf("Admin %s updated SEO settings", s.ID)
	return saved(c, s, templates.TabSEO, noticeSaved)
}

// HandleAdminAds saves the ad slot list
func (h *Handler) HandleAdminAds(c echo.Context) error {
	s, err := h.admin(c)
	if err != nil {
		return err
	}

	params, err := c.FormParams()
	if err != nil {
		return c.String(http.StatusBadRequest, "Failed to parse form")
	}
	ids := params["id"]
	if len(params["unitId"]) != len(ids) || len(params["width"]) != len(ids) || len(params["height"]) != len(ids) {
		return c.String(http.StatusBadRequest, "Ad fields do not line up")
	}

	ads := make([]model.AdConfig, len(ids))
	for i, id := range ids {
		ads[i] = model.AdConfig{
			ID:     id,
			UnitID: strings.TrimSpace(params["unitId"][i]),
			Width:  strings.TrimSpace(params["width"][i]),
			Height: strings.TrimSpace(params["height"][i]),
		}
	}

	h.store.UpdateAds(ads)
	log.Printf("Admin %s updated %d ad slots", s.ID, len(ads))
	return saved(c, s, templates.TabAds, noticeSaved)
}

// subscriptionsFromForm rebuilds plans and gateways from the dashboard form,
// keeping the popular flag and gateway names of the stored collections
func subscriptionsFromForm(c echo.Context, current model.SubscriptionSettings) (settings.SubscriptionsPatch, error) {
	params, err := c.FormParams()
	if err != nil {
		return settings.SubscriptionsPatch{}, errors.New("failed to parse form")
	}

	var patch settings.SubscriptionsPatch
	ids := params["plan_id"]
	for _, field := range []string{"plan_name", "plan_price", "plan_description", "plan_features"} {
		if len(params[field]) != len(ids) {
			return patch, errors.New("plan fields do not line up")
		}
	}
	if len(ids) > 0 {
		enabled := set(params["plan_enabled"])
		seen := make(map[string]bool, len(ids))
		patch.Plans = make([]model.Plan, len(ids))
		for i, id := range ids {
			existing, ok := current.Plan(id)
			if !ok {
				return patch, fmt.Errorf("unknown plan %q", id)
			}
			if seen[id] {
				return patch, fmt.Errorf("duplicate plan %q", id)
			}
			seen[id] = true
			patch.Plans[i] = model.Plan{
				ID:          id,
				Name:        strings.TrimSpace(params["plan_name"][i]),
				Price:       strings.TrimSpace(params["plan_price"][i]),
				Description: strings.TrimSpace(params["plan_description"][i]),
				Features:    lines(params["plan_features"][i]),
				IsPopular:   existing.IsPopular,
				Enabled:     enabled[id],
			}
		}
	}

	gateways := params["gateway_id"]
	if len(params["gateway_apiKey"]) != len(gateways) {
		return patch, errors.New("gateway fields do not line up")
	}
	if len(gateways) > 0 {
		enabled := set(params["gateway_enabled"])
		seen := make(map[string]bool, len(gateways))
		patch.PaymentGateways = make([]model.PaymentGateway, len(gateways))
		for i, id := range gateways {
			existing, ok := current.Gateway(id)
			if !ok {
				return patch, fmt.Errorf("unknown payment gateway %q", id)
			}
			if seen[id] {
				return patch, fmt.Errorf("duplicate payment gateway %q", id)
			}
			seen[id] = true
			patch.PaymentGateways[i] = model.PaymentGateway{
				ID:      id,
				Name:    existing.Name,
				Enabled: enabled[id],
				APIKey:  strings.TrimSpace(params["gateway_apiKey"][i]),
			}
		}
	}
	return patch, nil
}

// HandleAdminSubscriptions saves plans and payment gateways
func (h *Handler) HandleAdminSubscriptions(c echo.Context) error {
	s, err := h.admin(c)
	if err != nil {
		return err
	}

	patch, err := subscriptionsFromForm(c, h.store.Subscriptions())
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	h.store.UpdateSubscriptions(patch)
	log.Printf("Admin %s updated subscriptions", s.ID)
	return saved(c, s, templates.TabSubscriptions, noticeSaved)
}

// HandleAdminPopular marks one plan as popular. Edits posted with the same form
// are saved first.
func (h *Handler) HandleAdminPopular(c echo.Context) error {
	s, err := h.admin(c)
	if err != nil {
		return err
	}

	patch, err := subscriptionsFromForm(c, h.store.Subscriptions())
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	if patch.Plans != nil || patch.PaymentGateways != nil {
		h.store.UpdateSubscriptions(patch)
	}
	if err := h.store.SetPopularPlan(c.Param("id")); err != nil {
		return failure(c, err)
	}
	return saved(c, s, templates.TabSubscriptions, noticeSaved)
}

// HandleAdminPages saves the content of one static page
func (h *Handler) HandleAdminPages(c echo.Context) error {
	s, err := h.admin(c)
	if err != nil {
		return err
	}

	key := model.PageKey(c.FormValue("page"))
	var content any = c.FormValue("content")
	if key == model.PageKeyContact {
		content = model.ContactPageContent{
			Title:    strings.TrimSpace(c.FormValue("title")),
			Subtitle: strings.TrimSpace(c.FormValue("subtitle")),
			Address:  strings.TrimSpace(c.FormValue("address")),
			Email:    strings.TrimSpace(c.FormValue("email")),
			Phone:    strings.TrimSpace(c.FormValue("phone")),
		}
	}

	if err := h.store.UpdatePageContent(key, content); err != nil {
		return failure(c, err)
	}
	log.Printf("Admin %s updated page %s", s.ID, key)
	return saved(c, s, templates.TabPages, noticeSaved)
}

// HandleAdminExport downloads the persisted settings blob
func (h *Handler) HandleAdminExport(c echo.Context) error {
	if _, err := h.admin(c); err != nil {
		return err
	}

	raw, err := h.store.Export()
	if err != nil {
		log.Printf("Error: Failed to export settings: %v", err)
		return c.String(http.StatusInternalServerError, "Failed to export settings")
	}
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, raw)
}

// HandleAdminImport replaces the settings with an uploaded export
func (h *Handler) HandleAdminImport(c echo.Context) error {
	s, err := h.admin(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("settings")
	if err != nil {
		return c.String(http.StatusBadRequest, "No settings file provided")
	}
	if fh.Size > maxSettingsImportMiB*1024*1024 {
		return c.String(http.StatusRequestEntityTooLarge, "Settings file is too large")
	}
	src, err := fh.Open()
	if err != nil {
		return c.String(http.StatusBadRequest, "Failed to open settings file")
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		return c.String(http.StatusBadRequest, "Failed to read settings file")
	}
	if err := h.store.Import(raw); err != nil {
		log.Printf("Warning: Rejected settings import from %s: %v", s.ID, err)
		return saved(c, s, templates.TabBackup, noticeImportFailed)
	}
	log.Printf("Admin %s imported settings", s.ID)
	return saved(c, s, templates.TabBackup, noticeImported)
}

func set(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// lines splits a textarea into trimmed, non-empty lines
func lines(s string) []string {
	out := []string{}
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
