package templates

import (
	"html/template"
	"strings"

	"github.com/marianozunino/uploadpro/internal/locale"
	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/marianozunino/uploadpro/internal/seo"
	"github.com/marianozunino/uploadpro/internal/session"
)

// MediaBackground serves the download page background image
const MediaBackground = "/media/background"

// Admin dashboard tabs
const (
	TabGeneral       = "general"
	TabSEO           = "seo"
	TabAds           = "ads"
	TabSubscriptions = "subscriptions"
	TabPages         = "pages"
	TabBackup        = "backup"
)

// AdminTabs lists the dashboard tabs in display order
var AdminTabs = []string{TabGeneral, TabSEO, TabAds, TabSubscriptions, TabPages, TabBackup}

var adminTabKeys = map[string]string{
	TabGeneral:       "admin.tabGeneral",
	TabSEO:           "admin.tabSeo",
	TabAds:           "admin.tabAds",
	TabSubscriptions: "admin.tabSubscriptions",
	TabPages:         "admin.tabPages",
	TabBackup:        "admin.tabBackup",
}

// Page is everything the layout and the views render
type Page struct {
	State    session.State
	Head     seo.Head
	L        locale.Localizer
	App      model.AppState
	AdminTab string
	Origin   string
	PageURL  string
	Year     int
}

func (p Page) Settings() model.SiteSettings { return p.App.Settings }

func (p Page) IsAdmin() bool { return p.State.Role.IsAdmin() }

func (p Page) LoggedIn() bool { return p.State.Role.LoggedIn() }

func (p Page) Lang() string { return p.L.Locale }

func (p Page) Dir() string { return p.L.Dir() }

// SiteTitle falls back to the translated product name
func (p Page) SiteTitle() string {
	if p.App.Settings.SiteTitle != "" {
		return p.App.Settings.SiteTitle
	}
	return p.L.T("header.title")
}

// StructuredData is the JSON-LD document of the head, already encoded
func (p Page) StructuredData() template.JS {
	return template.JS(p.Head.StructuredData)
}

// File is the first file of the current upload
func (p Page) File() model.UploadedFile {
	if len(p.State.Files) == 0 {
		return model.UploadedFile{}
	}
	return p.State.Files[0]
}

// Plural picks the singular or plural word for files
func (p Page) Plural(n int) string {
	if n == 1 {
		return p.L.T("uploadPage.file_one")
	}
	return p.L.T("uploadPage.file_other")
}

func (p Page) Plans() []model.Plan {
	return p.App.Subscriptions.EnabledPlans()
}

func (p Page) Gateways() []model.PaymentGateway {
	return p.App.Subscriptions.EnabledGateways()
}

// CurrentPlan reports whether the visitor already pays for plan
func (p Page) CurrentPlan(plan model.Plan) bool {
	return plan.Name == p.State.SubscribedPlan
}

// PlanStatusKey names the plan the profile page advertises
func (p Page) PlanStatusKey() string {
	if p.State.SubscribedPlan != "" {
		return "profilePage.plan_pro"
	}
	return "profilePage.plan_free"
}

// Background is the inline style of the download page
func (p Page) Background() template.CSS {
	if p.State.View != session.View(model.PageDownload) {
		return ""
	}
	bg := p.App.Settings.DownloadPageBackground
	if bg.Type == model.BackgroundImage && bg.Value != "" {
		return template.CSS("background-image:url(" + MediaBackground + ");background-size:cover;background-position:center;background-repeat:no-repeat")
	}
	return template.CSS("background-color:" + bg.Value)
}

// ShareURL is the public address of the download page
func (p Page) ShareURL() string {
	return p.Origin + "/go/" + string(model.PageDownload)
}

// ReportReasons are the translated choices of the abuse report
func (p Page) ReportReasons() []string {
	keys := []string{"reasonCopyright", "reasonIllegal", "reasonHate", "reasonSpam", "reasonOther"}
	reasons := make([]string, len(keys))
	for i, k := range keys {
		reasons[i] = p.L.T("reportModal." + k)
	}
	return reasons
}

// AdSlot is one rendered ad position
type AdSlot struct {
	ID        string
	UnitID    string
	Width     string
	Height    string
	Publisher string
	Admin     bool
	L         locale.Localizer
}

// Live reports whether a real ad unit can be requested
func (a AdSlot) Live() bool {
	return a.Publisher != "" && a.UnitID != ""
}

func (a AdSlot) Style() template.CSS {
	return template.CSS("width:" + a.Width + ";height:" + a.Height)
}

// Ad resolves the slot configuration by id, defaulting the size
func (p Page) Ad(id, defaultHeight string) AdSlot {
	slot := AdSlot{
		ID:        id,
		Width:     "100%",
		Height:    defaultHeight,
		Publisher: p.App.Settings.AdsensePublisherID,
		Admin:     p.IsAdmin(),
		L:         p.L,
	}
	for _, ad := range p.App.Ads {
		if ad.ID != id {
			continue
		}
		slot.UnitID = ad.UnitID
		if ad.Width != "" {
			slot.Width = ad.Width
		}
		if ad.Height != "" {
			slot.Height = ad.Height
		}
	}
	return slot
}

// TabLabel translates an admin tab name
func (p Page) TabLabel(tab string) string {
	return p.L.T(adminTabKeys[tab])
}

// MediaType groups a content type for previews
func MediaType(contentType string) string {
	for _, kind := range []string{"image", "video", "audio"} {
		if strings.HasPrefix(contentType, kind+"/") {
			return kind
		}
	}
	if contentType == "application/pdf" {
		return "pdf"
	}
	return "file"
}

// UploadLimit is the limit in MB a rejected batch exceeded, zero otherwise
func (p Page) UploadLimit() int {
	limit, _ := p.State.UploadLimitMB()
	return limit
}

// AdminTabs lists the dashboard tabs for the tab bar
func (p Page) AdminTabs() []string {
	return AdminTabs
}
