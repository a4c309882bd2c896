package model

// BackgroundType selects how the download page background is painted
type BackgroundType string

const (
	BackgroundColor BackgroundType = "color"
	BackgroundImage BackgroundType = "image"
)

// Background is either a CSS color or an image data URL
type Background struct {
	Type  BackgroundType `json:"type"`
	Value string         `json:"value"`
}

// SiteSettings holds branding, operational and SEO configuration of the site
type SiteSettings struct {
	SiteTitle              string     `json:"siteTitle"`
	SiteDescription        string     `json:"siteDescription"`
	SiteKeywords           []string   `json:"siteKeywords"`
	SiteIcon               string     `json:"siteIcon"`
	MaintenanceMode        bool       `json:"maintenanceMode"`
	CountdownDuration      int        `json:"countdownDuration"`
	PreDownloadDelay       int        `json:"preDownloadDelay"`
	MaxFileSize            int        `json:"maxFileSize"` // MB
	DownloadPageBackground Background `json:"downloadPageBackground"`
	AdsensePublisherID     string     `json:"adsensePublisherId"`

	RobotsTxtContent     string `json:"robotsTxtContent"`
	SitemapXMLContent    string `json:"sitemapXmlContent"`
	OGImage              string `json:"ogImage"`
	EnableStructuredData bool   `json:"enableStructuredData"`
}

// MaxFileSizeBytes converts the configured limit to bytes
func (s SiteSettings) MaxFileSizeBytes() int64 {
	return int64(s.MaxFileSize) * 1024 * 1024
}

// Clone returns a copy that shares no slices with s
func (s SiteSettings) Clone() SiteSettings {
	s.SiteKeywords = append([]string(nil), s.SiteKeywords...)
	return s
}

// AdConfig configures one ad slot
type AdConfig struct {
	ID     string `json:"id"`
	UnitID string `json:"unitId"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// Plan is a subscription offering
type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	IsPopular   bool     `json:"isPopular"`
	Enabled     bool     `json:"enabled"`
}

// IsFree reports whether subscribing requires no payment
func (p Plan) IsFree() bool {
	return p.Price == "$0"
}

const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// PaymentGateway toggles a simulated payment method
type PaymentGateway struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	APIKey  string `json:"apiKey,omitempty"`
}

const (
	GatewayCard     = "card"
	GatewayPayPal   = "paypal"
	GatewayApplePay = "apple_pay"
)

// SubscriptionSettings groups plans and payment gateways
type SubscriptionSettings struct {
	Plans           []Plan           `json:"plans"`
	PaymentGateways []PaymentGateway `json:"paymentGateways"`
}

// Clone returns a deep copy
func (s SubscriptionSettings) Clone() SubscriptionSettings {
	out := SubscriptionSettings{
		Plans:           make([]Plan, len(s.Plans)),
		PaymentGateways: append([]PaymentGateway(nil), s.PaymentGateways...),
	}
	for i, p := range s.Plans {
		p.Features = append([]string(nil), p.Features...)
		out.Plans[i] = p
	}
	return out
}

// Plan looks a plan up by id
func (s SubscriptionSettings) Plan(id string) (Plan, bool) {
	for _, p := range s.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// Gateway looks a gateway up by id
func (s SubscriptionSettings) Gateway(id string) (PaymentGateway, bool) {
	for _, g := range s.PaymentGateways {
		if g.ID == id {
			return g, true
		}
	}
	return PaymentGateway{}, false
}

// EnabledPlans returns the plans shown on the plans page
func (s SubscriptionSettings) EnabledPlans() []Plan {
	var plans []Plan
	for _, p := range s.Plans {
		if p.Enabled {
			plans = append(plans, p)
		}
	}
	return plans
}

// EnabledGateways returns the gateways offered in the payment flow
func (s SubscriptionSettings) EnabledGateways() []PaymentGateway {
	var gateways []PaymentGateway
	for _, g := range s.PaymentGateways {
		if g.Enabled {
			gateways = append(gateways, g)
		}
	}
	return gateways
}

// MarkPopular flags the plan with the given id as popular and clears the flag on
// every other plan. It returns false when no plan has that id, leaving s unchanged.
func (s *SubscriptionSettings) MarkPopular(id string) bool {
	if _, ok := s.Plan(id); !ok {
		return false
	}
	for i := range s.Plans {
		s.Plans[i].IsPopular = s.Plans[i].ID == id
	}
	return true
}

// PopularCount counts plans flagged as popular
func (s SubscriptionSettings) PopularCount() int {
	n := 0
	for _, p := range s.Plans {
		if p.IsPopular {
			n++
		}
	}
	return n
}

// ContactPageContent is the editable content of the contact page
type ContactPageContent struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Address  string `json:"address"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// PageContent holds the static pages. About and privacy are admin-authored HTML.
type PageContent struct {
	About   string             `json:"about"`
	Privacy string             `json:"privacy"`
	Contact ContactPageContent `json:"contact"`
}

// PageKey names an editable static page
type PageKey string

const (
	PageKeyAbout   PageKey = "about"
	PageKeyPrivacy PageKey = "privacy"
	PageKeyContact PageKey = "contact"
)

// AppState is the persisted settings blob
type AppState struct {
	Settings      SiteSettings         `json:"settings"`
	Ads           []AdConfig           `json:"ads"`
	Pages         PageContent          `json:"pages"`
	Subscriptions SubscriptionSettings `json:"subscriptions"`
}

// Clone returns a deep copy of the state
func (a AppState) Clone() AppState {
	return AppState{
		Settings:      a.Settings.Clone(),
		Ads:           append([]AdConfig(nil), a.Ads...),
		Pages:         a.Pages,
		Subscriptions: a.Subscriptions.Clone(),
	}
}
