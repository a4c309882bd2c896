package settings

import "github.com/marianozunino/uploadpro/internal/model"

// SettingsPatch is a partial SiteSettings. Nil fields are left unchanged.
type SettingsPatch struct {
	SiteTitle              *string           `json:"siteTitle,omitempty"`
	SiteDescription        *string           `json:"siteDescription,omitempty"`
	SiteKeywords           []string          `json:"siteKeywords,omitempty"`
	SiteIcon               *string           `json:"siteIcon,omitempty"`
	MaintenanceMode        *bool             `json:"maintenanceMode,omitempty"`
	CountdownDuration      *int              `json:"countdownDuration,omitempty"`
	PreDownloadDelay       *int              `json:"preDownloadDelay,omitempty"`
	MaxFileSize            *int              `json:"maxFileSize,omitempty"`
	DownloadPageBackground *model.Background `json:"downloadPageBackground,omitempty"`
	AdsensePublisherID     *string           `json:"adsensePublisherId,omitempty"`
	RobotsTxtContent       *string           `json:"robotsTxtContent,omitempty"`
	SitemapXMLContent      *string           `json:"sitemapXmlContent,omitempty"`
	OGImage                *string           `json:"ogImage,omitempty"`
	EnableStructuredData   *bool             `json:"enableStructuredData,omitempty"`
}

func (p SettingsPatch) apply(s *model.SiteSettings) {
	setIf(&s.SiteTitle, p.SiteTitle)
	setIf(&s.SiteDescription, p.SiteDescription)
	if p.SiteKeywords != nil {
		s.SiteKeywords = append([]string(nil), p.SiteKeywords...)
	}
	setIf(&s.SiteIcon, p.SiteIcon)
	setIf(&s.MaintenanceMode, p.MaintenanceMode)
	setIf(&s.CountdownDuration, p.CountdownDuration)
	setIf(&s.PreDownloadDelay, p.PreDownloadDelay)
	setIf(&s.MaxFileSize, p.MaxFileSize)
	setIf(&s.DownloadPageBackground, p.DownloadPageBackground)
	setIf(&s.AdsensePublisherID, p.AdsensePublisherID)
	setIf(&s.RobotsTxtContent, p.RobotsTxtContent)
	setIf(&s.SitemapXMLContent, p.SitemapXMLContent)
	setIf(&s.OGImage, p.OGImage)
	setIf(&s.EnableStructuredData, p.EnableStructuredData)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// SubscriptionsPatch replaces the collections that are non-nil. At most one of
// the replacing plans stays popular: the first one flagged.
type SubscriptionsPatch struct {
	Plans           []model.Plan           `json:"plans,omitempty"`
	PaymentGateways []model.PaymentGateway `json:"paymentGateways,omitempty"`
}

func (p SubscriptionsPatch) apply(s *model.SubscriptionSettings) {
	if p.Plans != nil {
		s.Plans = model.SubscriptionSettings{Plans: p.Plans}.Clone().Plans
		if s.PopularCount() > 1 {
			for _, plan := range s.Plans {
				if plan.IsPopular {
					s.MarkPopular(plan.ID)
					break
				}
			}
		}
	}
	if p.PaymentGateways != nil {
		s.PaymentGateways = append([]model.PaymentGateway(nil), p.PaymentGateways...)
	}
}

// Ptr returns a pointer to v, for building patches
func Ptr[T any](v T) *T {
	return &v
}
