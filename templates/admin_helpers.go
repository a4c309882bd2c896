package templates

import (
	"html/template"
	"math"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"

	"github.com/marianozunino/uploadpro/internal/model"
)

// Helper functions for the view templates

var funcs = template.FuncMap{
	"formatCount":    FormatCount,
	"formatEarnings": FormatEarnings,
	"joinKeywords":   JoinKeywords,
	"featureLines":   FeatureLines,
	"adminTabURL":    AdminTabURL,
	"countEnabled":   CountEnabledPlans,
	"ringOffset":     RingOffset,
	"ringLength":     func() float64 { return ringCircumference },
	"mediaType":      MediaType,
	"trustedHTML":    TrustedHTML,
	"dict":           Dict,
}

func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

func FormatEarnings(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, ", ")
}

func FeatureLines(features []string) string {
	return strings.Join(features, "\n")
}

func AdminTabURL(tab string) string {
	return "/go/" + string(model.PageAdminDashboard) + "?tab=" + url.QueryEscape(tab)
}

func CountEnabledPlans(plans []model.Plan) int {
	count := 0
	for _, p := range plans {
		if p.Enabled {
			count++
		}
	}
	return count
}

const ringCircumference = 2 * math.Pi * 52

// RingOffset is the stroke offset of the countdown ring at the given percentage
func RingOffset(percent int) float64 {
	return ringCircumference - float64(percent)/100*ringCircumference
}

// TrustedHTML marks administrator authored page content as safe
func TrustedHTML(s string) template.HTML {
	return template.HTML(s)
}

// Dict builds a map from name/value pairs for passing several values to a
// nested template
func Dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[cast.ToString(kv[i])] = kv[i+1]
	}
	return m
}
