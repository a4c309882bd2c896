package model

// Page identifies a top-level view of the application
type Page string

const (
	PageLogin          Page = "login"
	PageUpload         Page = "upload"
	PageDownload       Page = "download"
	PagePreDownload    Page = "preDownload"
	PageProfile        Page = "profile"
	PagePlans          Page = "plans"
	PagePaymentHistory Page = "paymentHistory"
	PageAdminDashboard Page = "adminDashboard"
	PageAbout          Page = "about"
	PagePrivacy        Page = "privacy"
	PageContact        Page = "contact"
)

// Pages lists every navigable page in header/footer order
var Pages = []Page{
	PageUpload,
	PageLogin,
	PagePreDownload,
	PageDownload,
	PageProfile,
	PagePlans,
	PagePaymentHistory,
	PageAdminDashboard,
	PageAbout,
	PagePrivacy,
	PageContact,
}

// ParsePage converts a route parameter into a Page
func ParsePage(s string) (Page, bool) {
	for _, p := range Pages {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// RequiresRole reports whether the page is only shown to logged in visitors
func (p Page) RequiresRole() bool {
	switch p {
	case PageProfile, PagePaymentHistory, PageAdminDashboard:
		return true
	}
	return false
}

// InUploadFlow reports whether the page shows the files of the current upload
func (p Page) InUploadFlow() bool {
	switch p {
	case PageUpload, PagePreDownload, PageDownload:
		return true
	}
	return false
}

// Role is the simulated identity of a visitor
type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole accepts the two login tabs
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return RoleNone, false
}

func (r Role) LoggedIn() bool { return r != RoleNone }

func (r Role) IsAdmin() bool { return r == RoleAdmin }
