package session

import (
	"github.com/marianozunino/uploadpro/internal/locale"
	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/marianozunino/uploadpro/internal/seo"
	"github.com/marianozunino/uploadpro/internal/upload"
)

// State is a consistent copy of everything a view renders
type State struct {
	Version uint64
	Page    model.Page
	View    View
	Role    model.Role
	Locale  string

	UploadStatus   upload.Status
	UploadProgress int
	UploadErr      error
	Files          []model.UploadedFile

	Countdown Countdown
	Login     LoginForm
	Payment   Payment
	Contact   FormStatus
	Report    Report
	Notice    string

	Transactions   []model.Transaction
	SubscribedPlan string
	Profile        Profile
}

// UploadLimitMB reports the size limit carried by a rejected batch, if any
func (st State) UploadLimitMB() (int, bool) {
	if e, ok := st.UploadErr.(*upload.SizeLimitError); ok {
		return e.LimitMB, true
	}
	return 0, false
}

// Snapshot copies the session state for rendering
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Version:        s.version,
		Page:           s.page,
		View:           s.view(),
		Role:           s.role,
		Locale:         s.locale,
		UploadStatus:   s.pipeline.Status(),
		UploadProgress: s.pipeline.Progress(),
		UploadErr:      s.pipeline.Err(),
		Files:          s.pipeline.Files(),
		Countdown:      s.countdown,
		Login:          s.login,
		Payment:        s.payment,
		Contact:        s.contact,
		Report:         s.report,
		Notice:         s.notice,
		Transactions:   append([]model.Transaction(nil), s.transactions...),
		SubscribedPlan: s.subscribedPlan,
		Profile:        s.profile.clone(),
	}
}

// Transactions lists the payment history, newest first
func (s *Session) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transaction(nil), s.transactions...)
}

// SubscribedPlan is the name of the plan the visitor pays for
func (s *Session) SubscribedPlan() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribedPlan
}

// Head reconciles the document head against the current settings and page.
// The head is only recomputed when one of its inputs changed.
func (s *Session) Head(origin, pageURL string) seo.Head {
	settings := s.deps.Settings.Settings()

	s.mu.Lock()
	defer s.mu.Unlock()
	loc := s.deps.Catalog.For(s.locale)
	head, _ := s.head.Reconcile(seo.Inputs{
		Settings: settings,
		Page:     s.page,
		Files:    s.pipeline.Files(),
		Locale:   s.locale,
		Role:     s.role,
		Origin:   origin,
		PageURL:  pageURL,
	}, func(key string) string { return loc.T(key) })
	return head
}

// Localizer returns the translator of the active locale
func (s *Session) Localizer() locale.Localizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps.Catalog.For(s.locale)
}
