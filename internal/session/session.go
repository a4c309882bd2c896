package session

import (
	"errors"
	"sync"
	"time"

	"github.com/marianozunino/uploadpro/internal/auth"
	"github.com/marianozunino/uploadpro/internal/clock"
	"github.com/marianozunino/uploadpro/internal/locale"
	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/marianozunino/uploadpro/internal/seo"
	"github.com/marianozunino/uploadpro/internal/settings"
	"github.com/marianozunino/uploadpro/internal/upload"
)

var (
	ErrUnknownPlan      = errors.New("unknown plan")
	ErrPaymentClosed    = errors.New("no payment in progress")
	ErrGatewayDisabled  = errors.New("payment method not available")
	ErrInvalidStep      = errors.New("action not allowed at this payment step")
	ErrIncompleteForm   = errors.New("required fields are missing")
	ErrReportClosed     = errors.New("report dialog is not open")
	ErrNoFile           = errors.New("no uploaded file")
	ErrUnknownFile      = errors.New("unknown file")
	ErrAlreadySubmitted = errors.New("form already submitted")
)

const (
	successSingleDelay   = 1500 * time.Millisecond
	successMultipleDelay = 2500 * time.Millisecond
	loginCheckDelay      = 1000 * time.Millisecond
	loginRedirectDelay   = 1000 * time.Millisecond
	paymentDelay         = 2000 * time.Millisecond
	paymentCloseDelay    = 1500 * time.Millisecond
	contactDelay         = 2000 * time.Millisecond
	reportSendDelay      = 1500 * time.Millisecond
	reportCloseDelay     = 2000 * time.Millisecond
	noticeDuration       = 4000 * time.Millisecond
	countdownTick        = time.Second
)

// Deps are the shared services a session reads from
type Deps struct {
	Settings    *settings.Store
	Catalog     *locale.Catalog
	Credentials auth.Credentials
	Clock       clock.Clock
}

// Session is the application state of one visitor. Its mutex plays the role of
// the single UI thread: every public method and every scheduled callback runs
// with it held.
type Session struct {
	ID string

	mu    sync.Mutex
	deps  Deps
	sched *clock.Scheduler

	page     model.Page
	role     model.Role
	locale   string
	pipeline *upload.Pipeline
	head     *seo.Reconciler

	postUpload *clock.Token
	countdown  Countdown
	countTok   *clock.Token

	login   LoginForm
	loginT  *clock.Token
	payment Payment
	payT    *clock.Token
	contact FormStatus
	contT   *clock.Token
	report  Report
	reportT *clock.Token
	notice  string
	noticeT *clock.Token

	transactions   []model.Transaction
	subscribedPlan string
	profile        Profile

	version  uint64
	lastSeen time.Time
}

// New creates a visitor session on the upload page
func New(id, loc string, deps Deps) *Session {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if !locale.Supported(loc) {
		loc = locale.Default
	}
	s := &Session{
		ID:             id,
		deps:           deps,
		page:           model.PageUpload,
		locale:         loc,
		head:           seo.NewReconciler(),
		transactions:   seedTransactions(),
		subscribedPlan: "احترافي",
		profile:        defaultProfile(),
		lastSeen:       deps.Clock.Now(),
	}
	s.sched = clock.NewScheduler(deps.Clock, &s.mu)
	s.pipeline = upload.New(s.sched)
	s.pipeline.OnComplete = s.uploadCompleted
	s.login.Tab = model.RoleUser
	return s
}

func seedTransactions() []model.Transaction {
	return []model.Transaction{
		{ID: "txn_1", Date: "2024-07-15", Description: "اشتراك - الخطة الإحترافية", Amount: "$15.00"},
		{ID: "txn_2", Date: "2024-06-15", Description: "اشتراك - الخطة الإحترافية", Amount: "$15.00"},
	}
}

// Touch records activity for idle expiry
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.deps.Clock.Now()
}

// IdleSince reports the time of the last request
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Version increases on every state change, including timer driven ones
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Session) changed() {
	s.version++
}

// Close cancels every pending callback
func (s *Session) Close() {
	s.sched.CancelAll()
}

// Pending counts scheduled callbacks
func (s *Session) Pending() int {
	return s.sched.Pending()
}

func (s *Session) Role() model.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

func (s *Session) Locale() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

// SetLocale switches the active locale of this visitor
func (s *Session) SetLocale(l string) error {
	if !locale.Supported(l) {
		return locale.ErrUnsupportedLocale
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locale != l {
		s.locale = l
		s.changed()
	}
	return nil
}

func (s *Session) t(key string, vars ...any) string {
	return s.deps.Catalog.For(s.locale).T(key, vars...)
}

// Notify shows a transient message for a few seconds
func (s *Session) Notify(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = key
	s.noticeT.Cancel()
	s.noticeT = s.sched.After(noticeDuration, func() {
		s.notice = ""
		s.noticeT = nil
		s.changed()
	})
	s.changed()
}

// DismissNotice hides the current message
func (s *Session) DismissNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noticeT.Cancel()
	s.noticeT = nil
	s.notice = ""
	s.changed()
}
