package session

import (
	"github.com/marianozunino/uploadpro/internal/model"
)

// View is what the root renders for the current page
type View string

const (
	ViewAccessDenied View = "accessDenied"
	ViewFileNotFound View = "fileNotFound"
)

// Page is the current navigation target, which may differ from the rendered view
func (s *Session) Page() model.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Navigate moves to page. Leaving the upload flow discards the selected files.
func (s *Session) Navigate(page model.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigate(page)
}

func (s *Session) navigate(page model.Page) {
	if page == s.page {
		return
	}
	from := s.page
	s.page = page

	// Page local state does not survive navigation
	s.cancelCountdown()
	s.resetLogin()
	s.closePayment()
	s.resetContact()
	s.closeReport()

	if from.InUploadFlow() && !page.InUploadFlow() {
		s.resetPipeline()
	}
	if page == model.PagePreDownload || page == model.PageDownload {
		s.startCountdown()
	}
	s.changed()
}

// View applies gating to the current page. Pages that require a role render the
// login view for anonymous visitors without changing the page value.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	if s.page.RequiresRole() && !s.role.LoggedIn() {
		return View(model.PageLogin)
	}
	switch s.page {
	case model.PageAdminDashboard:
		if !s.role.IsAdmin() {
			return ViewAccessDenied
		}
	case model.PagePreDownload, model.PageDownload:
		if !s.uploaded() {
			return ViewFileNotFound
		}
	}
	return View(s.page)
}

// Login sets the role and routes administrators to the dashboard and everybody
// else to the upload page
func (s *Session) Login(role model.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginAs(role)
}

func (s *Session) loginAs(role model.Role) {
	s.role = role
	if role.IsAdmin() {
		s.navigate(model.PageAdminDashboard)
	} else {
		s.navigate(model.PageUpload)
	}
	s.changed()
}

// Logout clears the role, resets the upload pipeline and returns to the upload page
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = model.RoleNone
	s.navigate(model.PageUpload)
	s.resetPipeline()
	s.changed()
}
