package session

import (
	"github.com/marianozunino/uploadpro/internal/model"
)

// LoginStatus tracks the simulated credential check
type LoginStatus string

const (
	LoginIdle     LoginStatus = "idle"
	LoginChecking LoginStatus = "checking"
	LoginSuccess  LoginStatus = "success"
	LoginFailed   LoginStatus = "failed"
)

// LoginForm is the state of the login view
type LoginForm struct {
	Tab    model.Role
	Status LoginStatus
	Login  string
	// Error is a dictionary key
	Error string
}

// SelectLoginTab switches between the user and admin forms, clearing the form
func (s *Session) SelectLoginTab(tab model.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tab != model.RoleAdmin {
		tab = model.RoleUser
	}
	s.resetLogin()
	s.login.Tab = tab
	s.changed()
}

// SubmitLogin starts the simulated credential check. The result arrives after a
// delay; on success the role is applied after a further delay.
func (s *Session) SubmitLogin(tab model.Role, login, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.login.Status == LoginChecking || s.login.Status == LoginSuccess {
		return
	}
	if tab != model.RoleAdmin {
		tab = model.RoleUser
	}

	s.loginT.Cancel()
	s.login = LoginForm{Tab: tab, Status: LoginChecking, Login: login}
	s.changed()

	s.loginT = s.sched.After(loginCheckDelay, func() {
		role, err := s.deps.Credentials.Check(tab, login, password)
		if err != nil {
			s.login.Status = LoginFailed
			s.login.Error = "loginPage.invalidUser"
			if tab == model.RoleAdmin {
				s.login.Error = "loginPage.invalidAdmin"
			}
			s.loginT = nil
			s.changed()
			return
		}
		s.login.Status = LoginSuccess
		s.changed()
		s.loginT = s.sched.After(loginRedirectDelay, func() {
			s.loginT = nil
			s.loginAs(role)
		})
	})
}

func (s *Session) resetLogin() {
	s.loginT.Cancel()
	s.loginT = nil
	tab := s.login.Tab
	if tab == model.RoleNone {
		tab = model.RoleUser
	}
	s.login = LoginForm{Tab: tab, Status: LoginIdle}
}
