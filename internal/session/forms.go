package session

import (
	"strings"

	"github.com/marianozunino/uploadpro/internal/model"
)

// FormStatus tracks a simulated submission
type FormStatus string

const (
	FormIdle    FormStatus = "idle"
	FormSending FormStatus = "sending"
	FormSent    FormStatus = "sent"
)

// ContactMessage is the content of the contact form
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func (m ContactMessage) complete() bool {
	for _, v := range []string{m.Name, m.Email, m.Subject, m.Message} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// SubmitContact pretends to send the contact form
func (s *Session) SubmitContact(m ContactMessage) error {
	if !m.complete() {
		return ErrIncompleteForm
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contact == FormSending || s.contact == FormSent {
		return ErrAlreadySubmitted
	}
	s.contact = FormSending
	s.changed()
	s.contT = s.sched.After(contactDelay, func() {
		s.contT = nil
		s.contact = FormSent
		s.changed()
	})
	return nil
}

func (s *Session) resetContact() {
	s.contT.Cancel()
	s.contT = nil
	s.contact = FormIdle
}

// Report is the state of the abuse report dialog
type Report struct {
	Open    bool
	Status  FormStatus
	Reason  string
	Details string
}

// OpenReport shows the abuse report dialog for the file on the download page
func (s *Session) OpenReport() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page != model.PageDownload || s.pipeline.Count() == 0 {
		return ErrNoFile
	}
	s.closeReport()
	s.report = Report{Open: true, Status: FormIdle}
	s.changed()
	return nil
}

// SubmitReport pretends to send the report and closes the dialog shortly after
func (s *Session) SubmitReport(reason, details string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrIncompleteForm
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.report.Open {
		return ErrReportClosed
	}
	if s.report.Status != FormIdle {
		return ErrAlreadySubmitted
	}
	s.report.Status = FormSending
	s.report.Reason = reason
	s.report.Details = details
	s.changed()

	s.reportT = s.sched.After(reportSendDelay, func() {
		s.report.Status = FormSent
		s.changed()
		s.reportT = s.sched.After(reportCloseDelay, func() {
			s.reportT = nil
			s.report = Report{}
			s.changed()
		})
	})
	return nil
}

// CloseReport dismisses the dialog
func (s *Session) CloseReport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeReport()
	s.changed()
}

func (s *Session) closeReport() {
	s.reportT.Cancel()
	s.reportT = nil
	s.report = Report{}
}
