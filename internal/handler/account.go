package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marianozunino/uploadpro/internal/model"
	"github.com/marianozunino/uploadpro/internal/session"
)

// HandleLoginPage opens the login page
func (h *Handler) HandleLoginPage(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	s.Navigate(model.PageLogin)
	return back(c, s)
}

// HandleLoginTab switches between the user and admin forms
func (h *Handler) HandleLoginTab(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	role, _ := model.ParseRole(c.FormValue("tab"))
	s.SelectLoginTab(role)
	return back(c, s)
}

// HandleLogin starts the credential check
func (h *Handler) HandleLogin(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}

	tab, ok := model.ParseRole(c.FormValue("tab"))
	if !ok {
		tab = model.RoleUser
	}
	login := strings.TrimSpace(c.FormValue("login"))
	password := c.FormValue("password")
	if login == "" || password == "" {
		return c.String(http.StatusBadRequest, "Login and password are required")
	}

	s.SubmitLogin(tab, login, password)
	return back(c, s)
}

// HandleLogout drops the role and returns to the upload page
func (h *Handler) HandleLogout(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	s.Logout()
	return back(c, s)
}

// HandleSubscribe opens the payment flow for a plan
func (h *Handler) HandleSubscribe(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	if err := s.Subscribe(c.Param("id")); err != nil {
		return failure(c, err)
	}
	return back(c, s)
}

// HandlePaymentMethod picks a payment gateway
func (h *Handler) HandlePaymentMethod(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	if err := s.ChoosePaymentMethod(c.FormValue("method")); err != nil {
		return failure(c, err)
	}
	return back(c, s)
}

// HandlePaymentCard submits the card form. Card details are not kept.
func (h *Handler) HandlePaymentCard(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	if err := s.SubmitCard(); err != nil {
		return failure(c, err)
	}
	return back(c, s)
}

// HandlePaymentClose cancels the payment flow
func (h *Handler) HandlePaymentClose(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	s.ClosePayment()
	return back(c, s)
}

// HandleContact sends the contact form
func (h *Handler) HandleContact(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}

	err = s.SubmitContact(session.ContactMessage{
		Name:    strings.TrimSpace(c.FormValue("name")),
		Email:   strings.TrimSpace(c.FormValue("email")),
		Subject: strings.TrimSpace(c.FormValue("subject")),
		Message: strings.TrimSpace(c.FormValue("message")),
	})
	if err != nil {
		return failure(c, err)
	}
	return back(c, s)
}

// HandleReportOpen shows the abuse report dialog for the downloaded file
func (h *Handler) HandleReportOpen(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	if err := s.OpenReport(); err != nil {
		return failure(c, err)
	}
	return back(c, s)
}

// HandleReport sends the abuse report
func (h *Handler) HandleReport(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	if err := s.SubmitReport(c.FormValue("reason"), strings.TrimSpace(c.FormValue("details"))); err != nil {
		return failure(c, err)
	}
	return back(c, s)
}

// HandleReportClose hides the report dialog
func (h *Handler) HandleReportClose(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	s.CloseReport()
	return back(c, s)
}

// HandleProfileName renames the profile
func (h *Handler) HandleProfileName(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	if !s.Role().LoggedIn() {
		return c.String(http.StatusUnauthorized, "Unauthorized")
	}
	s.RenameProfile(c.FormValue("name"))
	return back(c, s)
}

// HandleProfileFile edits a file listed on the profile
func (h *Handler) HandleProfileFile(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	if !s.Role().LoggedIn() {
		return c.String(http.StatusUnauthorized, "Unauthorized")
	}
	if err := s.UpdateProfileFile(c.Param("id"), metadataPatch(c)); err != nil {
		return failure(c, err)
	}
	return back(c, s)
}

// HandleProfileFileDelete removes a file from the profile
func (h *Handler) HandleProfileFileDelete(c echo.Context) error {
	s, err := h.visitor(c)
	if err != nil {
		return err
	}
	if !s.Role().LoggedIn() {
		return c.String(http.StatusUnauthorized, "Unauthorized")
	}
	if err := s.DeleteProfileFile(c.Param("id")); err != nil {
		return failure(c, err)
	}
	return back(c, s)
}
