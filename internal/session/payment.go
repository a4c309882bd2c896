package session

import (
	"fmt"

	"github.com/marianozunino/uploadpro/internal/model"
)

// PaymentStep is the position in the simulated checkout
type PaymentStep string

const (
	StepSelection   PaymentStep = "selection"
	StepCardDetails PaymentStep = "card_details"
	StepProcessing  PaymentStep = "processing"
	StepSuccess     PaymentStep = "success"
)

// Payment is the state of the checkout dialog
type Payment struct {
	Open   bool
	Plan   model.Plan
	Step   PaymentStep
	Method string
	// Message is a dictionary key shown while processing
	Message string
}

// Subscribe opens the checkout for a plan. Free plans and the current plan need
// no checkout; anonymous visitors are sent to the login page instead.
func (s *Session) Subscribe(planID string) error {
	plan, ok := s.deps.Settings.Subscriptions().Plan(planID)
	if !ok || !plan.Enabled {
		return fmt.Errorf("%w: %s", ErrUnknownPlan, planID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if plan.IsFree() || plan.Name == s.subscribedPlan || s.payment.Open {
		return nil
	}
	if !s.role.LoggedIn() {
		s.navigate(model.PageLogin)
		return nil
	}
	s.payment = Payment{Open: true, Plan: plan, Step: StepSelection}
	s.changed()
	return nil
}

// ChoosePaymentMethod picks one of the enabled gateways
func (s *Session) ChoosePaymentMethod(method string) error {
	gateway, ok := s.deps.Settings.Subscriptions().Gateway(method)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.payment.Open {
		return ErrPaymentClosed
	}
	if s.payment.Step != StepSelection {
		return fmt.Errorf("%w: %s", ErrInvalidStep, s.payment.Step)
	}
	if !ok || !gateway.Enabled {
		return fmt.Errorf("%w: %s", ErrGatewayDisabled, method)
	}

	s.payment.Method = method
	switch method {
	case model.GatewayCard:
		s.payment.Step = StepCardDetails
	case model.GatewayPayPal:
		s.process("paymentModal.redirectingPayPal")
	case model.GatewayApplePay:
		s.process("paymentModal.processingApplePay")
	default:
		return fmt.Errorf("%w: %s", ErrGatewayDisabled, method)
	}
	s.changed()
	return nil
}

// SubmitCard accepts any card details
func (s *Session) SubmitCard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.payment.Open {
		return ErrPaymentClosed
	}
	if s.payment.Step != StepCardDetails {
		return fmt.Errorf("%w: %s", ErrInvalidStep, s.payment.Step)
	}
	s.process("paymentModal.processing")
	s.changed()
	return nil
}

// ClosePayment dismisses the checkout and drops any pending result
func (s *Session) ClosePayment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closePayment()
	s.changed()
}

func (s *Session) closePayment() {
	s.payT.Cancel()
	s.payT = nil
	s.payment = Payment{}
}

func (s *Session) process(message string) {
	s.payment.Step = StepProcessing
	s.payment.Message = message
	s.payT = s.sched.After(paymentDelay, func() {
		s.payment.Step = StepSuccess
		s.changed()
		s.payT = s.sched.After(paymentCloseDelay, func() {
			s.payT = nil
			s.paymentSucceeded(s.payment.Plan)
			s.payment = Payment{}
			s.changed()
		})
	})
}

func (s *Session) paymentSucceeded(plan model.Plan) {
	if current, ok := s.deps.Settings.Subscriptions().Plan(plan.ID); ok {
		plan = current
	}
	now := s.sched.Now()
	txn := model.Transaction{
		ID:          fmt.Sprintf("txn_%d", now.UnixMilli()),
		Date:        now.Format("2006-01-02"),
		Description: s.t("paymentHistory.transactionDescription", "planName", plan.Name),
		Amount:      plan.Price,
	}
	s.transactions = append([]model.Transaction{txn}, s.transactions...)
	s.subscribedPlan = plan.Name
}
