package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	"github.com/sm8ta/webike_rental_storefront/internal/core/pricing"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

// bookingCreator is the part of the booking store the wizard submits to.
type bookingCreator interface {
	Create(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error)
}

// BookingWizard drives the dates -> personal info -> review sequence of one
// booking attempt.
type BookingWizard struct {
	mu    sync.Mutex
	draft *domain.BookingDraft

	bookings bookingCreator
	session  sessionSource
	validate *validation.Validator
	logger   ports.LoggerPort
}

type WizardSnapshot struct {
	Active bool                 `json:"active"`
	Step   string               `json:"step,omitempty"`
	Draft  *domain.BookingDraft `json:"draft,omitempty"`
	Quote  *pricing.Quote       `json:"quote,omitempty"`
}

func NewBookingWizard(
	bookings bookingCreator,
	session sessionSource,
	validate *validation.Validator,
	logger ports.LoggerPort,
) *BookingWizard {
	return &BookingWizard{
		bookings: bookings,
		session:  session,
		validate: validate,
		logger:   logger,
	}
}

// Start discards any previous draft and opens a new one for m.
func (w *BookingWizard) Start(m domain.Motorbike) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.draft = &domain.BookingDraft{
		Motorbike:    m,
		Step:         domain.StepDates,
		SameLocation: true,
		Days:         1,
		TotalPrice:   pricing.Subtotal(m.Price, 1),
	}
	w.prefill()
}

// Close discards the draft.
func (w *BookingWizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = nil
}

func (w *BookingWizard) editable() (*domain.BookingDraft, error) {
	if w.draft == nil {
		return nil, domain.ErrNoDraft
	}
	if w.draft.Step == domain.StepConfirmed || w.draft.Submitting {
		return nil, domain.ErrInvalidStep
	}
	return w.draft, nil
}

func (w *BookingWizard) SetDates(start, end time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.editable()
	if err != nil {
		return err
	}
	d.StartDate, d.EndDate = start, end
	w.recompute()
	return nil
}

func (w *BookingWizard) SetLocations(pickup, dropoff string, same bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.editable()
	if err != nil {
		return err
	}
	d.PickupLocation = strings.TrimSpace(pickup)
	d.SameLocation = same
	if same {
		d.DropoffLocation = d.PickupLocation
	} else {
		d.DropoffLocation = strings.TrimSpace(dropoff)
	}
	w.recompute()
	return nil
}

func (w *BookingWizard) SetPersonalInfo(fullName, email, phone string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.editable()
	if err != nil {
		return err
	}
	d.FullName = strings.TrimSpace(fullName)
	d.Email = strings.TrimSpace(email)
	d.Phone = strings.TrimSpace(phone)
	return nil
}

func (w *BookingWizard) SetPaymentMethod(m domain.PaymentMethod) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.editable()
	if err != nil {
		return err
	}
	if err := w.validate.Struct(&validation.PaymentForm{PaymentMethod: m}); err != nil {
		return err
	}
	d.PaymentMethod = m
	return nil
}

func (w *BookingWizard) AttachProof(f *domain.File) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.editable()
	if err != nil {
		return err
	}
	d.PaymentProof = f
	return nil
}

// Next validates the current step and advances. Review is left by Submit.
func (w *BookingWizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.editable()
	if err != nil {
		return err
	}

	switch d.Step {
	case domain.StepDates:
		if err := w.validate.Struct(w.detailForm()); err != nil {
			return err
		}
		d.Step = domain.StepPersonalInfo
	case domain.StepPersonalInfo:
		if err := w.validate.Struct(w.personalForm()); err != nil {
			return err
		}
		d.Step = domain.StepReview
	default:
		return domain.ErrInvalidStep
	}
	return nil
}

// Back returns to any earlier step.
func (w *BookingWizard) Back(step domain.WizardStep) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.editable()
	if err != nil {
		return err
	}
	if step < domain.StepDates || step >= d.Step {
		return domain.ErrInvalidStep
	}
	d.Step = step
	return nil
}

func (w *BookingWizard) DismissError() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft != nil {
		w.draft.Error = ""
	}
}

// Resume is called after the visitor signs in. The draft keeps its step;
// empty contact fields are filled from the new session.
func (w *BookingWizard) Resume() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return
	}
	w.draft.AwaitingAuth = false
	w.prefill()
}

// Submit turns the draft into a booking. Every check that can fail without
// the backend runs first; a backend failure keeps the draft intact.
func (w *BookingWizard) Submit(ctx context.Context) (*domain.Booking, error) {
	w.mu.Lock()
	d, err := w.editable()
	if err != nil {
		w.mu.Unlock()
		if errors.Is(err, domain.ErrInvalidStep) && w.draft != nil && w.draft.Submitting {
			return nil, domain.ErrSubmitInProgress
		}
		return nil, err
	}
	if d.Step != domain.StepReview {
		w.mu.Unlock()
		return nil, domain.ErrStepIncomplete
	}
	if err := w.checkAll(); err != nil {
		w.mu.Unlock()
		return nil, err
	}

	sess := w.session.Session()
	if !sess.IsAuthenticated() {
		d.AwaitingAuth = true
		w.mu.Unlock()
		return nil, domain.ErrAuthRequired
	}

	req := w.request(sess.User.ID)
	d.Submitting = true
	d.Error = ""
	w.mu.Unlock()

	booking, err := w.bookings.Create(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft != d {
		// closed or restarted while the request was in flight
		if err != nil {
			return nil, err
		}
		return booking, nil
	}
	d.Submitting = false
	if err != nil {
		d.Error = publicMessage(err)
		w.logger.Warn("Booking submission failed", map[string]interface{}{
			"error":        err.Error(),
			"motorbike_id": req.MotorbikeID,
		})
		return nil, err
	}

	d.Step = domain.StepConfirmed
	d.Confirmed = booking
	d.AwaitingAuth = false
	w.logger.Info("Booking submitted", map[string]interface{}{
		"booking_id":     booking.ID,
		"motorbike_id":   req.MotorbikeID,
		"payment_method": req.PaymentMethod,
	})
	return booking, nil
}

func (w *BookingWizard) Snapshot() WizardSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return WizardSnapshot{}
	}
	d := *w.draft
	q := pricing.NewQuote(d.Motorbike.Price, d.StartDate, d.EndDate)
	return WizardSnapshot{
		Active: true,
		Step:   d.Step.String(),
		Draft:  &d,
		Quote:  &q,
	}
}

// Quote is the price summary shown on the review step.
func (w *BookingWizard) Quote() (pricing.Quote, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return pricing.Quote{}, domain.ErrNoDraft
	}
	return pricing.NewQuote(w.draft.Motorbike.Price, w.draft.StartDate, w.draft.EndDate), nil
}

func (w *BookingWizard) recompute() {
	d := w.draft
	d.Days = pricing.DayCount(d.StartDate, d.EndDate)
	d.TotalPrice = pricing.Subtotal(d.Motorbike.Price, d.Days)
}

func (w *BookingWizard) prefill() {
	sess := w.session.Session()
	if !sess.IsAuthenticated() {
		return
	}
	d := w.draft
	if d.FullName == "" {
		d.FullName = sess.User.Name
	}
	if d.Email == "" {
		d.Email = sess.User.Email
	}
	if d.Phone == "" && sess.User.Phone != nil {
		d.Phone = *sess.User.Phone
	}
}

func (w *BookingWizard) detailForm() *validation.BookingDetailForm {
	d := w.draft
	return &validation.BookingDetailForm{
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		PickupLocation:  d.PickupLocation,
		DropoffLocation: d.DropoffLocation,
		SameLocation:    d.SameLocation,
	}
}

func (w *BookingWizard) personalForm() *validation.PersonalInfoForm {
	d := w.draft
	return &validation.PersonalInfoForm{
		FullName: d.FullName,
		Email:    d.Email,
		Phone:    d.Phone,
	}
}

// checkAll re-validates every step before submit.
func (w *BookingWizard) checkAll() error {
	d := w.draft
	if err := w.validate.Struct(w.detailForm()); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStepIncomplete, err)
	}
	if err := w.validate.Struct(w.personalForm()); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStepIncomplete, err)
	}
	if err := w.validate.Struct(&validation.PaymentForm{PaymentMethod: d.PaymentMethod}); err != nil {
		return err
	}
	if d.PaymentMethod == domain.PaymentQR && (d.PaymentProof == nil || len(d.PaymentProof.Data) == 0) {
		return domain.ErrProofRequired
	}
	return nil
}

func (w *BookingWizard) request(userID string) *domain.CreateBookingRequest {
	d := w.draft
	dropoff := d.DropoffLocation
	if d.SameLocation {
		dropoff = d.PickupLocation
	}
	return &domain.CreateBookingRequest{
		UserID:          userID,
		MotorbikeID:     d.Motorbike.ID,
		PickupLocation:  d.PickupLocation,
		DropoffLocation: dropoff,
		PickupDate:      d.StartDate,
		DropoffDate:     d.EndDate,
		Amount:          d.TotalPrice,
		TotalPrice:      d.TotalPrice,
		PaymentMethod:   d.PaymentMethod,
		PaymentProof:    d.PaymentProof,
	}
}
