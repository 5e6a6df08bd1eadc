package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	"github.com/sm8ta/webike_rental_storefront/internal/core/services"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

const maxProofSize = 5 << 20

type WizardHandler struct {
	catalog ports.CatalogService
	logger  ports.LoggerPort
	metrics ports.MetricsPort
}

type StartWizardRequest struct {
	MotorbikeID string `json:"motorbike_id" binding:"required" example:"65f1c0e2a1"`
}

type BookingDetailRequest struct {
	StartDate       string `json:"start_date" example:"2024-01-10"`
	EndDate         string `json:"end_date" example:"2024-01-12"`
	PickupLocation  string `json:"pickup_location" example:"Canggu"`
	DropoffLocation string `json:"dropoff_location" example:"Ubud"`
	SameLocation    bool   `json:"same_location" example:"true"`
}

type PersonalInfoRequest struct {
	FullName string `json:"full_name" example:"Ana Lopez"`
	Email    string `json:"email" example:"ana@example.com"`
	Phone    string `json:"phone" example:"0812345678"`
}

type BackRequest struct {
	Step string `json:"step" binding:"required" example:"dates"`
}

func NewWizardHandler(catalog ports.CatalogService, logger ports.LoggerPort, metrics ports.MetricsPort) *WizardHandler {
	return &WizardHandler{
		catalog: catalog,
		logger:  logger,
		metrics: metrics,
	}
}

// @Summary Start booking
// @Description Opens the booking wizard for a motorbike, discarding any previous draft
// @Tags wizard
// @Accept json
// @Produce json
// @Param request body StartWizardRequest true "Motorbike"
// @Success 201 {object} services.WizardSnapshot
// @Failure 404 {object} errorResponse
// @Router /wizard [post]
func (h *WizardHandler) Start(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}

	var req StartWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	bike, err := h.catalog.GetMotorbike(c.Request.Context(), req.MotorbikeID)
	if err != nil {
		handleError(c, err)
		return
	}

	ws.Wizard.Start(*bike)
	h.logger.Debug("Booking wizard opened", map[string]interface{}{
		"visitor_id":   ws.ID,
		"motorbike_id": bike.ID,
	})
	c.JSON(http.StatusCreated, ws.Wizard.Snapshot())
}

// @Summary Booking wizard state
// @Tags wizard
// @Produce json
// @Success 200 {object} services.WizardSnapshot
// @Router /wizard [get]
func (h *WizardHandler) Get(c *gin.Context) {
	h.apply(c, func(*services.BookingWizard) error { return nil })
}

// @Summary Set dates and locations
// @Tags wizard
// @Accept json
// @Produce json
// @Param request body BookingDetailRequest true "Rental details"
// @Success 200 {object} services.WizardSnapshot
// @Failure 400 {object} errorResponse
// @Router /wizard/details [put]
func (h *WizardHandler) SetDetails(c *gin.Context) {
	var req BookingDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	h.apply(c, func(w *services.BookingWizard) error {
		fields := validation.Errors{}
		startDate, ok := parseDate(req.StartDate)
		if !ok {
			fields["start_date"] = "must be a date (YYYY-MM-DD)"
		}
		endDate, ok := parseDate(req.EndDate)
		if !ok {
			fields["end_date"] = "must be a date (YYYY-MM-DD)"
		}
		if len(fields) > 0 {
			return fields
		}
		if err := w.SetDates(startDate, endDate); err != nil {
			return err
		}
		return w.SetLocations(req.PickupLocation, req.DropoffLocation, req.SameLocation)
	})
}

// @Summary Set personal info
// @Tags wizard
// @Accept json
// @Produce json
// @Param request body PersonalInfoRequest true "Contact details"
// @Success 200 {object} services.WizardSnapshot
// @Router /wizard/personal [put]
func (h *WizardHandler) SetPersonalInfo(c *gin.Context) {
	var req PersonalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	h.apply(c, func(w *services.BookingWizard) error {
		return w.SetPersonalInfo(req.FullName, req.Email, req.Phone)
	})
}

// @Summary Set payment
// @Description Payment method and, for QR payments, the transfer proof
// @Tags wizard
// @Accept multipart/form-data
// @Produce json
// @Param payment_method formData string true "qr, credit or bank"
// @Param payment_proof formData file false "Payment proof image"
// @Success 200 {object} services.WizardSnapshot
// @Failure 400 {object} errorResponse
// @Router /wizard/payment [put]
func (h *WizardHandler) SetPayment(c *gin.Context) {
	method := domain.PaymentMethod(strings.TrimSpace(c.PostForm("payment_method")))

	proof, err := readFormFile(c, "payment_proof")
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.apply(c, func(w *services.BookingWizard) error {
		if err := w.SetPaymentMethod(method); err != nil {
			return err
		}
		if proof != nil {
			return w.AttachProof(proof)
		}
		return nil
	})
}

// @Summary Next step
// @Description Validates the current step and advances
// @Tags wizard
// @Produce json
// @Success 200 {object} services.WizardSnapshot
// @Failure 400 {object} errorResponse
// @Router /wizard/next [post]
func (h *WizardHandler) Next(c *gin.Context) {
	h.apply(c, func(w *services.BookingWizard) error { return w.Next() })
}

// @Summary Go back
// @Tags wizard
// @Accept json
// @Produce json
// @Param request body BackRequest true "Earlier step"
// @Success 200 {object} services.WizardSnapshot
// @Failure 422 {object} errorResponse
// @Router /wizard/back [post]
func (h *WizardHandler) Back(c *gin.Context) {
	var req BackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	h.apply(c, func(w *services.BookingWizard) error {
		step, ok := domain.ParseWizardStep(req.Step)
		if !ok {
			return domain.ErrInvalidStep
		}
		return w.Back(step)
	})
}

// @Summary Dismiss wizard error
// @Tags wizard
// @Produce json
// @Success 200 {object} services.WizardSnapshot
// @Router /wizard/error [delete]
func (h *WizardHandler) DismissError(c *gin.Context) {
	h.apply(c, func(w *services.BookingWizard) error {
		w.DismissError()
		return nil
	})
}

// @Summary Close wizard
// @Tags wizard
// @Success 204
// @Router /wizard [delete]
func (h *WizardHandler) Close(c *gin.Context) {
	if ws, ok := getWorkspace(c); ok {
		ws.Wizard.Close()
	}
	c.Status(http.StatusNoContent)
}

// @Summary Submit booking
// @Description Creates the booking. Without a session the wizard keeps its step and 401 asks the visitor to sign in.
// @Tags wizard
// @Produce json
// @Success 201 {object} domain.Booking
// @Failure 401 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /wizard/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}

	booking, err := ws.Wizard.Submit(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	h.metrics.BookingSubmitted(string(booking.PaymentMethod))
	c.JSON(http.StatusCreated, booking)
}

// apply runs fn on the visitor's wizard and answers with its new state.
func (h *WizardHandler) apply(c *gin.Context, fn func(*services.BookingWizard) error) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}
	if err := fn(ws.Wizard); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws.Wizard.Snapshot())
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// readFormFile loads an optional multipart file. A missing field yields nil.
func readFormFile(c *gin.Context, field string) (*domain.File, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, errInvalidUpload
	}
	if header.Size > maxProofSize {
		return nil, errUploadTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, errInvalidUpload
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxProofSize+1))
	if err != nil || len(data) > maxProofSize {
		return nil, errUploadTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &domain.File{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        len(data),
		Data:        data,
	}, nil
}
