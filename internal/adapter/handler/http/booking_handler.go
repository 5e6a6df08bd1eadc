package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	"github.com/sm8ta/webike_rental_storefront/internal/core/services"
)

type BookingHandler struct {
	logger  ports.LoggerPort
	metrics ports.MetricsPort
}

type SelectBookingRequest struct {
	ID string `json:"id" binding:"required" example:"65f1c0e2a1"`
}

func NewBookingHandler(logger ports.LoggerPort, metrics ports.MetricsPort) *BookingHandler {
	return &BookingHandler{
		logger:  logger,
		metrics: metrics,
	}
}

// @Summary My bookings
// @Description Refetches the visitor's bookings. On failure the previous list is returned with the error set.
// @Tags bookings
// @Produce json
// @Param group query string false "all, upcoming or past"
// @Success 200 {object} services.BookingsSnapshot
// @Failure 401 {object} errorResponse
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}

	group := c.DefaultQuery("group", services.GroupAll)
	switch group {
	case services.GroupAll, services.GroupUpcoming, services.GroupPast:
	default:
		newErrorResponse(c, http.StatusBadRequest, "group must be all, upcoming or past")
		return
	}

	if err := ws.Bookings.FetchAll(c.Request.Context()); err != nil && isAuthError(err) {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws.Bookings.Snapshot(group))
}

// @Summary Booking detail
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} domain.Booking
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}

	booking, err := ws.Bookings.FetchByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// @Summary Cancel booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} messageResponse
// @Failure 401 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}

	bookingID := c.Param("id")
	if err := ws.Bookings.Cancel(c.Request.Context(), bookingID); err != nil {
		handleError(c, err)
		return
	}

	h.logger.Info("Booking cancelled by visitor", map[string]interface{}{
		"booking_id": bookingID,
		"visitor_id": ws.ID,
	})
	c.JSON(http.StatusOK, messageResponse{Message: "Booking cancelled"})
}

// @Summary Select booking
// @Description Focuses a cached booking for the detail panel
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body SelectBookingRequest true "Booking"
// @Success 200 {object} domain.Booking
// @Failure 404 {object} errorResponse
// @Router /bookings/selected [put]
func (h *BookingHandler) SelectBooking(c *gin.Context) {
	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}

	var req SelectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if err := ws.Bookings.SelectByID(req.ID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws.Bookings.Selected())
}

// @Summary Clear selection
// @Tags bookings
// @Success 204
// @Router /bookings/selected [delete]
func (h *BookingHandler) ClearSelection(c *gin.Context) {
	if ws, ok := getWorkspace(c); ok {
		ws.Bookings.SetSelected(nil)
	}
	c.Status(http.StatusNoContent)
}

// @Summary Dismiss bookings error
// @Tags bookings
// @Success 204
// @Router /bookings/error [delete]
func (h *BookingHandler) ClearError(c *gin.Context) {
	if ws, ok := getWorkspace(c); ok {
		ws.Bookings.ClearError()
	}
	c.Status(http.StatusNoContent)
}
