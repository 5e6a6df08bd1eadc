package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/swag"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	"github.com/sm8ta/webike_rental_storefront/internal/core/services"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

// DashboardHandler serves the admin area. Requests reach it only through
// DashboardGuard, so the auth-token cookie is always present.
type DashboardHandler struct {
	admin   *services.AdminService
	logger  ports.LoggerPort
	metrics ports.MetricsPort
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"confirmed"`
}

type ListAdminBookingsResponse struct {
	Bookings []domain.AdminBooking `json:"bookings"`
	Count    int                   `json:"count"`
}

func NewDashboardHandler(admin *services.AdminService, logger ports.LoggerPort, metrics ports.MetricsPort) *DashboardHandler {
	return &DashboardHandler{
		admin:   admin,
		logger:  logger,
		metrics: metrics,
	}
}

func adminToken(c *gin.Context) string {
	token, _ := c.Cookie(authCookie)
	return token
}

// @Summary All bookings
// @Tags dashboard
// @Produce json
// @Param status query string false "pending, confirmed or canceled"
// @Success 200 {object} ListAdminBookingsResponse
// @Router /dashboard/bookings [get]
func (h *DashboardHandler) ListBookings(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var status domain.AdminStatus
	if raw := c.Query("status"); raw != "" {
		status = domain.AdminStatus(strings.ToLower(raw))
		if !status.Valid() {
			handleError(c, validation.Errors{"status": "must be one of: pending confirmed canceled"})
			return
		}
	}

	bookings, err := h.admin.ListBookings(c.Request.Context(), adminToken(c), status)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListAdminBookingsResponse{Bookings: bookings, Count: len(bookings)})
}

// @Summary Booking
// @Tags dashboard
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} domain.AdminBooking
// @Failure 404 {object} errorResponse
// @Router /dashboard/bookings/{id} [get]
func (h *DashboardHandler) GetBooking(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	booking, err := h.admin.GetBooking(c.Request.Context(), adminToken(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// @Summary Update booking status
// @Tags dashboard
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body UpdateStatusRequest true "Status"
// @Success 200 {object} domain.AdminBooking
// @Failure 400 {object} errorResponse
// @Router /dashboard/bookings/{id} [patch]
func (h *DashboardHandler) UpdateBookingStatus(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	booking, err := h.admin.UpdateBookingStatus(c.Request.Context(), adminToken(c), c.Param("id"), domain.AdminStatus(strings.ToLower(req.Status)))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// @Summary Delete booking
// @Tags dashboard
// @Param id path string true "Booking ID"
// @Success 200 {object} messageResponse
// @Router /dashboard/bookings/{id} [delete]
func (h *DashboardHandler) DeleteBooking(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	if err := h.admin.DeleteBooking(c.Request.Context(), adminToken(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Booking deleted"})
}

// @Summary Motorbikes
// @Tags dashboard
// @Produce json
// @Success 200 {array} domain.Motorbike
// @Router /dashboard/motorbikes [get]
func (h *DashboardHandler) ListMotorbikes(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bikes, err := h.admin.ListMotorbikes(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, bikes)
}

// @Summary Motorbike
// @Tags dashboard
// @Produce json
// @Param id path string true "Motorbike ID"
// @Success 200 {object} domain.Motorbike
// @Router /dashboard/motorbikes/{id} [get]
func (h *DashboardHandler) GetMotorbike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bike, err := h.admin.GetMotorbike(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, bike)
}

// @Summary Create motorbike
// @Tags dashboard
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param brand_id formData string true "Brand ID"
// @Param category formData string true "Category"
// @Param price formData number true "Daily rate"
// @Param engine_size formData string false "Engine size"
// @Param rating formData number false "Rating"
// @Param image formData file false "Image"
// @Success 201 {object} domain.Motorbike
// @Failure 400 {object} errorResponse
// @Router /dashboard/motorbikes [post]
func (h *DashboardHandler) CreateMotorbike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	in, err := bindMotorbikeForm(c)
	if err != nil {
		handleError(c, err)
		return
	}

	bike, err := h.admin.CreateMotorbike(c.Request.Context(), adminToken(c), in)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bike)
}

// @Summary Update motorbike
// @Tags dashboard
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Motorbike ID"
// @Param name formData string true "Name"
// @Param brand_id formData string true "Brand ID"
// @Param category formData string true "Category"
// @Param price formData number true "Daily rate"
// @Param image formData file false "Image"
// @Success 200 {object} domain.Motorbike
// @Router /dashboard/motorbikes/{id} [put]
func (h *DashboardHandler) UpdateMotorbike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	in, err := bindMotorbikeForm(c)
	if err != nil {
		handleError(c, err)
		return
	}

	bike, err := h.admin.UpdateMotorbike(c.Request.Context(), adminToken(c), c.Param("id"), in)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, bike)
}

// @Summary Delete motorbike
// @Tags dashboard
// @Param id path string true "Motorbike ID"
// @Success 200 {object} messageResponse
// @Router /dashboard/motorbikes/{id} [delete]
func (h *DashboardHandler) DeleteMotorbike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	if err := h.admin.DeleteMotorbike(c.Request.Context(), adminToken(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Motorbike deleted"})
}

// @Summary Brands
// @Tags dashboard
// @Produce json
// @Success 200 {array} domain.Brand
// @Router /dashboard/brands [get]
func (h *DashboardHandler) ListBrands(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	brands, err := h.admin.ListBrands(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, brands)
}

// @Summary Create brand
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body domain.BrandInput true "Brand"
// @Success 201 {object} domain.Brand
// @Router /dashboard/brands [post]
func (h *DashboardHandler) CreateBrand(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req domain.BrandInput
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	brand, err := h.admin.CreateBrand(c.Request.Context(), adminToken(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, brand)
}

// @Summary Update brand
// @Tags dashboard
// @Accept json
// @Produce json
// @Param id path string true "Brand ID"
// @Param request body domain.BrandInput true "Brand"
// @Success 200 {object} domain.Brand
// @Router /dashboard/brands/{id} [put]
func (h *DashboardHandler) UpdateBrand(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req domain.BrandInput
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	brand, err := h.admin.UpdateBrand(c.Request.Context(), adminToken(c), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, brand)
}

// @Summary Delete brand
// @Tags dashboard
// @Param id path string true "Brand ID"
// @Success 200 {object} messageResponse
// @Router /dashboard/brands/{id} [delete]
func (h *DashboardHandler) DeleteBrand(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	if err := h.admin.DeleteBrand(c.Request.Context(), adminToken(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Brand deleted"})
}

func bindMotorbikeForm(c *gin.Context) (*domain.MotorbikeInput, error) {
	fields := validation.Errors{}
	in := &domain.MotorbikeInput{
		Name:     strings.TrimSpace(c.PostForm("name")),
		BrandID:  strings.TrimSpace(c.PostForm("brand_id")),
		Category: strings.TrimSpace(c.PostForm("category")),
	}

	if raw := c.PostForm("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields["price"] = "must be a number"
		}
		in.Price = price
	}
	if raw := strings.TrimSpace(c.PostForm("engine_size")); raw != "" {
		in.EngineSize = swag.String(raw)
	}
	if raw := c.PostForm("rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields["rating"] = "must be a number"
		}
		in.Rating = swag.Float64(rating)
	}
	if len(fields) > 0 {
		return nil, fields
	}

	image, err := readFormFile(c, "image")
	if err != nil {
		return nil, validation.Errors{"image": err.Error()}
	}
	in.Image = image
	return in, nil
}
