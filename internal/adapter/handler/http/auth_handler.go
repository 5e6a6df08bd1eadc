package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	"github.com/sm8ta/webike_rental_storefront/internal/core/services"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

type AuthHandler struct {
	tokens  ports.TokenService
	cookies CookieConfig
	logger  ports.LoggerPort
	metrics ports.MetricsPort
}

type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty" example:"Ana Lopez"`
	Phone   *string `json:"phone,omitempty" example:"0812345678"`
	Address *string `json:"address,omitempty" example:"Jl. Raya Canggu 12"`
	Bio     *string `json:"bio,omitempty"`
	Avatar  *string `json:"avatar,omitempty" example:"https://cdn.example.com/a.png"`
}

func NewAuthHandler(tokens ports.TokenService, cookies CookieConfig, logger ports.LoggerPort, metrics ports.MetricsPort) *AuthHandler {
	return &AuthHandler{
		tokens:  tokens,
		cookies: cookies,
		logger:  logger,
		metrics: metrics,
	}
}

// @Summary Sign in
// @Description Signs the visitor in and resumes a booking waiting for it
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.LoginForm true "Credentials"
// @Success 200 {object} services.SessionSnapshot
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}

	var req validation.LoginForm
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if err := ws.Login(c.Request.Context(), &req); err != nil {
		h.respondAuthFailure(c, ws, err)
		return
	}
	h.signedIn(c, ws, http.StatusOK)
}

// @Summary Register
// @Description Creates an account and signs the visitor in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.RegisterForm true "Account"
// @Success 201 {object} services.SessionSnapshot
// @Failure 400 {object} errorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}

	var req validation.RegisterForm
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if err := ws.Register(c.Request.Context(), &req); err != nil {
		h.respondAuthFailure(c, ws, err)
		return
	}
	h.signedIn(c, ws, http.StatusCreated)
}

// respondAuthFailure reports a rejected sign in. Wrong credentials are a
// form error here, not a prompt to sign in.
func (h *AuthHandler) respondAuthFailure(c *gin.Context, ws *services.Workspace, err error) {
	if _, ok := validation.AsErrors(err); ok {
		handleError(c, err)
		return
	}
	msg := ws.Session.Error()
	if msg == "" {
		msg = "Sign in failed"
	}
	status := http.StatusBadGateway
	if isAuthError(err) {
		status = http.StatusUnauthorized
	}
	newErrorResponse(c, status, msg)
}

func (h *AuthHandler) signedIn(c *gin.Context, ws *services.Workspace, status int) {
	session := ws.Session.Session()
	claims := &domain.VisitorClaims{
		VisitorID: ws.ID,
		UserID:    session.User.ID,
		Role:      session.User.Role,
	}
	if err := setVisitorCookie(c, h.tokens, claims, h.cookies); err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "Failed to update session")
		return
	}
	setSessionCookies(c, session, h.cookies)
	c.JSON(status, ws.Session.Snapshot())
}

// @Summary Sign out
// @Description Ends the session locally; the backend token is not revoked
// @Tags auth
// @Produce json
// @Success 200 {object} messageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}

	ws.Logout(c.Request.Context())
	if err := setVisitorCookie(c, h.tokens, &domain.VisitorClaims{VisitorID: ws.ID}, h.cookies); err != nil {
		h.logger.Warn("Failed to reset visitor cookie", map[string]interface{}{
			"error": err.Error(),
		})
	}
	clearSessionCookies(c, h.cookies)
	c.JSON(http.StatusOK, messageResponse{Message: "Signed out"})
}

// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} services.SessionSnapshot
// @Router /auth/session [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}
	c.JSON(http.StatusOK, ws.Session.Snapshot())
}

// @Summary Refresh the signed-in user
// @Tags auth
// @Produce json
// @Success 200 {object} services.SessionSnapshot
// @Failure 401 {object} errorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}
	if err := ws.Session.Refresh(c.Request.Context()); err != nil {
		if isAuthError(err) {
			clearSessionCookies(c, h.cookies)
		}
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws.Session.Snapshot())
}

// @Summary Dismiss the session error
// @Tags auth
// @Success 204
// @Router /auth/error [delete]
func (h *AuthHandler) ClearError(c *gin.Context) {
	if ws, ok := getWorkspace(c); ok {
		ws.Session.ClearError()
	}
	c.Status(http.StatusNoContent)
}

// @Summary Update profile
// @Tags account
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Changed fields"
// @Success 200 {object} domain.User
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /account/profile [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	update := &domain.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Bio:     req.Bio,
		Avatar:  req.Avatar,
	}
	if update.Empty() {
		newErrorResponse(c, http.StatusBadRequest, "Nothing to update")
		return
	}

	user, err := ws.Session.UpdateProfile(c.Request.Context(), update)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
