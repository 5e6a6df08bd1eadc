package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	"github.com/sm8ta/webike_rental_storefront/internal/core/services"
)

const (
	visitorCookie = "visitor"
	authCookie    = "auth-token"
	adminCookie   = "is-admin"

	workspaceKey = "workspace"
	claimsKey    = "visitor_claims"
)

// CookieConfig controls the cookies written by the storefront.
type CookieConfig struct {
	MaxAge int
	Secure bool
	Domain string
}

type workspaceRegistry interface {
	Get(ctx context.Context, visitorID uuid.UUID) *services.Workspace
}

// VisitorMiddleware resolves the visitor cookie to a workspace. A missing or
// invalid cookie starts a new anonymous visitor.
func VisitorMiddleware(tokens ports.TokenService, registry workspaceRegistry, cookies CookieConfig, logger ports.LoggerPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		var claims *domain.VisitorClaims
		if raw, err := c.Cookie(visitorCookie); err == nil && raw != "" {
			claims, err = tokens.VerifyToken(raw)
			if err != nil {
				logger.Debug("Discarding invalid visitor cookie", map[string]interface{}{
					"ip": c.ClientIP(),
				})
			}
		}

		if claims == nil {
			claims = &domain.VisitorClaims{VisitorID: uuid.New()}
			if err := setVisitorCookie(c, tokens, claims, cookies); err != nil {
				newErrorResponse(c, http.StatusInternalServerError, "Failed to start session")
				return
			}
		}

		c.Set(claimsKey, claims)
		c.Set(workspaceKey, registry.Get(c.Request.Context(), claims.VisitorID))
		c.Next()
	}
}

// RequireSession rejects visitors that are not signed in.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, ok := getWorkspace(c)
		if !ok {
			newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
			return
		}
		if !ws.Session.Session().IsAuthenticated() {
			handleError(c, domain.ErrAuthRequired)
			return
		}
		c.Next()
	}
}

// DashboardGuard lets a request through only when both the auth-token and
// is-admin cookies are present; everyone else is sent to the storefront.
func DashboardGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(authCookie)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		isAdmin, err := c.Cookie(adminCookie)
		if err != nil || isAdmin != "true" {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

func getWorkspace(c *gin.Context) (*services.Workspace, bool) {
	v, exists := c.Get(workspaceKey)
	if !exists {
		return nil, false
	}
	ws, ok := v.(*services.Workspace)
	return ws, ok
}

func getVisitorClaims(c *gin.Context) (*domain.VisitorClaims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*domain.VisitorClaims)
	return claims, ok
}

func setVisitorCookie(c *gin.Context, tokens ports.TokenService, claims *domain.VisitorClaims, cookies CookieConfig) error {
	token, err := tokens.IssueToken(claims)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(visitorCookie, token, cookies.MaxAge, "/", cookies.Domain, cookies.Secure, true)
	return nil
}

// setSessionCookies writes the cookies the dashboard guard reads.
func setSessionCookies(c *gin.Context, session domain.Session, cookies CookieConfig) {
	isAdmin := "false"
	if session.User.IsAdmin() {
		isAdmin = "true"
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookie, session.Token, cookies.MaxAge, "/", cookies.Domain, cookies.Secure, true)
	c.SetCookie(adminCookie, isAdmin, cookies.MaxAge, "/", cookies.Domain, cookies.Secure, false)
}

func clearSessionCookies(c *gin.Context, cookies CookieConfig) {
	c.SetCookie(authCookie, "", -1, "/", cookies.Domain, cookies.Secure, true)
	c.SetCookie(adminCookie, "", -1, "/", cookies.Domain, cookies.Secure, false)
}
