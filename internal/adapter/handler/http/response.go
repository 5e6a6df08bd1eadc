package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	oaerrors "github.com/go-openapi/errors"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/backend"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

const signInPath = "/login"

var (
	errInvalidUpload  = errors.New("invalid file upload")
	errUploadTooLarge = errors.New("file is larger than 5MB")
)

var errUnknownSort = validation.Errors{"sort": "must be one of: featured price-asc price-desc newest rating-desc"}

type errorResponse struct {
	Error    string            `json:"error" example:"Validation failed"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty" example:"/login"`
}

type messageResponse struct {
	Message string `json:"message" example:"Booking cancelled"`
}

func newErrorResponse(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

// handleError maps a service error onto the HTTP response.
func handleError(c *gin.Context, err error) {
	if fields, ok := validation.AsErrors(err); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
			Error:  "Validation failed",
			Fields: fields,
		})
		return
	}

	var apiErr *backend.APIError
	var oaErr oaerrors.Error
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
			Error:    "Please sign in to continue",
			Redirect: signInPath,
		})
	case errors.Is(err, domain.ErrNotFound):
		newErrorResponse(c, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrNoDraft):
		newErrorResponse(c, http.StatusConflict, "No booking in progress")
	case errors.Is(err, domain.ErrSubmitInProgress):
		newErrorResponse(c, http.StatusConflict, "Booking is already being submitted")
	case errors.Is(err, domain.ErrProofRequired):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{
			Error:  "Payment proof is required",
			Fields: map[string]string{"payment_proof": "is required for QR payments"},
		})
	case errors.Is(err, domain.ErrStepIncomplete), errors.Is(err, domain.ErrInvalidStep):
		newErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.Code >= 400 && apiErr.Code < 500 {
			status = apiErr.Code
		}
		newErrorResponse(c, status, apiErr.PublicMessage())
	case errors.As(err, &oaErr):
		newErrorResponse(c, http.StatusBadRequest, oaErr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		newErrorResponse(c, http.StatusGatewayTimeout, "The rental service did not respond in time")
	default:
		newErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

func isAuthError(err error) bool {
	return errors.Is(err, domain.ErrAuthRequired)
}
