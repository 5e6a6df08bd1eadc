package services

import (
	"context"
	"errors"

	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

// publicMessage turns err into the single dismissible message a store keeps.
func publicMessage(err error) string {
	var pm interface{ PublicMessage() string }
	switch {
	case errors.As(err, &pm):
		return pm.PublicMessage()
	case errors.Is(err, domain.ErrProofRequired):
		return "Please upload your payment proof before confirming"
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out, please try again"
	}
	if _, ok := validation.AsErrors(err); ok {
		return "Please correct the highlighted fields"
	}
	return "Something went wrong, please try again"
}
