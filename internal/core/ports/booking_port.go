package ports

import (
	"context"

	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

type BookingAPI interface {
	ListUserBookings(ctx context.Context, token, userID string) ([]domain.Booking, error)
	GetBooking(ctx context.Context, token, id string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, token, id string) error
	CreateBooking(ctx context.Context, token string, req *domain.CreateBookingRequest) (*domain.Booking, error)
}

// EventPublisher announces booking lifecycle changes to other services.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}
