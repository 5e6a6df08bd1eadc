package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

func (c *Client) ListUserBookings(ctx context.Context, token, userID string) ([]domain.Booking, error) {
	var out []bookingDTO
	err := c.call(ctx, operation{
		id:     "listUserBookings",
		method: http.MethodGet,
		path:   "/bookings/user/{id}",
		token:  token,
		params: pathID(userID, nil),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	bookings := make([]domain.Booking, 0, len(out))
	for i := range out {
		bookings = append(bookings, out[i].toDomain())
	}
	return bookings, nil
}

func (c *Client) GetBooking(ctx context.Context, token, id string) (*domain.Booking, error) {
	var out bookingDTO
	err := c.call(ctx, operation{
		id:     "getBooking",
		method: http.MethodGet,
		path:   "/bookings/{id}",
		token:  token,
		params: pathID(id, nil),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	b := out.toDomain()
	return &b, nil
}

func (c *Client) CancelBooking(ctx context.Context, token, id string) error {
	return c.call(ctx, operation{
		id:     "cancelBooking",
		method: http.MethodDelete,
		path:   "/bookings/{id}",
		token:  token,
		params: pathID(id, nil),
	})
}

// CreateBooking posts the payment form; the backend creates the booking and
// the payment record in one request.
func (c *Client) CreateBooking(ctx context.Context, token string, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	form := NewPaymentForm(req)
	if err := form.Validate(c.formats); err != nil {
		return nil, fmt.Errorf("invalid payment form: %w", err)
	}

	var out bookingDTO
	err := c.call(ctx, operation{
		id:        "createPayment",
		method:    http.MethodPost,
		path:      "/payments",
		token:     token,
		multipart: true,
		params: func(r runtime.ClientRequest, reg strfmt.Registry) error {
			return form.WriteToRequest(r, reg)
		},
		out: &out,
	})
	if err != nil {
		return nil, err
	}

	b := out.toDomain()
	if b.MotorbikeID == "" {
		b.MotorbikeID = req.MotorbikeID
	}
	if b.UserID == "" {
		b.UserID = req.UserID
	}
	if b.PaymentMethod == "" {
		b.PaymentMethod = req.PaymentMethod
	}
	return &b, nil
}
