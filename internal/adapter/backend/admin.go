package backend

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

func (c *Client) ListAllBookings(ctx context.Context, token string) ([]domain.AdminBooking, error) {
	var out []bookingDTO
	err := c.call(ctx, operation{
		id:     "listBookings",
		method: http.MethodGet,
		path:   "/bookings",
		token:  token,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	bookings := make([]domain.AdminBooking, 0, len(out))
	for i := range out {
		bookings = append(bookings, out[i].toAdmin())
	}
	return bookings, nil
}

func (c *Client) GetAdminBooking(ctx context.Context, token, id string) (*domain.AdminBooking, error) {
	var out bookingDTO
	err := c.call(ctx, operation{
		id:     "getAdminBooking",
		method: http.MethodGet,
		path:   "/bookings/{id}",
		token:  token,
		params: pathID(id, nil),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	b := out.toAdmin()
	return &b, nil
}

func (c *Client) UpdateBookingStatus(ctx context.Context, token, id string, status domain.AdminStatus) (*domain.AdminBooking, error) {
	var out bookingDTO
	err := c.call(ctx, operation{
		id:     "updateBookingStatus",
		method: http.MethodPatch,
		path:   "/bookings/{id}",
		token:  token,
		params: pathID(id, jsonBody(map[string]string{"status": string(status)})),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	b := out.toAdmin()
	if b.ID == "" {
		b.ID = id
		b.Status = status
	}
	return &b, nil
}

func (c *Client) DeleteBooking(ctx context.Context, token, id string) error {
	return c.call(ctx, operation{
		id:     "deleteBooking",
		method: http.MethodDelete,
		path:   "/bookings/{id}",
		token:  token,
		params: pathID(id, nil),
	})
}

func (c *Client) CreateMotorbike(ctx context.Context, token string, in *domain.MotorbikeInput) (*domain.Motorbike, error) {
	var out motorbikeDTO
	err := c.call(ctx, operation{
		id:        "createMotorbike",
		method:    http.MethodPost,
		path:      "/motorbikes",
		token:     token,
		multipart: true,
		params:    motorbikeForm(in),
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	m := out.toDomain()
	return &m, nil
}

func (c *Client) UpdateMotorbike(ctx context.Context, token, id string, in *domain.MotorbikeInput) (*domain.Motorbike, error) {
	var out motorbikeDTO
	err := c.call(ctx, operation{
		id:        "updateMotorbike",
		method:    http.MethodPut,
		path:      "/motorbikes/{id}",
		token:     token,
		multipart: true,
		params:    pathID(id, motorbikeForm(in)),
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	m := out.toDomain()
	return &m, nil
}

func (c *Client) DeleteMotorbike(ctx context.Context, token, id string) error {
	return c.call(ctx, operation{
		id:     "deleteMotorbike",
		method: http.MethodDelete,
		path:   "/motorbikes/{id}",
		token:  token,
		params: pathID(id, nil),
	})
}

func (c *Client) CreateBrand(ctx context.Context, token string, in *domain.BrandInput) (*domain.Brand, error) {
	var out brandDTO
	err := c.call(ctx, operation{
		id:     "createBrand",
		method: http.MethodPost,
		path:   "/brands",
		token:  token,
		params: jsonBody(in),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	b := out.toDomain()
	return &b, nil
}

func (c *Client) UpdateBrand(ctx context.Context, token, id string, in *domain.BrandInput) (*domain.Brand, error) {
	var out brandDTO
	err := c.call(ctx, operation{
		id:     "updateBrand",
		method: http.MethodPut,
		path:   "/brands/{id}",
		token:  token,
		params: pathID(id, jsonBody(in)),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	b := out.toDomain()
	return &b, nil
}

func (c *Client) DeleteBrand(ctx context.Context, token, id string) error {
	return c.call(ctx, operation{
		id:     "deleteBrand",
		method: http.MethodDelete,
		path:   "/brands/{id}",
		token:  token,
		params: pathID(id, nil),
	})
}

func motorbikeForm(in *domain.MotorbikeInput) requestParams {
	return func(r runtime.ClientRequest, _ strfmt.Registry) error {
		fields := map[string]string{
			"name":     in.Name,
			"brand":    in.BrandID,
			"category": in.Category,
			"price":    strconv.FormatFloat(in.Price, 'f', 2, 64),
		}
		if in.EngineSize != nil {
			fields["engine_size"] = swag.StringValue(in.EngineSize)
		}
		if in.Rating != nil {
			fields["rating"] = strconv.FormatFloat(swag.Float64Value(in.Rating), 'f', 1, 64)
		}
		for name, value := range fields {
			if err := r.SetFormParam(name, value); err != nil {
				return err
			}
		}
		if in.Image != nil && len(in.Image.Data) > 0 {
			return r.SetFileParam("image", runtime.NamedReader(in.Image.Name, bytes.NewReader(in.Image.Data)))
		}
		return nil
	}
}
