package backend

import (
	"context"
	"net/http"

	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

func (c *Client) ListMotorbikes(ctx context.Context) ([]domain.Motorbike, error) {
	var out []motorbikeDTO
	err := c.call(ctx, operation{
		id:     "listMotorbikes",
		method: http.MethodGet,
		path:   "/motorbikes",
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	bikes := make([]domain.Motorbike, 0, len(out))
	for i := range out {
		bikes = append(bikes, out[i].toDomain())
	}
	return bikes, nil
}

func (c *Client) GetMotorbike(ctx context.Context, id string) (*domain.Motorbike, error) {
	var out motorbikeDTO
	err := c.call(ctx, operation{
		id:     "getMotorbike",
		method: http.MethodGet,
		path:   "/motorbikes/{id}",
		params: pathID(id, nil),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	m := out.toDomain()
	return &m, nil
}

func (c *Client) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	var out []brandDTO
	err := c.call(ctx, operation{
		id:     "listBrands",
		method: http.MethodGet,
		path:   "/brands",
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	brands := make([]domain.Brand, 0, len(out))
	for i := range out {
		brands = append(brands, out[i].toDomain())
	}
	return brands, nil
}
