package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

var errNoToken = errors.New("backend issued no token")

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	var out authDTO
	err := c.call(ctx, operation{
		id:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		params: jsonBody(map[string]string{"email": email, "password": password}),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out.toSession()
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*domain.Session, error) {
	var out authDTO
	err := c.call(ctx, operation{
		id:     "register",
		method: http.MethodPost,
		path:   "/auth/register",
		params: jsonBody(map[string]string{"name": name, "email": email, "password": password}),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out.toSession()
}

func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var out userDTO
	err := c.call(ctx, operation{
		id:     "me",
		method: http.MethodGet,
		path:   "/auth/me",
		token:  token,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (c *Client) UpdateUser(ctx context.Context, token, userID string, update *domain.ProfileUpdate) (*domain.User, error) {
	var out userDTO
	err := c.call(ctx, operation{
		id:     "updateUser",
		method: http.MethodPatch,
		path:   "/users/{id}",
		token:  token,
		params: pathID(userID, jsonBody(update)),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (d *authDTO) toSession() (*domain.Session, error) {
	token := firstNonEmpty(d.Token, d.AccessToken)
	if token == "" {
		return nil, errNoToken
	}
	return &domain.Session{User: d.User.toDomain(), Token: token}, nil
}
