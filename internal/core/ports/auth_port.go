package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

// TokenService signs and verifies the visitor cookie.
type TokenService interface {
	IssueToken(claims *domain.VisitorClaims) (string, error)
	VerifyToken(token string) (*domain.VisitorClaims, error)
}

// AuthAPI is the session part of the external backend.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, name, email, password string) (*domain.Session, error)
	Me(ctx context.Context, token string) (*domain.User, error)
}

type UserAPI interface {
	UpdateUser(ctx context.Context, token, userID string, update *domain.ProfileUpdate) (*domain.User, error)
}

// SessionRepository persists signed-in sessions so they survive a restart.
type SessionRepository interface {
	SaveSession(ctx context.Context, visitorID uuid.UUID, session *domain.Session) error
	GetSession(ctx context.Context, visitorID uuid.UUID) (*domain.Session, error)
	DeleteSession(ctx context.Context, visitorID uuid.UUID) error
}
