package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	Admin    UserRole = "admin"
	Customer UserRole = "user"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == Admin
}

// Session is the signed-in state of one visitor.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// IsAuthenticated is true iff both user and token are present.
func (s Session) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// ProfileUpdate is a partial update of the signed-in user. Nil fields are
// left untouched by the backend.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2,max=80"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=255"`
	Bio     *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Avatar  *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Address == nil && p.Bio == nil && p.Avatar == nil
}

// VisitorClaims are carried in the signed visitor cookie.
type VisitorClaims struct {
	VisitorID uuid.UUID
	UserID    string
	Role      UserRole
}
