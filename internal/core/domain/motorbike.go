package domain

import (
	"strings"
	"time"
)

// Brand as stored by the backend. Description is optional.
type Brand struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// BrandRef is the canonical shape of a motorbike's brand field. The backend
// sends either an embedded brand object or a bare name string; both are
// normalized into this struct when a motorbike is decoded.
type BrandRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// swagger:model domain.Motorbike
type Motorbike struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Brand      BrandRef   `json:"brand"`
	Category   string     `json:"category"`
	Price      float64    `json:"price"` // daily rate
	EngineSize *string    `json:"engine_size,omitempty"`
	Rating     *float64   `json:"rating,omitempty"`
	Image      *string    `json:"image,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

func (m *Motorbike) BrandName() string {
	return strings.TrimSpace(m.Brand.Name)
}

func (m *Motorbike) CategoryName() string {
	return strings.TrimSpace(m.Category)
}

// Created returns the creation time, or the Unix epoch when the backend did
// not send one.
func (m *Motorbike) Created() time.Time {
	if m.CreatedAt == nil {
		return time.Unix(0, 0).UTC()
	}
	return *m.CreatedAt
}

// MotorbikeInput is what the dashboard sends to create or update a motorbike.
type MotorbikeInput struct {
	Name       string   `json:"name" validate:"required,min=2,max=120"`
	BrandID    string   `json:"brand_id" validate:"required"`
	Category   string   `json:"category" validate:"required"`
	Price      float64  `json:"price" validate:"required,gt=0"`
	EngineSize *string  `json:"engine_size,omitempty" validate:"omitempty,max=20"`
	Rating     *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Image      *File    `json:"-"`
}

type BrandInput struct {
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Description string `json:"description,omitempty" validate:"max=500"`
}
