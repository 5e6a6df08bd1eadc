package ports

import (
	"context"

	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

type CatalogAPI interface {
	ListMotorbikes(ctx context.Context) ([]domain.Motorbike, error)
	GetMotorbike(ctx context.Context, id string) (*domain.Motorbike, error)
}

// CatalogService is the cached read side of the catalog shared by all
// visitors.
type CatalogService interface {
	ListMotorbikes(ctx context.Context) ([]domain.Motorbike, error)
	GetMotorbike(ctx context.Context, id string) (*domain.Motorbike, error)
	InvalidateCatalog(ids ...string)
}

type AdminAPI interface {
	ListAllBookings(ctx context.Context, token string) ([]domain.AdminBooking, error)
	GetAdminBooking(ctx context.Context, token, id string) (*domain.AdminBooking, error)
	UpdateBookingStatus(ctx context.Context, token, id string, status domain.AdminStatus) (*domain.AdminBooking, error)
	DeleteBooking(ctx context.Context, token, id string) error

	CreateMotorbike(ctx context.Context, token string, in *domain.MotorbikeInput) (*domain.Motorbike, error)
	UpdateMotorbike(ctx context.Context, token, id string, in *domain.MotorbikeInput) (*domain.Motorbike, error)
	DeleteMotorbike(ctx context.Context, token, id string) error

	ListBrands(ctx context.Context) ([]domain.Brand, error)
	CreateBrand(ctx context.Context, token string, in *domain.BrandInput) (*domain.Brand, error)
	UpdateBrand(ctx context.Context, token, id string, in *domain.BrandInput) (*domain.Brand, error)
	DeleteBrand(ctx context.Context, token, id string) error
}
