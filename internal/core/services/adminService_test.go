package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

type fakeAdminAPI struct {
	bookings      []domain.AdminBooking
	statusUpdates []domain.AdminStatus
	created       []domain.MotorbikeInput
	deleted       []string
	brands        []domain.Brand
}

func (f *fakeAdminAPI) ListAllBookings(context.Context, string) ([]domain.AdminBooking, error) {
	return f.bookings, nil
}

func (f *fakeAdminAPI) GetAdminBooking(_ context.Context, _, id string) (*domain.AdminBooking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAdminAPI) UpdateBookingStatus(_ context.Context, _, id string, status domain.AdminStatus) (*domain.AdminBooking, error) {
	f.statusUpdates = append(f.statusUpdates, status)
	return &domain.AdminBooking{ID: id, Status: status}, nil
}

func (f *fakeAdminAPI) DeleteBooking(_ context.Context, _, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAdminAPI) CreateMotorbike(_ context.Context, _ string, in *domain.MotorbikeInput) (*domain.Motorbike, error) {
	f.created = append(f.created, *in)
	return &domain.Motorbike{ID: "new", Name: in.Name, Price: in.Price}, nil
}

func (f *fakeAdminAPI) UpdateMotorbike(_ context.Context, _, id string, in *domain.MotorbikeInput) (*domain.Motorbike, error) {
	return &domain.Motorbike{ID: id, Name: in.Name, Price: in.Price}, nil
}

func (f *fakeAdminAPI) DeleteMotorbike(_ context.Context, _, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAdminAPI) ListBrands(context.Context) ([]domain.Brand, error) {
	return f.brands, nil
}

func (f *fakeAdminAPI) CreateBrand(_ context.Context, _ string, in *domain.BrandInput) (*domain.Brand, error) {
	return &domain.Brand{ID: "br-new", Name: in.Name}, nil
}

func (f *fakeAdminAPI) UpdateBrand(_ context.Context, _, id string, in *domain.BrandInput) (*domain.Brand, error) {
	return &domain.Brand{ID: id, Name: in.Name}, nil
}

func (f *fakeAdminAPI) DeleteBrand(_ context.Context, _, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestAdminListBookingsByStatus(t *testing.T) {
	api := &fakeAdminAPI{bookings: []domain.AdminBooking{
		{ID: "b1", Status: domain.AdminPending},
		{ID: "b2", Status: domain.AdminCanceled},
		{ID: "b3", Status: domain.AdminPending},
	}}
	s := NewAdminService(api, &fakeCatalog{}, nopLogger, newValidator())

	all, err := s.ListBookings(context.Background(), "admin-token", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := s.ListBookings(context.Background(), "admin-token", domain.AdminPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "b3", pending[1].ID)
}

func TestAdminUpdateStatusValidates(t *testing.T) {
	api := &fakeAdminAPI{}
	s := NewAdminService(api, &fakeCatalog{}, nopLogger, newValidator())

	_, err := s.UpdateBookingStatus(context.Background(), "admin-token", "b1", "completed")
	_, ok := validation.AsErrors(err)
	assert.True(t, ok)
	assert.Empty(t, api.statusUpdates)

	b, err := s.UpdateBookingStatus(context.Background(), "admin-token", "b1", domain.AdminCanceled)
	require.NoError(t, err)
	assert.Equal(t, domain.AdminCanceled, b.Status)
}

func TestAdminMotorbikeWritesInvalidateCatalog(t *testing.T) {
	api := &fakeAdminAPI{}
	catalog := &fakeCatalog{}
	s := NewAdminService(api, catalog, nopLogger, newValidator())

	_, err := s.CreateMotorbike(context.Background(), "admin-token", &domain.MotorbikeInput{Name: "X"})
	_, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Empty(t, api.created)
	assert.Empty(t, catalog.invalidated)

	bike, err := s.CreateMotorbike(context.Background(), "admin-token", &domain.MotorbikeInput{
		Name:     "Scoopy",
		BrandID:  "br1",
		Category: "Scooter",
		Price:    20,
	})
	require.NoError(t, err)
	assert.Equal(t, "new", bike.ID)

	require.NoError(t, s.DeleteMotorbike(context.Background(), "admin-token", "m1"))
	assert.Equal(t, [][]string{nil, {"m1"}}, catalog.invalidated)
}

func TestAdminBrands(t *testing.T) {
	api := &fakeAdminAPI{brands: []domain.Brand{{ID: "br1", Name: "Honda"}}}
	catalog := &fakeCatalog{}
	s := NewAdminService(api, catalog, nopLogger, newValidator())

	brands, err := s.ListBrands(context.Background())
	require.NoError(t, err)
	assert.Len(t, brands, 1)

	_, err = s.CreateBrand(context.Background(), "admin-token", &domain.BrandInput{Name: "H"})
	_, ok := validation.AsErrors(err)
	assert.True(t, ok)

	brand, err := s.UpdateBrand(context.Background(), "admin-token", "br1", &domain.BrandInput{Name: "Honda Motor"})
	require.NoError(t, err)
	assert.Equal(t, "Honda Motor", brand.Name)
	assert.Len(t, catalog.invalidated, 1)

	assert.ErrorIs(t, s.DeleteBrand(context.Background(), "admin-token", ""), domain.ErrNotFound)
}
