package services

import (
	"context"
	"fmt"

	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

// AdminService backs the dashboard. Every call goes straight to the backend
// with the administrator's token; nothing is cached here.
type AdminService struct {
	api      ports.AdminAPI
	catalog  ports.CatalogService
	logger   ports.LoggerPort
	validate *validation.Validator
}

func NewAdminService(
	api ports.AdminAPI,
	catalog ports.CatalogService,
	logger ports.LoggerPort,
	validate *validation.Validator,
) *AdminService {
	return &AdminService{
		api:      api,
		catalog:  catalog,
		logger:   logger,
		validate: validate,
	}
}

func (s *AdminService) ListBookings(ctx context.Context, token string, status domain.AdminStatus) ([]domain.AdminBooking, error) {
	bookings, err := s.api.ListAllBookings(ctx, token)
	if err != nil {
		s.logger.Error("Failed to list bookings", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	if status == "" {
		return bookings, nil
	}
	filtered := make([]domain.AdminBooking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == status {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func (s *AdminService) GetBooking(ctx context.Context, token, id string) (*domain.AdminBooking, error) {
	booking, err := s.api.GetAdminBooking(ctx, token, id)
	if err != nil {
		s.logger.Error("Failed to get booking", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": id,
		})
		return nil, err
	}
	return booking, nil
}

func (s *AdminService) UpdateBookingStatus(ctx context.Context, token, id string, status domain.AdminStatus) (*domain.AdminBooking, error) {
	if err := s.validate.Struct(&validation.StatusForm{Status: status}); err != nil {
		return nil, err
	}

	booking, err := s.api.UpdateBookingStatus(ctx, token, id, status)
	if err != nil {
		s.logger.Error("Failed to update booking status", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": id,
			"status":     status,
		})
		return nil, err
	}

	s.logger.Info("Booking status updated", map[string]interface{}{
		"booking_id": id,
		"status":     booking.Status,
	})
	return booking, nil
}

func (s *AdminService) DeleteBooking(ctx context.Context, token, id string) error {
	if err := s.api.DeleteBooking(ctx, token, id); err != nil {
		s.logger.Error("Failed to delete booking", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": id,
		})
		return err
	}
	s.logger.Info("Booking deleted", map[string]interface{}{
		"booking_id": id,
	})
	return nil
}

func (s *AdminService) ListMotorbikes(ctx context.Context) ([]domain.Motorbike, error) {
	return s.catalog.ListMotorbikes(ctx)
}

func (s *AdminService) GetMotorbike(ctx context.Context, id string) (*domain.Motorbike, error) {
	return s.catalog.GetMotorbike(ctx, id)
}

func (s *AdminService) CreateMotorbike(ctx context.Context, token string, in *domain.MotorbikeInput) (*domain.Motorbike, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	bike, err := s.api.CreateMotorbike(ctx, token, in)
	if err != nil {
		s.logger.Error("Failed to create motorbike", map[string]interface{}{
			"error": err.Error(),
			"name":  in.Name,
		})
		return nil, err
	}
	s.catalog.InvalidateCatalog()

	s.logger.Info("Motorbike created successfully", map[string]interface{}{
		"motorbike_id": bike.ID,
		"name":         bike.Name,
	})
	return bike, nil
}

func (s *AdminService) UpdateMotorbike(ctx context.Context, token, id string, in *domain.MotorbikeInput) (*domain.Motorbike, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	bike, err := s.api.UpdateMotorbike(ctx, token, id, in)
	if err != nil {
		s.logger.Error("Failed to update motorbike", map[string]interface{}{
			"error":        err.Error(),
			"motorbike_id": id,
		})
		return nil, err
	}
	s.catalog.InvalidateCatalog(id)

	s.logger.Info("Motorbike updated successfully", map[string]interface{}{
		"motorbike_id": id,
	})
	return bike, nil
}

func (s *AdminService) DeleteMotorbike(ctx context.Context, token, id string) error {
	if err := s.api.DeleteMotorbike(ctx, token, id); err != nil {
		s.logger.Error("Failed to delete motorbike", map[string]interface{}{
			"error":        err.Error(),
			"motorbike_id": id,
		})
		return err
	}
	s.catalog.InvalidateCatalog(id)

	s.logger.Info("Motorbike deleted successfully", map[string]interface{}{
		"motorbike_id": id,
	})
	return nil
}

func (s *AdminService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	brands, err := s.api.ListBrands(ctx)
	if err != nil {
		s.logger.Error("Failed to list brands", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return brands, nil
}

func (s *AdminService) CreateBrand(ctx context.Context, token string, in *domain.BrandInput) (*domain.Brand, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	brand, err := s.api.CreateBrand(ctx, token, in)
	if err != nil {
		s.logger.Error("Failed to create brand", map[string]interface{}{
			"error": err.Error(),
			"name":  in.Name,
		})
		return nil, err
	}
	s.logger.Info("Brand created successfully", map[string]interface{}{
		"brand_id": brand.ID,
	})
	return brand, nil
}

func (s *AdminService) UpdateBrand(ctx context.Context, token, id string, in *domain.BrandInput) (*domain.Brand, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	brand, err := s.api.UpdateBrand(ctx, token, id, in)
	if err != nil {
		s.logger.Error("Failed to update brand", map[string]interface{}{
			"error":    err.Error(),
			"brand_id": id,
		})
		return nil, err
	}
	// embedded brand names in cached motorbikes are now stale
	s.catalog.InvalidateCatalog()

	s.logger.Info("Brand updated successfully", map[string]interface{}{
		"brand_id": id,
	})
	return brand, nil
}

func (s *AdminService) DeleteBrand(ctx context.Context, token, id string) error {
	if id == "" {
		return fmt.Errorf("brand id: %w", domain.ErrNotFound)
	}
	if err := s.api.DeleteBrand(ctx, token, id); err != nil {
		s.logger.Error("Failed to delete brand", map[string]interface{}{
			"error":    err.Error(),
			"brand_id": id,
		})
		return err
	}
	s.catalog.InvalidateCatalog()

	s.logger.Info("Brand deleted successfully", map[string]interface{}{
		"brand_id": id,
	})
	return nil
}
