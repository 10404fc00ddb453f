package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	"github.com/ShaikhZaamir/vendor-portal/internal/repository"
	apperrors "github.com/ShaikhZaamir/vendor-portal/pkg/errors"
)

// VendorService implements the directory, profile and admin operations.
type VendorService struct {
	vendors  repository.VendorRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewVendorService creates a new vendor service.
func NewVendorService(
	vendors repository.VendorRepository,
	products repository.ProductRepository,
	logger *slog.Logger,
) *VendorService {
	return &VendorService{
		vendors:  vendors,
		products: products,
		logger:   logger,
	}
}

// List returns the public directory filtered and sorted by filter.
func (s *VendorService) List(ctx context.Context, filter domain.VendorFilter) ([]domain.VendorSummary, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Category = strings.TrimSpace(filter.Category)

	vendors, err := s.vendors.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return vendors, nil
}

// Profile returns the vendor with its products, newest first.
func (s *VendorService) Profile(ctx context.Context, vendorID string) (*domain.VendorProfile, error) {
	if !validID(vendorID) {
		return nil, apperrors.NotFound("vendor", vendorID)
	}

	vendor, err := s.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("get vendor: %w", err)
	}

	products, err := s.products.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list vendor products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	return &domain.VendorProfile{Vendor: *vendor, Products: products}, nil
}

// AdminStats lists every vendor with its review count.
func (s *VendorService) AdminStats(ctx context.Context, order domain.AdminOrder) ([]domain.VendorStats, error) {
	stats, err := s.vendors.ListStats(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("list vendor stats: %w", err)
	}
	return stats, nil
}

// UpdateProfile applies update to the vendor's editable fields.
func (s *VendorService) UpdateProfile(ctx context.Context, vendorID string, update domain.ProfileUpdate) (*domain.Vendor, error) {
	if update.Empty() {
		return nil, apperrors.InvalidInput("no profile fields to update")
	}
	for field, v := range map[string]*string{
		"name":       update.Name,
		"owner_name": update.OwnerName,
		"contact":    update.Contact,
		"category":   update.Category,
		"city":       update.City,
	} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return nil, apperrors.InvalidInput(field + " must not be empty")
		}
	}

	vendor, err := s.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("get vendor for update: %w", err)
	}

	update.Apply(vendor)
	vendor.Name = strings.TrimSpace(vendor.Name)
	vendor.OwnerName = strings.TrimSpace(vendor.OwnerName)
	vendor.Contact = strings.TrimSpace(vendor.Contact)
	vendor.Category = strings.TrimSpace(vendor.Category)
	vendor.City = strings.TrimSpace(vendor.City)
	vendor.UpdatedAt = time.Now().UTC()

	if err := s.vendors.UpdateProfile(ctx, vendor); err != nil {
		return nil, fmt.Errorf("update vendor profile: %w", err)
	}

	s.logger.InfoContext(ctx, "vendor profile updated",
		slog.String("vendor_id", vendor.ID),
	)

	return vendor, nil
}

// UpdateLogo replaces the vendor's logo URL.
func (s *VendorService) UpdateLogo(ctx context.Context, vendorID, logoURL string) (*domain.Vendor, error) {
	logoURL = strings.TrimSpace(logoURL)
	if logoURL == "" {
		return nil, apperrors.InvalidInput("logo_url is required")
	}

	if err := s.vendors.UpdateLogo(ctx, vendorID, logoURL); err != nil {
		return nil, fmt.Errorf("update vendor logo: %w", err)
	}

	vendor, err := s.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("get vendor: %w", err)
	}

	s.logger.InfoContext(ctx, "vendor logo updated",
		slog.String("vendor_id", vendorID),
	)

	return vendor, nil
}
