package repository

import (
	"context"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
)

// VendorRepository defines the interface for vendor persistence operations.
type VendorRepository interface {
	// Create inserts a new vendor. A taken email yields AlreadyExists.
	Create(ctx context.Context, vendor *domain.Vendor) error

	// GetByID retrieves a vendor by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)

	// GetByEmail retrieves a vendor by its (lower-cased) email.
	GetByEmail(ctx context.Context, email string) (*domain.Vendor, error)

	// Exists reports whether a vendor with id exists.
	Exists(ctx context.Context, id string) (bool, error)

	// UpdateProfile writes the editable profile fields and updated_at.
	UpdateProfile(ctx context.Context, vendor *domain.Vendor) error

	// UpdateLogo replaces the vendor's logo URL.
	UpdateLogo(ctx context.Context, id, logoURL string) error

	// List returns directory summaries matching filter.
	List(ctx context.Context, filter domain.VendorFilter) ([]domain.VendorSummary, error)

	// ListStats returns every vendor with its review count.
	ListStats(ctx context.Context, order domain.AdminOrder) ([]domain.VendorStats, error)
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// ListByVendor returns the vendor's products, newest first.
	ListByVendor(ctx context.Context, vendorID string) ([]domain.Product, error)

	// Update writes name, description, price, image and updated_at.
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Submit stores review and recomputes its vendor's average rating in one
	// transaction, holding the vendor row lock throughout. It sets
	// review.CreatedAt and returns the new average. An unknown vendor yields
	// NotFound and nothing is written.
	Submit(ctx context.Context, review *domain.Review) (domain.AverageRating, error)

	// ListByVendor returns the vendor's reviews, newest first.
	ListByVendor(ctx context.Context, vendorID string) ([]domain.Review, error)
}
