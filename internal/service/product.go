package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	"github.com/ShaikhZaamir/vendor-portal/internal/repository"
	apperrors "github.com/ShaikhZaamir/vendor-portal/pkg/errors"
)

// ProductService manages a vendor's own catalog. Every method takes the
// authenticated vendor id and refuses to touch another vendor's products.
type ProductService struct {
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(products repository.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		products: products,
		logger:   logger,
	}
}

// ProductInput holds the writable fields of a product. Update replaces all
// of them, so omitted optional fields become NULL.
type ProductInput struct {
	Name        string
	Description string
	Price       *domain.Price
	ImageURL    string
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.InvalidInput("name is required")
	}
	if in.Price != nil {
		p, err := domain.ParsePrice(in.Price.Decimal)
		if err != nil {
			return apperrors.InvalidInput(err.Error())
		}
		*in.Price = p
	}
	return nil
}

// ListMine returns the vendor's products, newest first.
func (s *ProductService) ListMine(ctx context.Context, vendorID string) ([]domain.Product, error) {
	products, err := s.products.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Create adds a product to the vendor's catalog.
func (s *ProductService) Create(ctx context.Context, vendorID string, input ProductInput) (*domain.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		VendorID:    vendorID,
		Name:        strings.TrimSpace(input.Name),
		Description: domain.NullableString(input.Description),
		Price:       input.Price,
		ImageURL:    domain.NullableString(input.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("vendor_id", vendorID),
	)

	return product, nil
}

// Get returns one of the vendor's products.
func (s *ProductService) Get(ctx context.Context, vendorID, productID string) (*domain.Product, error) {
	return s.getOwned(ctx, vendorID, productID)
}

// Update replaces the product's writable fields.
func (s *ProductService) Update(ctx context.Context, vendorID, productID string, input ProductInput) (*domain.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := s.getOwned(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = domain.NullableString(input.Description)
	product.Price = input.Price
	product.ImageURL = domain.NullableString(input.ImageURL)
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
		slog.String("vendor_id", vendorID),
	)

	return product, nil
}

// UpdateImage replaces only the product's image URL.
func (s *ProductService) UpdateImage(ctx context.Context, vendorID, productID, imageURL string) (*domain.Product, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, apperrors.InvalidInput("image_url is required")
	}

	product, err := s.getOwned(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	product.ImageURL = &imageURL
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product image: %w", err)
	}

	return product, nil
}

// Delete removes one of the vendor's products.
func (s *ProductService) Delete(ctx context.Context, vendorID, productID string) error {
	if _, err := s.getOwned(ctx, vendorID, productID); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", productID),
		slog.String("vendor_id", vendorID),
	)

	return nil
}

func (s *ProductService) getOwned(ctx context.Context, vendorID, productID string) (*domain.Product, error) {
	if !validID(productID) {
		return nil, apperrors.NotFound("product", productID)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if !product.OwnedBy(vendorID) {
		return nil, apperrors.Forbidden("product belongs to another vendor")
	}
	return product, nil
}
