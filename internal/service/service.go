// Package service holds the vendor portal's business logic.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
)

// EventPublisher publishes domain events. Implementations are called after
// the corresponding transaction has committed.
type EventPublisher interface {
	PublishReviewSubmitted(ctx context.Context, review *domain.Review) error
	PublishVendorRatingUpdated(ctx context.Context, vendorID string, avg domain.AverageRating) error
	PublishVendorRegistered(ctx context.Context, vendor *domain.Vendor) error
}

// validID reports whether id can name a stored row. Anything else cannot
// exist, so callers answer NotFound without querying.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
