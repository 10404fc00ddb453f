package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	"github.com/ShaikhZaamir/vendor-portal/internal/repository"
	"github.com/ShaikhZaamir/vendor-portal/pkg/database"
	apperrors "github.com/ShaikhZaamir/vendor-portal/pkg/errors"
)

// ReviewService accepts public reviews and keeps each vendor's average
// rating in step with its reviews.
type ReviewService struct {
	reviews repository.ReviewRepository
	vendors repository.VendorRepository
	events  EventPublisher
	logger  *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	vendors repository.VendorRepository,
	events EventPublisher,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		vendors: vendors,
		events:  events,
		logger:  logger,
	}
}

// SubmitReviewInput holds a review submission. Empty optional fields are
// stored as NULL.
type SubmitReviewInput struct {
	VendorID   string
	ClientName string
	Project    string
	Rating     int
	Comment    string
}

// Submit validates input, stores the review and recomputes the vendor's
// average in one transaction, and returns both. Events go out only after
// the commit; a failed publish is logged and does not fail the call.
func (s *ReviewService) Submit(ctx context.Context, input SubmitReviewInput) (*domain.ReviewResult, error) {
	clientName := strings.TrimSpace(input.ClientName)
	if clientName == "" {
		reviewSubmissions.WithLabelValues(outcomeInvalid).Inc()
		return nil, apperrors.InvalidInput("client_name is required")
	}
	if input.Rating < domain.MinRating || input.Rating > domain.MaxRating {
		reviewSubmissions.WithLabelValues(outcomeInvalid).Inc()
		return nil, apperrors.InvalidInput(domain.ErrInvalidRating.Error())
	}
	if !validID(input.VendorID) {
		reviewSubmissions.WithLabelValues(outcomeNotFound).Inc()
		return nil, apperrors.NotFound("vendor", input.VendorID)
	}

	review := &domain.Review{
		ID:         uuid.New().String(),
		VendorID:   input.VendorID,
		ClientName: clientName,
		Project:    domain.NullableString(input.Project),
		Rating:     input.Rating,
		Comment:    domain.NullableString(input.Comment),
	}

	start := time.Now()
	avg, err := s.reviews.Submit(ctx, review)
	reviewSubmitDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			reviewSubmissions.WithLabelValues(outcomeNotFound).Inc()
			return nil, err
		}
		if database.IsLockTimeout(err) {
			reviewSubmissions.WithLabelValues(outcomeLockTimeout).Inc()
			s.logger.WarnContext(ctx, "vendor row lock wait timed out",
				slog.String("vendor_id", review.VendorID),
			)
		} else {
			reviewSubmissions.WithLabelValues(outcomeFailed).Inc()
		}
		return nil, fmt.Errorf("submit review: %w", err)
	}
	reviewSubmissions.WithLabelValues(outcomeAccepted).Inc()

	if err := s.events.PublishReviewSubmitted(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.submitted event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.events.PublishVendorRatingUpdated(ctx, review.VendorID, avg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish vendor.rating_updated event",
			slog.String("vendor_id", review.VendorID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review submitted",
		slog.String("vendor_id", review.VendorID),
		slog.String("review_id", review.ID),
		slog.Int("rating", review.Rating),
		slog.String("average_rating", avg.String()),
	)

	return &domain.ReviewResult{Review: review, AverageRating: avg}, nil
}

// ListByVendor returns the vendor's reviews, newest first. An unknown vendor
// yields NotFound rather than an empty list.
func (s *ReviewService) ListByVendor(ctx context.Context, vendorID string) ([]domain.Review, error) {
	if !validID(vendorID) {
		return nil, apperrors.NotFound("vendor", vendorID)
	}

	ok, err := s.vendors.Exists(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("check vendor: %w", err)
	}
	if !ok {
		return nil, apperrors.NotFound("vendor", vendorID)
	}

	reviews, err := s.reviews.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
