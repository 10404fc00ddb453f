package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	pkgkafka "github.com/ShaikhZaamir/vendor-portal/pkg/kafka"
	"github.com/ShaikhZaamir/vendor-portal/pkg/logger"
)

// Aggregate type constants.
const (
	AggregateTypeVendor = "vendor"
	AggregateTypeReview = "review"
)

// Kafka topics for vendor portal domain events.
var (
	TopicReviewSubmitted     = pkgkafka.Topic(AggregateTypeReview, "submitted")
	TopicVendorRatingUpdated = pkgkafka.Topic(AggregateTypeVendor, "rating_updated")
	TopicVendorRegistered    = pkgkafka.Topic(AggregateTypeVendor, "registered")
)

// SourceVendorPortal identifies events originating from this service.
const SourceVendorPortal = "vendor-portal"

// ReviewSubmittedData is the payload for a review.submitted event.
type ReviewSubmittedData struct {
	ReviewID   string `json:"review_id"`
	VendorID   string `json:"vendor_id"`
	ClientName string `json:"client_name"`
	Rating     int    `json:"rating"`
}

// VendorRatingUpdatedData is the payload for a vendor.rating_updated event.
type VendorRatingUpdatedData struct {
	VendorID      string               `json:"vendor_id"`
	AverageRating domain.AverageRating `json:"average_rating"`
}

// VendorRegisteredData is the payload for a vendor.registered event.
type VendorRegisteredData struct {
	VendorID string `json:"vendor_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Category string `json:"category"`
	City     string `json:"city"`
}

type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes vendor portal domain events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer. kafka is usually a
// *pkgkafka.Producer.
func NewProducer(kafka publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewSubmitted publishes a review.submitted event.
func (p *Producer) PublishReviewSubmitted(ctx context.Context, review *domain.Review) error {
	data := ReviewSubmittedData{
		ReviewID:   review.ID,
		VendorID:   review.VendorID,
		ClientName: review.ClientName,
		Rating:     review.Rating,
	}
	// Keyed by vendor so a vendor's reviews stay ordered.
	return p.publish(ctx, TopicReviewSubmitted, review.VendorID, AggregateTypeReview, data)
}

// PublishVendorRatingUpdated publishes a vendor.rating_updated event.
func (p *Producer) PublishVendorRatingUpdated(ctx context.Context, vendorID string, avg domain.AverageRating) error {
	data := VendorRatingUpdatedData{VendorID: vendorID, AverageRating: avg}
	return p.publish(ctx, TopicVendorRatingUpdated, vendorID, AggregateTypeVendor, data)
}

// PublishVendorRegistered publishes a vendor.registered event.
func (p *Producer) PublishVendorRegistered(ctx context.Context, vendor *domain.Vendor) error {
	data := VendorRegisteredData{
		VendorID: vendor.ID,
		Name:     vendor.Name,
		Email:    vendor.Email,
		Category: vendor.Category,
		City:     vendor.City,
	}
	return p.publish(ctx, TopicVendorRegistered, vendor.ID, AggregateTypeVendor, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceVendorPortal, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}

// NoopProducer drops every event. It is used when Kafka is disabled.
type NoopProducer struct{}

func (NoopProducer) PublishReviewSubmitted(context.Context, *domain.Review) error { return nil }

func (NoopProducer) PublishVendorRatingUpdated(context.Context, string, domain.AverageRating) error {
	return nil
}

func (NoopProducer) PublishVendorRegistered(context.Context, *domain.Vendor) error { return nil }
