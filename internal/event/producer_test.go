package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	pkgkafka "github.com/ShaikhZaamir/vendor-portal/pkg/kafka"
	"github.com/ShaikhZaamir/vendor-portal/pkg/logger"
)

type published struct {
	topic string
	event *pkgkafka.Event
}

type recordingPublisher struct {
	sent []published
	err  error
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, event *pkgkafka.Event) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, published{topic: topic, event: event})
	return nil
}

func newTestProducer() (*Producer, *recordingPublisher) {
	rec := &recordingPublisher{}
	return NewProducer(rec, slog.New(slog.NewTextHandler(io.Discard, nil))), rec
}

func TestTopics(t *testing.T) {
	assert.Equal(t, "vendorportal.review.submitted", TopicReviewSubmitted)
	assert.Equal(t, "vendorportal.vendor.rating_updated", TopicVendorRatingUpdated)
	assert.Equal(t, "vendorportal.vendor.registered", TopicVendorRegistered)
}

func TestPublishReviewSubmitted(t *testing.T) {
	p, rec := newTestProducer()
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")

	err := p.PublishReviewSubmitted(ctx, &domain.Review{ID: "r-1", VendorID: "v-1", ClientName: "Ravi", Rating: 4})
	require.NoError(t, err)
	require.Len(t, rec.sent, 1)

	ev := rec.sent[0].event
	assert.Equal(t, TopicReviewSubmitted, rec.sent[0].topic)
	assert.Equal(t, "v-1", ev.AggregateID)
	assert.Equal(t, AggregateTypeReview, ev.AggregateType)
	assert.Equal(t, SourceVendorPortal, ev.Source)
	assert.Equal(t, "corr-1", ev.CorrelationID)

	var data ReviewSubmittedData
	require.NoError(t, ev.UnmarshalData(&data))
	assert.Equal(t, ReviewSubmittedData{ReviewID: "r-1", VendorID: "v-1", ClientName: "Ravi", Rating: 4}, data)
}

func TestPublishVendorRatingUpdated_PayloadIsNumber(t *testing.T) {
	p, rec := newTestProducer()
	avg := domain.NewAverageRating(decimal.RequireFromString("4.5"))

	require.NoError(t, p.PublishVendorRatingUpdated(context.Background(), "v-1", avg))
	require.Len(t, rec.sent, 1)
	assert.JSONEq(t, `{"vendor_id":"v-1","average_rating":4.50}`, string(rec.sent[0].event.Data))
	assert.Empty(t, rec.sent[0].event.CorrelationID)
}

func TestPublishVendorRegistered(t *testing.T) {
	p, rec := newTestProducer()

	err := p.PublishVendorRegistered(context.Background(), &domain.Vendor{
		ID: "v-2", Name: "Zen Florals", Email: "zoya@zen.test", Category: "Flowers", City: "Goa",
	})
	require.NoError(t, err)
	assert.Equal(t, TopicVendorRegistered, rec.sent[0].topic)
	assert.Equal(t, AggregateTypeVendor, rec.sent[0].event.AggregateType)
}

func TestPublish_Error(t *testing.T) {
	p, rec := newTestProducer()
	rec.err = errors.New("broker down")

	err := p.PublishVendorRatingUpdated(context.Background(), "v-1", domain.AverageRating{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Contains(t, err.Error(), TopicVendorRatingUpdated)
}

func TestNoopProducer(t *testing.T) {
	var p NoopProducer
	assert.NoError(t, p.PublishReviewSubmitted(context.Background(), &domain.Review{}))
	assert.NoError(t, p.PublishVendorRatingUpdated(context.Background(), "v", domain.AverageRating{}))
	assert.NoError(t, p.PublishVendorRegistered(context.Background(), &domain.Vendor{}))
}
