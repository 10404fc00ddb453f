package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStorage struct {
	err   error
	calls int
}

func (s *stubStorage) Upload(_ context.Context, input *UploadInput) (*UploadResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &UploadResult{Key: input.Key, URL: "https://cdn.test/" + input.Key}, nil
}

func (s *stubStorage) Ping(context.Context) error { return s.err }

func testBreakerConfig(name string) BreakerConfig {
	cfg := DefaultBreakerConfig(name)
	cfg.MinRequests = 2
	cfg.Timeout = time.Hour
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBreakerStorage_PassesThrough(t *testing.T) {
	stub := &stubStorage{}
	b := NewBreakerStorage(stub, testBreakerConfig("test-pass"), discardLogger())

	res, err := b.Upload(context.Background(), &UploadInput{Key: "vendor-images/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/vendor-images/a.png", res.URL)
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.Equal(t, float64(0), testutil.ToFloat64(circuitBreakerState.WithLabelValues("test-pass")))
}

func TestBreakerStorage_OpensAfterFailures(t *testing.T) {
	stub := &stubStorage{err: errors.New("connection refused")}
	b := NewBreakerStorage(stub, testBreakerConfig("test-open"), discardLogger())

	for i := 0; i < 2; i++ {
		_, err := b.Upload(context.Background(), &UploadInput{Key: "k"})
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())
	assert.Equal(t, float64(2), testutil.ToFloat64(circuitBreakerState.WithLabelValues("test-open")))

	_, err := b.Upload(context.Background(), &UploadInput{Key: "k"})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, stub.calls)
}

func TestBreakerStorage_CanceledDoesNotTrip(t *testing.T) {
	stub := &stubStorage{err: context.Canceled}
	b := NewBreakerStorage(stub, testBreakerConfig("test-cancel"), discardLogger())

	for i := 0; i < 5; i++ {
		_, _ = b.Upload(context.Background(), &UploadInput{Key: "k"})
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerStorage_PingBypassesBreaker(t *testing.T) {
	stub := &stubStorage{err: errors.New("down")}
	b := NewBreakerStorage(stub, testBreakerConfig("test-ping"), discardLogger())
	assert.Error(t, b.Ping(context.Background()))
	assert.Equal(t, 0, stub.calls)
}
