package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds configuration for the upload circuit breaker.
type BreakerConfig struct {
	// Name identifies this breaker in metrics and logs.
	Name string

	// MaxRequests is the number of trial uploads allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state for clearing counts.
	Interval time.Duration

	// Timeout is how long the breaker stays open before moving to half-open.
	Timeout time.Duration

	// FailureRatio trips the breaker once reached, provided at least
	// MinRequests uploads were attempted in the interval.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig returns sensible defaults for the upload breaker.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// ErrCircuitOpen is returned while the breaker rejects uploads.
var ErrCircuitOpen = gobreaker.ErrOpenState

var circuitBreakerState = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

func init() {
	prometheus.MustRegister(circuitBreakerState)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// BreakerStorage guards a Storage's uploads with a circuit breaker so an
// unreachable object store fails fast instead of tying up request handlers.
type BreakerStorage struct {
	next    Storage
	breaker *gobreaker.CircuitBreaker[*UploadResult]
}

// NewBreakerStorage wraps next.
func NewBreakerStorage(next Storage, cfg BreakerConfig, logger *slog.Logger) *BreakerStorage {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		// A canceled request says nothing about the store's health.
		IsSuccessful: func(err error) bool {
			return err == nil || err == context.Canceled
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			circuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}

	circuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	return &BreakerStorage{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[*UploadResult](settings),
	}
}

// Upload implements Storage.
func (b *BreakerStorage) Upload(ctx context.Context, input *UploadInput) (*UploadResult, error) {
	return b.breaker.Execute(func() (*UploadResult, error) {
		return b.next.Upload(ctx, input)
	})
}

// Ping implements Storage. It bypasses the breaker.
func (b *BreakerStorage) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

// State returns the current state of the circuit breaker.
func (b *BreakerStorage) State() gobreaker.State {
	return b.breaker.State()
}
