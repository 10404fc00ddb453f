package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ShaikhZaamir/vendor-portal/internal/auth"
	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	"github.com/ShaikhZaamir/vendor-portal/internal/event"
	"github.com/ShaikhZaamir/vendor-portal/internal/service"
	"github.com/ShaikhZaamir/vendor-portal/internal/storage/memory"
	"github.com/ShaikhZaamir/vendor-portal/pkg/health"
	"github.com/ShaikhZaamir/vendor-portal/pkg/httputil"
	"github.com/ShaikhZaamir/vendor-portal/pkg/middleware"
)

const (
	vendorA   = "22222222-2222-2222-2222-222222222222"
	vendorB   = "44444444-4444-4444-4444-444444444444"
	productID = "33333333-3333-3333-3333-333333333333"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockVendorRepo struct {
	mock.Mock
}

func (m *mockVendorRepo) Create(ctx context.Context, vendor *domain.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}

func (m *mockVendorRepo) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *mockVendorRepo) GetByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *mockVendorRepo) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockVendorRepo) UpdateProfile(ctx context.Context, vendor *domain.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}

func (m *mockVendorRepo) UpdateLogo(ctx context.Context, id, logoURL string) error {
	return m.Called(ctx, id, logoURL).Error(0)
}

func (m *mockVendorRepo) List(ctx context.Context, filter domain.VendorFilter) ([]domain.VendorSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VendorSummary), args.Error(1)
}

func (m *mockVendorRepo) ListStats(ctx context.Context, order domain.AdminOrder) ([]domain.VendorStats, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VendorStats), args.Error(1)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) ListByVendor(ctx context.Context, vendorID string) ([]domain.Product, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Submit(ctx context.Context, review *domain.Review) (domain.AverageRating, error) {
	args := m.Called(ctx, review)
	if args.Error(1) == nil {
		review.CreatedAt = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	}
	return args.Get(0).(domain.AverageRating), args.Error(1)
}

func (m *mockReviewRepo) ListByVendor(ctx context.Context, vendorID string) ([]domain.Review, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (bool, error) { return false, nil }

// ============================================================================
// Fixture
// ============================================================================

type fixture struct {
	router   http.Handler
	vendors  *mockVendorRepo
	products *mockProductRepo
	reviews  *mockReviewRepo
	jwt      *auth.JWTManager
	files    *memory.Storage
}

type fixtureOption func(*RouterConfig)

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		vendors:  new(mockVendorRepo),
		products: new(mockProductRepo),
		reviews:  new(mockReviewRepo),
		jwt:      auth.NewJWTManager("handler-test-secret-at-least-32-chars", time.Hour),
		files:    memory.New(""),
	}

	limiter := middleware.NewMemoryLimiter(600, 100, time.Minute)
	t.Cleanup(limiter.Close)

	events := event.NoopProducer{}
	svc := Services{
		Auth:     service.NewAuthService(f.vendors, f.jwt, events, logger),
		Vendors:  service.NewVendorService(f.vendors, f.products, logger),
		Reviews:  service.NewReviewService(f.reviews, f.vendors, events, logger),
		Products: service.NewProductService(f.products, logger),
		Media:    service.NewMediaService(f.files, 1024, "vendor-images", logger),
	}
	cfg := RouterConfig{
		ServiceName:    "vendor-portal-test",
		CORS:           middleware.DefaultCORSConfig(),
		TokenValidator: f.jwt.Validator(),
		ReviewLimiter:  limiter,
		Files:          f.files.Handler(),
		Health:         health.NewHandler(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	f.router = NewRouter(svc, cfg, logger)
	return f
}

func (f *fixture) token(t *testing.T, vendorID string) string {
	t.Helper()
	tok, err := f.jwt.GenerateToken(vendorID, "owner@acme.test")
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.10:5555"
	return req
}

func (f *fixture) authed(t *testing.T, req *http.Request, vendorID string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+f.token(t, vendorID))
	return req
}

type envelope struct {
	Data  json.RawMessage         `json:"data"`
	Error *httputil.ErrorResponse `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&env), rec.Body.String())
	return env
}
