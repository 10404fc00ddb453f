package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/ShaikhZaamir/vendor-portal/pkg/logger"
)

func logFromHandler(t *testing.T, ctx context.Context) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	base := logger.NewWithWriter("test-svc", "info", &buf)

	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handler log")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRequestLogger_Bare(t *testing.T) {
	out := logFromHandler(t, context.Background())
	assert.Equal(t, "handler log", out["msg"])
	assert.NotContains(t, out, "vendor_id")
	assert.NotContains(t, out, "correlation_id")
}

func TestRequestLogger_PicksUpCorrelationAndVendor(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	ctx = WithClaims(ctx, &Claims{VendorID: "vendor-42"})

	out := logFromHandler(t, ctx)
	assert.Equal(t, "corr-1", out["correlation_id"])
	assert.Equal(t, "vendor-42", out["vendor_id"])
}

func TestRequestLogger_IncludesTraceFields(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	spanID, _ := trace.SpanIDFromHex("b7ad6b7169203331")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	out := logFromHandler(t, ctx)
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", out["trace_id"])
	assert.Equal(t, "b7ad6b7169203331", out["span_id"])
}
