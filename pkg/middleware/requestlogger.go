package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ShaikhZaamir/vendor-portal/pkg/logger"
)

// RequestLogger stores a logger enriched with the request's correlation_id,
// vendor_id, trace_id and span_id in the context (see logger.FromContext).
//
// Mount it once, after RequestLogging and Tracing. Auth adds the vendor id
// to the stored logger on authenticated routes.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if id := VendorIDFromContext(ctx); id != "" && logger.VendorIDFromContext(ctx) == "" {
				ctx = logger.WithVendorID(ctx, id)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
