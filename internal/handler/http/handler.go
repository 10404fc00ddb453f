// Package http exposes the vendor portal over a JSON HTTP API.
package http

import (
	"net/http"

	"github.com/ShaikhZaamir/vendor-portal/pkg/httputil"
	"github.com/ShaikhZaamir/vendor-portal/pkg/validator"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// decode reads and validates a JSON body into dst. On failure it has already
// written a 400 and returns false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := validator.DecodeAndValidate(r, dst); err != nil {
		httputil.WriteValidationError(w, r, err)
		return false
	}
	return true
}
