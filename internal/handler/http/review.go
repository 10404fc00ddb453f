package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	"github.com/ShaikhZaamir/vendor-portal/internal/service"
	apperrors "github.com/ShaikhZaamir/vendor-portal/pkg/errors"
	"github.com/ShaikhZaamir/vendor-portal/pkg/httputil"
)

// ReviewHandler handles the public review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: svc, logger: logger}
}

// SubmitReviewRequest is the JSON body of a review submission. Rating is
// kept raw so that both 4 and "4" are accepted and 3.5 is rejected.
type SubmitReviewRequest struct {
	ClientName string          `json:"client_name" validate:"notblank,max=255"`
	Project    *string         `json:"project" validate:"omitempty,max=255"`
	Rating     json.RawMessage `json:"rating"`
	Comment    *string         `json:"comment" validate:"omitempty,max=5000"`
}

// SubmitReviewResponse is returned on 201.
type SubmitReviewResponse struct {
	*domain.ReviewResult
	Message string `json:"message"`
}

// Submit handles POST /api/v1/vendors/{id}/reviews
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitReviewRequest
	if !decode(w, r, &req) {
		return
	}

	rating, err := domain.ParseRating(req.Rating)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	res, err := h.service.Submit(r.Context(), service.SubmitReviewInput{
		VendorID:   chi.URLParam(r, "id"),
		ClientName: req.ClientName,
		Project:    deref(req.Project),
		Rating:     rating,
		Comment:    deref(req.Comment),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, SubmitReviewResponse{
		ReviewResult: res,
		Message:      "Review added and rating updated.",
	})
}

// List handles GET /api/v1/vendors/{id}/reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListByVendor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"reviews": reviews})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
