package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	"github.com/ShaikhZaamir/vendor-portal/internal/service"
	apperrors "github.com/ShaikhZaamir/vendor-portal/pkg/errors"
	"github.com/ShaikhZaamir/vendor-portal/pkg/httputil"
	"github.com/ShaikhZaamir/vendor-portal/pkg/middleware"
)

// VendorHandler handles the directory, profile and admin endpoints.
type VendorHandler struct {
	service *service.VendorService
	logger  *slog.Logger
}

// NewVendorHandler creates a new vendor HTTP handler.
func NewVendorHandler(svc *service.VendorService, logger *slog.Logger) *VendorHandler {
	return &VendorHandler{service: svc, logger: logger}
}

// UpdateProfileRequest is the JSON body of a partial profile update.
type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=255"`
	OwnerName   *string `json:"owner_name" validate:"omitempty,notblank,max=255"`
	Contact     *string `json:"contact" validate:"omitempty,notblank,max=64"`
	Category    *string `json:"category" validate:"omitempty,notblank,max=100"`
	City        *string `json:"city" validate:"omitempty,notblank,max=100"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

// UpdateLogoRequest is the JSON body of a logo change.
type UpdateLogoRequest struct {
	LogoURL string `json:"logo_url" validate:"required,url,max=2048"`
}

// List handles GET /api/v1/vendors
func (h *VendorHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sort, err := domain.ParseVendorSort(q.Get("sort"))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	vendors, err := h.service.List(r.Context(), domain.VendorFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     sort,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if vendors == nil {
		vendors = []domain.VendorSummary{}
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"vendors": vendors})
}

// Get handles GET /api/v1/vendors/{id}
func (h *VendorHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, profile)
}

// AdminList handles GET /api/v1/admin/vendors
func (h *VendorHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	order, err := domain.ParseAdminOrder(r.URL.Query().Get("order"))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	stats, err := h.service.AdminStats(r.Context(), order)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if stats == nil {
		stats = []domain.VendorStats{}
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"vendors": stats})
}

// MyProfile handles GET /api/v1/me/profile
func (h *VendorHandler) MyProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context(), middleware.VendorIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/me/profile
func (h *VendorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	vendor, err := h.service.UpdateProfile(r.Context(), middleware.VendorIDFromContext(r.Context()), domain.ProfileUpdate{
		Name:        req.Name,
		OwnerName:   req.OwnerName,
		Contact:     req.Contact,
		Category:    req.Category,
		City:        req.City,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, vendor)
}

// UpdateLogo handles PUT /api/v1/me/logo
func (h *VendorHandler) UpdateLogo(w http.ResponseWriter, r *http.Request) {
	var req UpdateLogoRequest
	if !decode(w, r, &req) {
		return
	}

	vendor, err := h.service.UpdateLogo(r.Context(), middleware.VendorIDFromContext(r.Context()), req.LogoURL)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, vendor)
}
