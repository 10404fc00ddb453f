package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	"github.com/ShaikhZaamir/vendor-portal/internal/service"
	"github.com/ShaikhZaamir/vendor-portal/pkg/httputil"
	"github.com/ShaikhZaamir/vendor-portal/pkg/middleware"
)

// ProductHandler handles the authenticated vendor's catalog.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// ProductRequest is the JSON body for creating or replacing a product.
type ProductRequest struct {
	Name        string        `json:"name" validate:"notblank,max=255"`
	Description *string       `json:"description" validate:"omitempty,max=5000"`
	Price       *domain.Price `json:"price"`
	ImageURL    *string       `json:"image_url" validate:"omitempty,url,max=2048"`
}

func (req ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Description: deref(req.Description),
		Price:       req.Price,
		ImageURL:    deref(req.ImageURL),
	}
}

// UpdateImageRequest is the JSON body of an image change.
type UpdateImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,url,max=2048"`
}

// List handles GET /api/v1/me/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListMine(r.Context(), middleware.VendorIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	httputil.WriteData(w, http.StatusOK, map[string]any{"products": products})
}

// Create handles POST /api/v1/me/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decode(w, r, &req) {
		return
	}

	product, err := h.service.Create(r.Context(), middleware.VendorIDFromContext(r.Context()), req.input())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, product)
}

// Get handles GET /api/v1/me/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), middleware.VendorIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, product)
}

// Update handles PUT /api/v1/me/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decode(w, r, &req) {
		return
	}

	product, err := h.service.Update(r.Context(), middleware.VendorIDFromContext(r.Context()), chi.URLParam(r, "id"), req.input())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, product)
}

// UpdateImage handles PUT /api/v1/me/products/{id}/image
func (h *ProductHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	var req UpdateImageRequest
	if !decode(w, r, &req) {
		return
	}

	product, err := h.service.UpdateImage(r.Context(), middleware.VendorIDFromContext(r.Context()), chi.URLParam(r, "id"), req.ImageURL)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, product)
}

// Delete handles DELETE /api/v1/me/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), middleware.VendorIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
