package http

import (
	"log/slog"
	"net/http"

	"github.com/ShaikhZaamir/vendor-portal/internal/service"
	"github.com/ShaikhZaamir/vendor-portal/pkg/httputil"
)

// AuthHandler handles HTTP requests for auth endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// RegisterRequest is the JSON request body for vendor registration.
type RegisterRequest struct {
	Name        string `json:"name" validate:"notblank,max=255"`
	OwnerName   string `json:"owner_name" validate:"notblank,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Contact     string `json:"contact" validate:"notblank,max=64"`
	Category    string `json:"category" validate:"notblank,max=100"`
	City        string `json:"city" validate:"notblank,max=100"`
	Description string `json:"description" validate:"max=5000"`
}

// LoginRequest is the JSON request body for vendor login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.service.Register(r.Context(), service.RegisterInput{
		Name:        req.Name,
		OwnerName:   req.OwnerName,
		Email:       req.Email,
		Password:    req.Password,
		Contact:     req.Contact,
		Category:    req.Category,
		City:        req.City,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, res)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, res)
}
