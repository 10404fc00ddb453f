package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	"github.com/ShaikhZaamir/vendor-portal/internal/repository"
	apperrors "github.com/ShaikhZaamir/vendor-portal/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// TokenIssuer signs credentials binding a vendor id and email.
type TokenIssuer interface {
	GenerateToken(vendorID, email string) (string, error)
}

// AuthService registers vendors and logs them in.
type AuthService struct {
	vendors    repository.VendorRepository
	tokens     TokenIssuer
	events     EventPublisher
	logger     *slog.Logger
	bcryptCost int
}

// NewAuthService creates a new auth service.
func NewAuthService(
	vendors repository.VendorRepository,
	tokens TokenIssuer,
	events EventPublisher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		vendors:    vendors,
		tokens:     tokens,
		events:     events,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// RegisterInput holds the parameters for registering a vendor.
type RegisterInput struct {
	Name        string
	OwnerName   string
	Email       string
	Password    string
	Contact     string
	Category    string
	City        string
	Description string
}

// LoginInput holds the parameters for vendor login.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is the authenticated vendor and its bearer token.
type AuthResult struct {
	Vendor *domain.Vendor `json:"vendor"`
	Token  string         `json:"token"`
}

// Register creates a vendor account and returns it with a token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	required := []struct{ field, value string }{
		{"name", input.Name},
		{"owner_name", input.OwnerName},
		{"email", email},
		{"contact", input.Contact},
		{"category", input.Category},
		{"city", input.City},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, apperrors.InvalidInput(r.field + " is required")
		}
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	vendor := &domain.Vendor{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		OwnerName:    strings.TrimSpace(input.OwnerName),
		Email:        email,
		PasswordHash: string(hashed),
		Contact:      strings.TrimSpace(input.Contact),
		Category:     strings.TrimSpace(input.Category),
		City:         strings.TrimSpace(input.City),
		Description:  domain.NullableString(input.Description),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.vendors.Create(ctx, vendor); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create vendor: %w", err)
	}

	token, err := s.tokens.GenerateToken(vendor.ID, vendor.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	if err := s.events.PublishVendorRegistered(ctx, vendor); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish vendor.registered event",
			slog.String("vendor_id", vendor.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "vendor registered",
		slog.String("vendor_id", vendor.ID),
		slog.String("email", vendor.Email),
	)

	return &AuthResult{Vendor: vendor, Token: token}, nil
}

// Login checks the email and password and returns a fresh token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	vendor, err := s.vendors.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("get vendor by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.GenerateToken(vendor.ID, vendor.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "vendor logged in",
		slog.String("vendor_id", vendor.ID),
	)

	return &AuthResult{Vendor: vendor, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
