package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/lawconnect/internal/database/models"
)

// Authenticator defines the interface for user authentication operations.
type Authenticator interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
}

// TokenValidator is what the HTTP auth gate needs.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	TokenValidator
	GenerateToken(userID uuid.UUID, role string) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// ResetLedger defines the password reset token lifecycle.
type ResetLedger interface {
	RequestReset(ctx context.Context, email string, meta RequestMeta) (*models.PasswordReset, error)
	ResetURL(token string) string
	Validate(ctx context.Context, token string) (*models.PasswordReset, error)
	Consume(ctx context.Context, token, newPassword string) error
	SweepExpired(ctx context.Context) (int64, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
	_ ResetLedger   = (*Ledger)(nil)
)
