package domain

import (
	"context"
	"time"
)

// AdminUser is a dashboard operator.
// swagger:model AdminUser
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAdminUser returns a new AdminUser. ID is typically set by the repository on create.
func NewAdminUser(email, name, passwordHash, salt string, createdAt, updatedAt time.Time) *AdminUser {
	return &AdminUser{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated admin.
type TokenIssuer interface {
	Issue(adminID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated admin ID.
type TokenVerifier interface {
	Verify(token string) (adminID string, err error)
}

// AdminUserRepository defines the interface for admin storage.
type AdminUserRepository interface {
	Create(ctx context.Context, admin *AdminUser) error
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
	GetByID(ctx context.Context, id string) (*AdminUser, error)
}

// LoginCodeRepository defines the interface for one-time login code storage.
type LoginCodeRepository interface {
	Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	Consume(ctx context.Context, email, codeHash string) (consumed bool, err error)
}

// AuthService authenticates dashboard admins.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	RequestLoginCode(ctx context.Context, email string) error
	VerifyLoginCode(ctx context.Context, email, code string) (string, error)
	CreateAdmin(ctx context.Context, email, name, password string) (*AdminUser, error)
	GetAdmin(ctx context.Context, id string) (*AdminUser, error)
}
