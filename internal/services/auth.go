package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"partyreg/internal/domain"
)

const (
	minPasswordLen      = 8
	loginCodeDigits     = 6
	loginCodeExpiryMins = 15
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	loginCodeRegex = regexp.MustCompile(`^\d{6}$`)

	errInvalidCredentials = fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	errInvalidCode        = fmt.Errorf("%w: invalid or expired code", domain.ErrUnauthorized)
)

type authService struct {
	adminRepo     domain.AdminUserRepository
	loginCodeRepo domain.LoginCodeRepository
	hasher        domain.PasswordHasher
	tokenIssuer   domain.TokenIssuer
	tokenExpiry   time.Duration
	emailService  domain.EmailService
}

// NewAuthService creates an AuthService for dashboard admins.
func NewAuthService(adminRepo domain.AdminUserRepository, loginCodeRepo domain.LoginCodeRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration, emailService domain.EmailService) domain.AuthService {
	return &authService{
		adminRepo:     adminRepo,
		loginCodeRepo: loginCodeRepo,
		hasher:        hasher,
		tokenIssuer:   tokenIssuer,
		tokenExpiry:   tokenExpiry,
		emailService:  emailService,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", errInvalidCredentials
		}
		return "", fmt.Errorf("failed to get admin: %w", err)
	}
	if err := s.hasher.Compare(admin.PasswordHash, admin.Salt, password); err != nil {
		return "", errInvalidCredentials
	}
	return s.issue(admin)
}

// RequestLoginCode emails a one-time code to a known admin. Unknown addresses
// succeed silently so the endpoint does not reveal which emails are admins.
func (s *authService) RequestLoginCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get admin: %w", err)
	}
	code, err := generateLoginCode(loginCodeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	expiresAt := time.Now().Add(loginCodeExpiryMins * time.Minute)
	if err := s.loginCodeRepo.Create(ctx, email, hashLoginCode(code), expiresAt); err != nil {
		return fmt.Errorf("failed to store login code: %w", err)
	}
	if s.emailService != nil {
		data := &domain.LoginCodeEmailData{
			Email:            email,
			Name:             admin.Name,
			Code:             code,
			ExpiresInMinutes: loginCodeExpiryMins,
		}
		if err := s.emailService.SendLoginCode(ctx, data); err != nil {
			return fmt.Errorf("failed to send login code email: %w", err)
		}
	}
	return nil
}

func (s *authService) VerifyLoginCode(ctx context.Context, email, code string) (string, error) {
	email = normalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	code = strings.TrimSpace(code)
	if !loginCodeRegex.MatchString(code) {
		return "", errInvalidCode
	}
	consumed, err := s.loginCodeRepo.Consume(ctx, email, hashLoginCode(code))
	if err != nil {
		return "", fmt.Errorf("failed to verify code: %w", err)
	}
	if !consumed {
		return "", errInvalidCode
	}
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", errInvalidCode
		}
		return "", fmt.Errorf("failed to get admin: %w", err)
	}
	return s.issue(admin)
}

func (s *authService) CreateAdmin(ctx context.Context, email, name, password string) (*domain.AdminUser, error) {
	email = normalizeEmail(email)
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	admin := domain.NewAdminUser(email, strings.TrimSpace(name), hash, salt, now, now)
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

func (s *authService) GetAdmin(ctx context.Context, id string) (*domain.AdminUser, error) {
	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

func (s *authService) issue(admin *domain.AdminUser) (string, error) {
	token, err := s.tokenIssuer.Issue(admin.ID, admin.Email, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func generateLoginCode(digits int) (string, error) {
	const digitspace = "0123456789"
	b := make([]byte, digits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digitspace[int(b[i])%len(digitspace)]
	}
	return string(b), nil
}

func hashLoginCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
