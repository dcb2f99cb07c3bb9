package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for admin password hashes
	BcryptCost = 10

	// DefaultAccessTokenExpiration applies when no expiry is configured
	DefaultAccessTokenExpiration = time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// AuthResult is the outcome of a successful login.
// AccessToken is empty when token signing is not configured.
type AuthResult struct {
	Success     bool   `json:"success"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token,omitempty"`
}

// Claims represents the JWT claims of an admin access token
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AdminService defines the interface for admin authentication
type AdminService interface {
	// Authenticate fails with domain.ErrInvalidCredentials for an unknown
	// username and for a wrong password alike.
	Authenticate(ctx context.Context, username, password string) (*AuthResult, error)
	// SetPassword replaces the stored credential of an existing admin.
	SetPassword(ctx context.Context, username, password string) error
	// EnsureAdmin creates the admin unless the username already exists.
	EnsureAdmin(ctx context.Context, username, password string, email *string) (created bool, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type adminService struct {
	adminRepo   repository.AdminRepository
	jwtSecret   string
	tokenExpiry time.Duration
	logger      *zap.Logger
}

// NewAdminService creates a new instance of AdminService. An empty jwtSecret
// disables access tokens.
func NewAdminService(
	adminRepo repository.AdminRepository,
	jwtSecret string,
	tokenExpiry time.Duration,
	logger *zap.Logger,
) AdminService {
	if tokenExpiry <= 0 {
		tokenExpiry = DefaultAccessTokenExpiration
	}
	return &adminService{
		adminRepo:   adminRepo,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}
}

// Authenticate verifies the admin credential
func (s *adminService) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	if err := domain.Validate(domain.LoginInput{Username: username, Password: password}); err != nil {
		return nil, err
	}

	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			// Spend the same bcrypt work as a real comparison.
			_ = verifyPassword(dummyHash(), password)
			s.logger.Debug("login rejected", zap.String("username", username))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if err := verifyPassword(admin.PasswordHash, password); err != nil {
		s.logger.Debug("login rejected", zap.String("username", username))
		return nil, domain.ErrInvalidCredentials
	}

	result := &AuthResult{Success: true, Username: admin.Username}
	if s.jwtSecret != "" {
		result.AccessToken, err = s.generateAccessToken(admin)
		if err != nil {
			return nil, fmt.Errorf("failed to generate access token: %w", err)
		}
	}

	s.logger.Info("admin logged in", zap.String("username", admin.Username))
	return result, nil
}

// SetPassword hashes password and stores it for username
func (s *adminService) SetPassword(ctx context.Context, username, password string) error {
	if err := domain.Validate(domain.AdminInput{Username: username, Password: password}); err != nil {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.adminRepo.SetPasswordHash(ctx, username, hash); err != nil {
		return err
	}

	s.logger.Info("admin password changed", zap.String("username", username))
	return nil
}

// EnsureAdmin creates the admin account with a hashed password
func (s *adminService) EnsureAdmin(ctx context.Context, username, password string, email *string) (bool, error) {
	if err := domain.Validate(domain.AdminInput{Username: username, Password: password, Email: email}); err != nil {
		return false, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domain.Admin{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Email:        email,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrAdminAlreadyExists) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info("admin created", zap.String("username", username))
	return true, nil
}

// ValidateToken validates a JWT token and returns the claims. Without a
// signing secret every token is rejected.
func (s *adminService) ValidateToken(tokenString string) (*Claims, error) {
	if s.jwtSecret == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *adminService) generateAccessToken(admin *domain.Admin) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// verifyPassword verifies a password against a bcrypt hash
func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

var (
	dummyHashOnce  sync.Once
	dummyHashValue string
)

func dummyHash() string {
	dummyHashOnce.Do(func() {
		dummyHashValue, _ = hashPassword(uuid.NewString())
	})
	return dummyHashValue
}
