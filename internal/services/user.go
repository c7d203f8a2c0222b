package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"apod-bot/internal/models"
	"apod-bot/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	defaultTokenTTL  = 24 * time.Hour
)

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Exists(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, limit int) ([]*models.User, error)
}

// UserService handles user-related business logic
type UserService struct {
	userRepo  UserStore
	adminID   int64
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewUserService creates a new user service. adminID is the single
// administrator; zero disables admin features.
func NewUserService(userRepo UserStore, adminID int64, jwtSecret string, tokenTTL time.Duration) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &UserService{
		userRepo:  userRepo,
		adminID:   adminID,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// IsAdmin reports whether userID is the administrator
func (s *UserService) IsAdmin(userID int64) bool {
	return s.adminID != 0 && userID == s.adminID
}

// Register stores the user on first contact. It reports whether a new
// user was created. Display attributes of known users are not refreshed.
func (s *UserService) Register(ctx context.Context, user models.User) (bool, error) {
	exists, err := s.userRepo.Exists(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if exists {
		return false, nil
	}

	user.IsAdmin = s.IsAdmin(user.ID)
	user.CreatedAt = s.now()
	if err := s.userRepo.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return true, nil
}

// ListUsers returns registered users, newest first. limit is clamped to
// a sane range.
func (s *UserService) ListUsers(ctx context.Context, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	users, err := s.userRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return users, nil
}

// GenerateAdminToken issues a JWT for the admin HTTP API
func (s *UserService) GenerateAdminToken(userID int64) (string, error) {
	if !s.IsAdmin(userID) || s.jwtSecret == "" {
		return "", ErrUnauthorized
	}

	now := s.now()
	claims := jwt.MapClaims{
		"user_id": strconv.FormatInt(userID, 10),
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateAdminToken validates a JWT and returns the administrator's ID
func (s *UserService) ValidateAdminToken(tokenString string) (int64, error) {
	if s.jwtSecret == "" {
		return 0, ErrUnauthorized
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to parse token: %w", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("%w: invalid token claims", ErrUnauthorized)
	}

	raw, ok := claims["user_id"].(string)
	if !ok {
		return 0, fmt.Errorf("%w: user_id not found in token", ErrUnauthorized)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || !s.IsAdmin(userID) {
		return 0, fmt.Errorf("%w: token does not belong to the administrator", ErrUnauthorized)
	}

	return userID, nil
}
