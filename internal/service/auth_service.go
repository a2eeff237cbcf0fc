package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"brrads/internal/models"
	"brrads/internal/repository"
	"brrads/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, and token issuance.
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
		now:       time.Now,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

type LoginInput struct {
	Username string
	Password string
}

// AuthResult pairs a signed token with the user it authenticates.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new member account. The role is always member; elevation
// happens later through admin user management, never at signup.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateUsername(input.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if input.Email != "" {
		if err := validation.ValidateEmail(input.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if existing != nil {
		return nil, models.NewConflictError("Username is already taken")
	}
	if input.Email != "" {
		existing, err = s.userRepo.GetByEmail(ctx, input.Email)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if existing != nil {
			return nil, models.NewConflictError("Email is already registered")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: input.Username,
		Password: string(hashed),
		Email:    input.Email,
		FullName: input.FullName,
		Role:     models.RoleMember,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Login authenticates by username and password. Lookup failures and bad
// passwords produce the same error so usernames cannot be probed.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if input.Username == "" || input.Password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if !user.IsActive {
		return nil, models.NewForbiddenError("Account is disabled")
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, models.NewInternalError(err)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// GenerateToken signs a JWT for the user with the configured TTL.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	if s.jwtSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iss":      "brrads-api",
		"aud":      "brrads-client",
		"exp":      now.Add(s.jwtTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      fmt.Sprintf("%d-%s", now.Unix(), uuid.NewString()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
