package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/jobboard/internal/database"
	"github.com/forgo/jobboard/internal/model"
)

// bcrypt cost factor (10-14 recommended for production)
const bcryptCost = 12

// UserRepository defines the interface for user storage
type UserRepository interface {
	// Create assigns ID and timestamps. It returns database.ErrDuplicate
	// when the username is already stored.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// AuthService handles registration and login
type AuthService struct {
	userRepo     UserRepository
	tokenService *TokenService
	cost         int
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo     UserRepository
	TokenService *TokenService
	BcryptCost   int // Default: 12
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcryptCost
	}

	return &AuthService{
		userRepo:     cfg.UserRepo,
		tokenService: cfg.TokenService,
		cost:         cfg.BcryptCost,
	}
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User  *model.User  `json:"user"`
	Token *AccessToken `json:"token"`
}

// Register creates a new account and returns a token for it
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*AuthResult, error) {
	req.Username = normalizeUsername(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	req.Contacts = strings.TrimSpace(req.Contacts)
	if err := validationError(req.Validate()); err != nil {
		return nil, err
	}

	unique, err := s.IsUserUnique(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, &ValidationError{Fields: []model.FieldError{{
			Field:   "password",
			Message: fmt.Sprintf("password must be at most %d bytes", model.MaxPasswordBytes),
		}}}
	}
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Hash:     string(hash),
		Name:     req.Name,
		Contacts: req.Contacts,
		Role:     req.Role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return s.issue(user)
}

// Login verifies a username and password and returns a token
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*AuthResult, error) {
	req.Username = normalizeUsername(req.Username)
	if err := validationError(req.Validate()); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Hash == "" {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// IsUserUnique reports whether username is still available
func (s *AuthService) IsUserUnique(ctx context.Context, username string) (bool, error) {
	user, err := s.userRepo.GetByUsername(ctx, normalizeUsername(username))
	if err != nil {
		return false, err
	}
	return user == nil, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokenService.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// usernames are matched case-insensitively
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
