package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/todoapp/todo-api/internal/crypto"
	"github.com/todoapp/todo-api/internal/model"
	"github.com/todoapp/todo-api/internal/repository"
	"github.com/todoapp/todo-api/internal/validation"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

// dummyHash is verified against when the email is unknown, so both login
// failures cost one argon2id run.
var dummyHash = sync.OnceValue(func() string {
	hash, err := crypto.HashPassword("todo-api-dummy-password")
	if err != nil {
		panic(err)
	}
	return hash
})

// AuthService handles account creation and credential verification.
type AuthService struct {
	repo      *repository.UserRepository
	validate  *validation.Validator
	verify    func(password, encodedHash string) (bool, error)
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.UserRepository, validate *validation.Validator, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		repo:      repo,
		validate:  validate,
		verify:    crypto.VerifyPassword,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new user account. The email is stored exactly as given.
func (s *AuthService) Register(ctx context.Context, req model.SignupRequest) (model.UserResponse, error) {
	if err := s.validate.Validate(req); err != nil {
		return model.UserResponse{}, signupError(err)
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrEmailTaken
		}
		return model.UserResponse{}, err
	}

	return user.ToResponse(), nil
}

// Login verifies credentials and issues a session token. An unknown email and
// a wrong password produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_, _ = s.verify(req.Password, dummyHash())
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := s.verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	if crypto.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, user.ID, req.Password)
	}

	token, expiresAt, err := crypto.GenerateToken(user.ID, user.Email, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.ToResponse(),
	}, nil
}

// signupError reduces a signup validation failure to the email or password
// error, email first.
func signupError(err error) error {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return err
	}
	if _, ok := verr.Fields["email"]; ok {
		return ErrInvalidEmail
	}
	return ErrWeakPassword
}

// upgradeHash re-hashes a legacy password. Failure only costs another
// upgrade attempt on the next login.
func (s *AuthService) upgradeHash(ctx context.Context, userID int64, password string) {
	hash, err := crypto.HashPassword(password)
	if err == nil {
		err = s.repo.UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil {
		slog.Warn("password hash upgrade failed", "user_id", userID, "error", err)
		return
	}
	slog.Info("password hash upgraded", "user_id", userID)
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return user.ToResponse(), nil
}
