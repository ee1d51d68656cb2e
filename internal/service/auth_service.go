package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/stocktake/internal/auth"
	"github.com/mmynk/stocktake/internal/models"
)

// AuthService logs users in and issues bearer tokens.
type AuthService struct {
	authenticator auth.Authenticator
	issuer        *auth.TokenIssuer
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, issuer *auth.TokenIssuer, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		issuer:        issuer,
		logger:        logger,
	}
}

// Login authenticates a user and returns an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	s.logger.Info("Login request", "email", email)

	if email == "" || password == "" {
		return "", nil, invalid("email and password are required")
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		return "", nil, auth.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return "", nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return token, user, nil
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (string, *models.User, error) {
	s.logger.Info("Register request", "email", email)

	if email == "" || displayName == "" {
		return "", nil, invalid("email and display name are required")
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		s.logger.Error("Registration failed", "email", email, "error", err)
		if errors.Is(err, auth.ErrWeakPassword) {
			return "", nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		return "", nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return token, user, nil
}

// Seed makes sure the suite account exists.
func (s *AuthService) Seed(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.authenticator.EnsureUser(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to seed user %s: %w", email, err)
	}
	s.logger.Info("Seed user ready", "user_id", user.ID, "email", user.Email)
	return user, nil
}
