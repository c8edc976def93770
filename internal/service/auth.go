package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/auth"
	"github.com/sakif/snippet-manager/internal/model"
	"github.com/sakif/snippet-manager/internal/repository"
)

// MinPasswordLength is the minimum accepted password length for register.
const MinPasswordLength = 8

// AuthService handles account registration, login, and the GitHub OAuth
// callback. It issues the JWTs the authentication guard later verifies.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record with a freshly issued access token.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates an email+password account and issues a token.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var details []apperror.FieldError
	if email == "" || !strings.Contains(email, "@") {
		details = append(details, apperror.FieldError{
			Field: "email", Message: "A valid email address is required",
		})
	}
	if len(password) < MinPasswordLength {
		details = append(details, apperror.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters", MinPasswordLength),
		})
	}
	if len(details) > 0 {
		return nil, apperror.Validation("Validation failed", details...)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}

	// The unique index on email turns a duplicate registration into a
	// "Duplicate entry" validation error at the repository.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	return s.issue(user)
}

// Login verifies an email+password pair and issues a token. Unknown email
// and wrong password produce the same response.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperror.Is(err, apperror.CodeNotFound) {
			return nil, apperror.Unauthorized("Invalid email or password")
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		// OAuth-only account.
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issue(user)
}

// LoginOrRegisterGitHub completes the GitHub OAuth callback: upsert the user
// keyed by GitHub ID, then issue a token.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user := &model.User{
		Email:     strings.ToLower(ghUser.Email),
		GitHubID:  ghUser.ID,
		Login:     ghUser.Login,
		AvatarURL: ghUser.AvatarURL,
	}

	if err := s.users.UpsertGitHub(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("login", user.Login),
	)

	return s.issue(user)
}

// GetUserByID returns the user for the given internal ID. Used by /me.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
