package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

const minPasswordLength = 6

// AuthService implements registration, login, password reset and
// session-user lookup.
type AuthService struct {
	users  ports.UserRepository
	hasher *PasswordHasher
	tokens *TokenManager
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher *PasswordHasher, tokens *TokenManager, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if !domain.ValidUsername(username) {
		return nil, fmt.Errorf("%w: username must be 3-20 characters, start with a letter and contain only letters, digits or underscores", domain.ErrValidation)
	}
	if !domain.ValidEmail(email) {
		return nil, fmt.Errorf("%w: email is not valid", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	// Pre-check for a friendlier error; the unique index on email is the
	// final authority when two registrations race.
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if err != domain.ErrUserNotFound {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, token, nil
}

// ResetPassword re-hashes and overwrites the account password. The requester
// proves nothing beyond knowledge of the email address; there is no session
// or ownership check on this path.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if email == "" || newPassword == "" {
		return fmt.Errorf("%w: email and new password are required", domain.ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// CurrentUser resolves the user behind a verified session token. The account
// may have been removed after the token was issued.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}
