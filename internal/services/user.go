package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medscan-backend/internal/models"
	"medscan-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DemoEmail and DemoName identify a synthesized degraded-mode user.
const (
	DemoEmail = "demo@example.com"
	DemoName  = "Demo User"
)

// UserRepository is the persistence surface the user service needs.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateName(ctx context.Context, userID, name string) error
}

// UserService handles registration, login and profile management.
//
// In degraded mode the service performs no real authentication: register
// and login mint a fresh identity from nothing, because there is no
// durable store to check against. This mirrors the observed behavior of
// the system and is logged loudly on every call.
type UserService struct {
	userRepo UserRepository
	tokens   *TokenService
	mode     Mode
}

// NewUserService creates a new user service. userRepo may be nil in
// degraded mode; it is never touched on that path.
func NewUserService(userRepo UserRepository, tokens *TokenService, mode Mode) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		mode:     mode,
	}
}

// Mode reports the startup-time store mode the service runs in.
func (s *UserService) Mode() Mode {
	return s.mode
}

// Register creates a user and issues a token whose subject is the new id.
// Fails with ErrDuplicateEmail if the email already has a user record.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*models.User, string, error) {
	if s.mode == ModeDegraded {
		return s.synthesize(email, name)
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, "", ErrDuplicateEmail
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")

	return user, token, nil
}

// Login verifies credentials and issues a token for the resolved user.
// Fails with ErrInvalidCredentials on unknown email or wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if s.mode == ModeDegraded {
		return s.synthesize(email, DemoName)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// ResolveIdentity turns a verified token subject into an identity context.
// In normal mode the subject must resolve to a stored user; in degraded
// mode an identity is synthesized from the subject alone.
func (s *UserService) ResolveIdentity(ctx context.Context, subjectID string) (*models.User, error) {
	if s.mode == ModeDegraded {
		log.Warn().Str("subject", subjectID).Msg("Degraded mode: synthesizing identity from token subject")
		return &models.User{
			ID:        subjectID,
			Email:     DemoEmail,
			Name:      DemoName,
			CreatedAt: time.Now().UTC(),
		}, nil
	}

	user, err := s.userRepo.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}
	return user, nil
}

// UpdateProfile updates the display name when provided and non-empty.
// An absent or empty name is a no-op, not an error. Returns the refreshed
// user; the password hash never leaves this layer in responses.
func (s *UserService) UpdateProfile(ctx context.Context, identity *models.User, name string) (*models.User, error) {
	if name == "" || s.mode == ModeDegraded {
		return identity, nil
	}

	if err := s.userRepo.UpdateName(ctx, identity.ID, name); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return user, nil
}

// synthesize fabricates a fresh identity and token for degraded mode.
func (s *UserService) synthesize(email, name string) (*models.User, string, error) {
	userID := uuid.New().String()
	token, err := s.tokens.Issue(userID, 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	log.Warn().Str("user_id", userID).Msg("Degraded mode: issuing token for synthesized identity")

	return &models.User{
		ID:        userID,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, token, nil
}
