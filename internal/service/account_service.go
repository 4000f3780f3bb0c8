package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/internship-service/internal/auth"
	"github.com/spec-kit/internship-service/internal/config"
	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/repository"
	"github.com/spec-kit/internship-service/internal/session"
	apperrors "github.com/spec-kit/internship-service/pkg/util"
)

// ProfilePublisher broadcasts profile changes to live sessions.
type ProfilePublisher interface {
	Publish(ctx context.Context, profile *domain.Profile)
}

// AccountService coordinates registration and login flows. It implements
// session.Authenticator.
type AccountService struct {
	identities  repository.IdentityRepository
	profiles    repository.ProfileRepository
	publisher   ProfilePublisher
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	minPassword int
}

// AccountDependencies encapsulates repo requirements for the account service.
type AccountDependencies struct {
	IdentityRepo repository.IdentityRepository
	ProfileRepo  repository.ProfileRepository
	Publisher    ProfilePublisher
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		identities:  deps.IdentityRepo,
		profiles:    deps.ProfileRepo,
		publisher:   deps.Publisher,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:  cfg.Auth.BcryptCost,
		minPassword: cfg.Auth.MinPasswordLength,
	}
}

// Register runs the two-phase registration: create the identity, then write
// the profile. The two writes are not atomic; when the profile write fails the
// identity survives and the caller retries through this same entry point,
// which repairs the missing profile instead of creating a second identity.
func (s *AccountService) Register(ctx context.Context, input session.RegisterInput) (*domain.Identity, *domain.Profile, error) {
	if err := s.validateRegistration(input); err != nil {
		return nil, nil, err
	}

	identity, err := s.identities.GetByEmail(ctx, input.Email)
	switch {
	case err == nil:
		// Existing identity: only the owner retrying a partial registration
		// may proceed to the profile phase.
		if auth.ComparePassword(identity.PasswordHash, input.Password) != nil {
			return nil, nil, apperrors.NewConflict("email already registered", nil)
		}
	case errors.Is(err, pgx.ErrNoRows):
		hash, hashErr := auth.HashPassword(input.Password, s.bcryptCost)
		if hashErr != nil {
			return nil, nil, hashErr
		}
		identity = &domain.Identity{
			ID:           uuid.NewString(),
			Email:        input.Email,
			PasswordHash: hash,
		}
		if err := s.identities.Create(ctx, identity); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, err
	}

	profile, err := s.profiles.CreateIfAbsent(ctx, &domain.Profile{
		ID:     identity.ID,
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		School: input.School,
		Level:  input.Level,
		Role:   domain.RoleStudent,
		Active: false,
	})
	if err != nil {
		return identity, nil, apperrors.NewRegistrationIncomplete(err)
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, profile)
	}
	return identity, profile, nil
}

// Authenticate verifies credentials and returns the identity.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}
	if err := auth.ComparePassword(identity.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	return identity, nil
}

// Login authenticates and issues an access token. The profile may be nil when
// registration never completed its second phase.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Identity, *domain.Profile, string, time.Time, error) {
	identity, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(identity.ID, identity.Email)
	if err != nil {
		return nil, nil, "", time.Time{}, err
	}

	profile, err := s.profiles.GetByID(ctx, identity.ID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, "", time.Time{}, err
		}
		profile = nil
	}
	return identity, profile, token, exp, nil
}

// IssueToken signs a fresh access token for the identity.
func (s *AccountService) IssueToken(identity *domain.Identity) (string, time.Time, error) {
	return s.tokenMgr.GenerateToken(identity.ID, identity.Email)
}

// Logout currently no-ops for the stateless JWT approach.
func (s *AccountService) Logout(_ context.Context, _ string) error {
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AccountService) validateRegistration(input session.RegisterInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		details["email"] = "invalid email address"
	}
	if len(input.Password) < s.minPassword {
		details["password"] = "too short"
	}
	if _, err := domain.ParseLevel(string(input.Level)); err != nil {
		details["level"] = "must be one of L3, L4, L5"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration payload", details)
	}
	return nil
}
