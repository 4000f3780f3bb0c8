package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/events"
	"github.com/spec-kit/internship-service/internal/repository"
	apperrors "github.com/spec-kit/internship-service/pkg/util"
)

const activationCodeLength = 6

// ActivationService issues and redeems activation codes. Activation is the
// only trusted path that flips a profile to active.
type ActivationService struct {
	codes      repository.ActivationCodeRepository
	profiles   repository.ProfileRepository
	publisher  ProfilePublisher
	dispatcher events.Dispatcher
}

// NewActivationService builds the service.
func NewActivationService(codes repository.ActivationCodeRepository, profiles repository.ProfileRepository, publisher ProfilePublisher, dispatcher events.Dispatcher) *ActivationService {
	return &ActivationService{codes: codes, profiles: profiles, publisher: publisher, dispatcher: dispatcher}
}

// CreateCode issues a fresh code for the given student.
func (s *ActivationService) CreateCode(ctx context.Context, adminID, profileID string) (*domain.ActivationCode, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("student", map[string]any{"profile_id": profileID})
		}
		return nil, err
	}
	if profile.Active {
		return nil, apperrors.NewConflict("account already activated", nil)
	}

	code := &domain.ActivationCode{
		Code:      generateActivationCode(),
		ProfileID: profileID,
		Used:      false,
		CreatedBy: adminID,
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventCodeCreated,
		ProfileID: profileID,
		Actor:     events.Actor{Role: domain.RoleAdmin, ProfileID: adminID},
		Payload:   events.CodeCreatedPayload{Code: code.Code},
	})
	return code, nil
}

// Redeem consumes the code and activates the caller's profile atomically. The
// updated profile is broadcast so open sessions see the flip without
// re-authenticating.
func (s *ActivationService) Redeem(ctx context.Context, profileID, rawCode string) (*domain.Profile, error) {
	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if len(code) < 4 {
		return nil, apperrors.NewValidationError("code too short", nil)
	}

	profile, err := s.codes.Redeem(ctx, code, profileID)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewValidationError("invalid code", nil)
		case errors.Is(err, repository.ErrCodeOwnerMismatch):
			return nil, apperrors.NewForbidden("this code is not for your account")
		case errors.Is(err, repository.ErrCodeUsed):
			return nil, apperrors.NewConflict("code already used", nil)
		default:
			return nil, err
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, profile)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventAccountActivated,
		ProfileID: profileID,
		Actor:     events.Actor{Role: domain.RoleStudent, ProfileID: profileID},
		Payload:   events.AccountActivatedPayload{Code: code},
	})
	return profile, nil
}

func (s *ActivationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateActivationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:activationCodeLength])
}
