package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/events"
	apperrors "github.com/spec-kit/internship-service/pkg/util"
)

func newActivationFixture() (*ActivationService, *memProfileRepo, *memCodeRepo, *recordingPublisher, *recordingDispatcher) {
	profiles := newMemProfileRepo()
	codes := newMemCodeRepo(profiles)
	publisher := &recordingPublisher{}
	dispatcher := &recordingDispatcher{}
	svc := NewActivationService(codes, profiles, publisher, dispatcher)
	return svc, profiles, codes, publisher, dispatcher
}

func seedProfile(t *testing.T, profiles *memProfileRepo, id string, active bool) {
	t.Helper()
	_, err := profiles.CreateIfAbsent(context.Background(), &domain.Profile{
		ID:     id,
		Name:   "Student " + id,
		Email:  id + "@example.com",
		Level:  domain.LevelL4,
		Role:   domain.RoleStudent,
		Active: active,
	})
	require.NoError(t, err)
}

func TestCreateCode(t *testing.T) {
	svc, profiles, _, _, dispatcher := newActivationFixture()
	seedProfile(t, profiles, "p1", false)

	code, err := svc.CreateCode(context.Background(), "admin-1", "p1")
	require.NoError(t, err)

	assert.Len(t, code.Code, 6)
	assert.Equal(t, "p1", code.ProfileID)
	assert.False(t, code.Used)
	assert.Contains(t, dispatcher.types(), events.EventCodeCreated)
}

func TestCreateCodeUnknownProfile(t *testing.T) {
	svc, _, _, _, _ := newActivationFixture()

	_, err := svc.CreateCode(context.Background(), "admin-1", "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestCreateCodeForActiveProfile(t *testing.T) {
	svc, profiles, _, _, _ := newActivationFixture()
	seedProfile(t, profiles, "p1", true)

	_, err := svc.CreateCode(context.Background(), "admin-1", "p1")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestRedeemActivatesProfile(t *testing.T) {
	svc, profiles, _, publisher, dispatcher := newActivationFixture()
	seedProfile(t, profiles, "p1", false)

	code, err := svc.CreateCode(context.Background(), "admin-1", "p1")
	require.NoError(t, err)

	// redemption is case and whitespace tolerant
	profile, err := svc.Redeem(context.Background(), "p1", "  "+code.Code+"  ")
	require.NoError(t, err)
	assert.True(t, profile.Active)

	stored, err := profiles.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, stored.Active)

	// live sessions observe the flip through the publisher
	assert.Equal(t, 1, publisher.count())
	assert.Contains(t, dispatcher.types(), events.EventAccountActivated)
}

func TestRedeemInvalidCode(t *testing.T) {
	svc, profiles, _, _, _ := newActivationFixture()
	seedProfile(t, profiles, "p1", false)

	_, err := svc.Redeem(context.Background(), "p1", "NOSUCH")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestRedeemTooShort(t *testing.T) {
	svc, _, _, _, _ := newActivationFixture()

	_, err := svc.Redeem(context.Background(), "p1", "ab")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestRedeemSomeoneElsesCode(t *testing.T) {
	svc, profiles, _, _, _ := newActivationFixture()
	seedProfile(t, profiles, "p1", false)
	seedProfile(t, profiles, "p2", false)

	code, err := svc.CreateCode(context.Background(), "admin-1", "p1")
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), "p2", code.Code)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	// the owner can still redeem afterwards
	profile, err := svc.Redeem(context.Background(), "p1", code.Code)
	require.NoError(t, err)
	assert.True(t, profile.Active)
}

func TestRedeemIsSingleUse(t *testing.T) {
	svc, profiles, _, _, _ := newActivationFixture()
	seedProfile(t, profiles, "p1", false)

	code, err := svc.CreateCode(context.Background(), "admin-1", "p1")
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), "p1", code.Code)
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), "p1", code.Code)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}
