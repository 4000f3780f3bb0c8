package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/internship-service/internal/config"
	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/events"
	apperrors "github.com/spec-kit/internship-service/pkg/util"
)

func paymentConfig() config.PaymentConfig {
	return config.PaymentConfig{
		ExpectedAmount:     10000,
		MinTransactionLen:  6,
		AdminListPageLimit: 50,
	}
}

func newPaymentFixture() (*PaymentService, *memPaymentRepo, *recordingDispatcher) {
	payments := newMemPaymentRepo()
	dispatcher := &recordingDispatcher{}
	return NewPaymentService(paymentConfig(), payments, dispatcher), payments, dispatcher
}

func TestSubmitProof(t *testing.T) {
	svc, _, dispatcher := newPaymentFixture()

	payment, err := svc.SubmitProof(context.Background(), "p1", "  TXN123456  ")
	require.NoError(t, err)

	assert.Equal(t, "TXN123456", payment.TransactionID)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
	assert.Equal(t, int64(10000), payment.Amount)
	assert.Equal(t, []events.EventType{events.EventPaymentSubmitted}, dispatcher.types())
}

func TestSubmitProofRejectsShortTransaction(t *testing.T) {
	svc, _, _ := newPaymentFixture()

	_, err := svc.SubmitProof(context.Background(), "p1", "abc")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestLatestReturnsNilWhenNoneExists(t *testing.T) {
	svc, _, _ := newPaymentFixture()

	payment, err := svc.Latest(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, payment)
}

func TestLatestReturnsNewest(t *testing.T) {
	svc, _, _ := newPaymentFixture()

	_, err := svc.SubmitProof(context.Background(), "p1", "TXN000001")
	require.NoError(t, err)
	second, err := svc.SubmitProof(context.Background(), "p1", "TXN000002")
	require.NoError(t, err)

	latest, err := svc.Latest(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
}

func TestReviewVerifiesPendingPayment(t *testing.T) {
	svc, _, dispatcher := newPaymentFixture()

	payment, err := svc.SubmitProof(context.Background(), "p1", "TXN123456")
	require.NoError(t, err)

	reviewed, err := svc.Review(context.Background(), "admin-1", payment.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusVerified, reviewed.Status)
	require.NotNil(t, reviewed.VerifiedBy)
	assert.Equal(t, "admin-1", *reviewed.VerifiedBy)
	assert.Contains(t, dispatcher.types(), events.EventPaymentReviewed)
}

func TestReviewRejects(t *testing.T) {
	svc, _, _ := newPaymentFixture()

	payment, err := svc.SubmitProof(context.Background(), "p1", "TXN123456")
	require.NoError(t, err)

	reviewed, err := svc.Review(context.Background(), "admin-1", payment.ID, false)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusRejected, reviewed.Status)
}

func TestReviewIsSingleShot(t *testing.T) {
	svc, _, _ := newPaymentFixture()

	payment, err := svc.SubmitProof(context.Background(), "p1", "TXN123456")
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), "admin-1", payment.ID, true)
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), "admin-2", payment.ID, false)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestListRecentHonorsLimit(t *testing.T) {
	payments := newMemPaymentRepo()
	cfg := paymentConfig()
	cfg.AdminListPageLimit = 2
	svc := NewPaymentService(cfg, payments, &recordingDispatcher{})

	for _, txn := range []string{"TXN000001", "TXN000002", "TXN000003"} {
		_, err := svc.SubmitProof(context.Background(), "p1", txn)
		require.NoError(t, err)
	}

	recent, err := svc.ListRecent(context.Background())
	require.NoError(t, err)
	assert.Len(t, recent, 2)
	assert.Equal(t, "TXN000003", recent[0].TransactionID)
}
