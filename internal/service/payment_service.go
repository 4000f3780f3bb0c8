package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/internship-service/internal/config"
	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/events"
	"github.com/spec-kit/internship-service/internal/repository"
	apperrors "github.com/spec-kit/internship-service/pkg/util"
)

// PaymentService coordinates the payment-proof workflow.
type PaymentService struct {
	payments   repository.PaymentRepository
	dispatcher events.Dispatcher
	cfg        config.PaymentConfig
}

// NewPaymentService builds the service.
func NewPaymentService(cfg config.PaymentConfig, payments repository.PaymentRepository, dispatcher events.Dispatcher) *PaymentService {
	return &PaymentService{payments: payments, dispatcher: dispatcher, cfg: cfg}
}

// SubmitProof records a pending payment proof for admin review.
func (s *PaymentService) SubmitProof(ctx context.Context, profileID, transactionID string) (*domain.Payment, error) {
	transactionID = strings.TrimSpace(transactionID)
	if len(transactionID) < s.cfg.MinTransactionLen {
		return nil, apperrors.NewValidationError("transaction id too short", map[string]any{
			"transaction_id": "min length " + strconv.Itoa(s.cfg.MinTransactionLen),
		})
	}

	payment := &domain.Payment{
		ID:            uuid.NewString(),
		ProfileID:     profileID,
		Amount:        s.cfg.ExpectedAmount,
		TransactionID: transactionID,
		Status:        domain.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventPaymentSubmitted,
		ProfileID: profileID,
		Actor:     events.Actor{Role: domain.RoleStudent, ProfileID: profileID},
		Payload: events.PaymentSubmittedPayload{
			PaymentID:     payment.ID,
			TransactionID: payment.TransactionID,
			Amount:        payment.Amount,
		},
	})
	return payment, nil
}

// Latest returns the newest payment for the profile, or nil when none exists.
func (s *PaymentService) Latest(ctx context.Context, profileID string) (*domain.Payment, error) {
	payment, err := s.payments.LatestByProfile(ctx, profileID)
	if err != nil {
		if apperrors.ToDomainError(err).Code == "NOT_FOUND" {
			return nil, nil
		}
		return nil, err
	}
	return payment, nil
}

// ListRecent returns recent payments for the admin review queue.
func (s *PaymentService) ListRecent(ctx context.Context) ([]domain.Payment, error) {
	return s.payments.ListRecent(ctx, s.cfg.AdminListPageLimit)
}

// Review marks a pending payment verified or rejected.
func (s *PaymentService) Review(ctx context.Context, adminID, paymentID string, verified bool) (*domain.Payment, error) {
	existing, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.PaymentStatusPending {
		return nil, apperrors.NewConflict("payment already reviewed", map[string]any{
			"status": string(existing.Status),
		})
	}

	status := domain.PaymentStatusRejected
	if verified {
		status = domain.PaymentStatusVerified
	}
	payment, err := s.payments.SetStatus(ctx, paymentID, status, adminID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventPaymentReviewed,
		ProfileID: payment.ProfileID,
		Actor:     events.Actor{Role: domain.RoleAdmin, ProfileID: adminID},
		Payload: events.PaymentReviewedPayload{
			PaymentID:  payment.ID,
			Status:     payment.Status,
			ReviewedBy: adminID,
		},
	})
	return payment, nil
}

func (s *PaymentService) publishEvent(ctx context.Context, event events.Event) {
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
