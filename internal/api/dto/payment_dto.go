package dto

import (
	"time"

	"github.com/spec-kit/internship-service/internal/domain"
)

// SubmitPaymentRequest payload for payment-proof submission.
type SubmitPaymentRequest struct {
	TransactionID string `json:"transaction_id"`
}

// ReviewPaymentRequest payload for admin review.
type ReviewPaymentRequest struct {
	Verified bool `json:"verified"`
}

// PaymentResponse is the JSON form of a payment.
type PaymentResponse struct {
	ID            string     `json:"id"`
	ProfileID     string     `json:"profile_id"`
	Amount        int64      `json:"amount"`
	TransactionID string     `json:"transaction_id"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	VerifiedBy    *string    `json:"verified_by,omitempty"`
}

// NewPaymentResponse maps a domain payment.
func NewPaymentResponse(payment *domain.Payment) *PaymentResponse {
	if payment == nil {
		return nil
	}
	return &PaymentResponse{
		ID:            payment.ID,
		ProfileID:     payment.ProfileID,
		Amount:        payment.Amount,
		TransactionID: payment.TransactionID,
		Status:        string(payment.Status),
		CreatedAt:     payment.CreatedAt,
		VerifiedAt:    payment.VerifiedAt,
		VerifiedBy:    payment.VerifiedBy,
	}
}
