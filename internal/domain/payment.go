package domain

import "time"

// PaymentStatus represents review states for a payment proof.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Payment records a student-submitted payment proof awaiting admin review.
type Payment struct {
	ID            string
	ProfileID     string
	Amount        int64
	TransactionID string
	Status        PaymentStatus
	CreatedAt     time.Time
	VerifiedAt    *time.Time
	VerifiedBy    *string
}
