package events

import (
	"time"

	"github.com/spec-kit/internship-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPaymentSubmitted EventType = "payment_submitted"
	EventPaymentReviewed  EventType = "payment_reviewed"
	EventCodeCreated      EventType = "code_created"
	EventAccountActivated EventType = "account_activated"
	EventTaskAssigned     EventType = "task_assigned"
	EventWorkSubmitted    EventType = "work_submitted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role      domain.Role `json:"role"`
	ProfileID string      `json:"profile_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ProfileID string      `json:"profile_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PaymentSubmittedPayload payload.
type PaymentSubmittedPayload struct {
	PaymentID     string `json:"payment_id"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
}

// PaymentReviewedPayload payload.
type PaymentReviewedPayload struct {
	PaymentID  string               `json:"payment_id"`
	Status     domain.PaymentStatus `json:"status"`
	ReviewedBy string               `json:"reviewed_by"`
}

// CodeCreatedPayload payload.
type CodeCreatedPayload struct {
	Code string `json:"code"`
}

// AccountActivatedPayload payload.
type AccountActivatedPayload struct {
	Code string `json:"code"`
}

// TaskAssignedPayload payload.
type TaskAssignedPayload struct {
	TaskID   string              `json:"task_id"`
	Audience domain.TaskAudience `json:"audience"`
	Title    string              `json:"title"`
}

// WorkSubmittedPayload payload.
type WorkSubmittedPayload struct {
	TaskID       string `json:"task_id"`
	SubmissionID string `json:"submission_id"`
}
