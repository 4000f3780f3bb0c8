package domain

import "time"

// ActivationCode is a one-shot code issued by an admin after payment
// verification. Redeeming it flips the owning profile to active.
type ActivationCode struct {
	Code      string
	ProfileID string
	Used      bool
	CreatedAt time.Time
	CreatedBy string
	UsedAt    *time.Time
}
