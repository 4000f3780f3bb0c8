package dto

// RedeemCodeRequest payload for activation code redemption.
type RedeemCodeRequest struct {
	Code string `json:"code"`
}

// CreateCodeRequest payload for admin code creation.
type CreateCodeRequest struct {
	ProfileID string `json:"profile_id"`
}
