package request_models

// CreateCheckoutSessionRequest is the public checkout payload. Field presence is
// validated in the service so every missing-parameter case maps to the same
// client-facing message.
type CreateCheckoutSessionRequest struct {
	GiftID string  `json:"giftId"`
	Amount float64 `json:"amount"`
	Token  string  `json:"token"`
}
