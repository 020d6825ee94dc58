package response_models

import (
	"giftwave/internal/models/db_models"
)

// GiftDesignResponse is the sanitized view of a draft handed back to editing
// clients. Stickers and memories have already passed the shape guards.
type GiftDesignResponse struct {
	ID              string              `json:"id"`
	Token           string              `json:"token"`
	Status          string              `json:"status"`
	Theme           string              `json:"theme,omitempty"`
	Pattern         string              `json:"pattern,omitempty"`
	Stickers        []db_models.Sticker `json:"stickers"`
	Memories        []db_models.Memory  `json:"memories"`
	MessageVideoURL string              `json:"messageVideoUrl,omitempty"`
	SelectedAmount  *float64            `json:"selectedAmount,omitempty"`
	StripeSessionID string              `json:"stripeSessionId,omitempty"`
	LastEditedAt    int64               `json:"lastEditedAt,omitempty"`
}

type CreateCheckoutSessionResponse struct {
	URL string `json:"url"`
}
