package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"

	"giftwave/internal/repositories"
)

const webhookBodyLimit = 64 * 1024

// StripeWebhookController moves a draft pending -> paid when Stripe confirms
// payment. Signature verification is the authentication for this endpoint.
type StripeWebhookController struct {
	repo          repositories.GiftDesignRepositoryInterface
	webhookSecret string
}

func NewStripeWebhookController(repo repositories.GiftDesignRepositoryInterface, webhookSecret string) *StripeWebhookController {
	return &StripeWebhookController{
		repo:          repo,
		webhookSecret: webhookSecret,
	}
}

func (w *StripeWebhookController) HandleStripeWebhook(c *gin.Context) {
	if w.webhookSecret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Webhook secret is not configured"})
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, webhookBodyLimit))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), w.webhookSecret)
	if err != nil {
		log.Printf("Error verifying webhook signature: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		// Not subscribed to anything else; ack so Stripe stops resending.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Printf("Error parsing checkout session from event %s: %v", event.ID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}

	err = w.repo.MarkPaidBySession(c.Request.Context(), session.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Either the session id write was lost (best-effort bookkeeping)
			// or the draft is already paid. Ack to avoid a retry storm.
			log.Printf("No pending draft for session %s", session.ID)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		log.Printf("Error marking draft paid for session %s: %v", session.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}

	log.Printf("Marked draft paid for session %s", session.ID)
	c.JSON(http.StatusOK, gin.H{"received": true})
}
