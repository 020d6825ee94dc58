package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"

	"giftwave/internal/models/request_models"
	"giftwave/internal/repositories"
	"giftwave/pkg/utils"
)

// CheckoutSessionParams is what the payment provider needs to mint one
// single-charge session for a gift.
type CheckoutSessionParams struct {
	AmountCents    int64
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutProvider mints hosted checkout sessions. Implemented by the Stripe
// client in infra; tests substitute their own.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
}

type CheckoutServiceInterface interface {
	// CreateCheckoutSession re-derives the billable amount from the stored
	// draft and only then talks to the payment provider. Returns the
	// provider-hosted redirect URL.
	CreateCheckoutSession(ctx context.Context, req request_models.CreateCheckoutSessionRequest, origin string) (string, error)
}

type checkoutService struct {
	repo       repositories.GiftDesignRepositoryInterface
	provider   CheckoutProvider
	appBaseURL string
}

func NewCheckoutService(repo repositories.GiftDesignRepositoryInterface, provider CheckoutProvider, appBaseURL string) CheckoutServiceInterface {
	return &checkoutService{
		repo:       repo,
		provider:   provider,
		appBaseURL: appBaseURL,
	}
}

func (s *checkoutService) CreateCheckoutSession(ctx context.Context, req request_models.CreateCheckoutSessionRequest, origin string) (string, error) {
	if req.GiftID == "" || req.Token == "" || req.Amount <= 0 {
		return "", utils.ErrInvalidCheckoutParams
	}

	giftID, err := uuid.Parse(req.GiftID)
	if err != nil {
		// An unparseable id can never match a row; same outcome as a lookup miss.
		return "", utils.ErrGiftNotFound
	}

	design, err := s.repo.GetByIDAndToken(ctx, giftID, req.Token)
	if err != nil {
		log.Printf("Error fetching gift %s: %v", req.GiftID, err)
		return "", utils.ErrGiftNotFound
	}
	if design == nil {
		return "", utils.ErrGiftNotFound
	}

	// The client-displayed amount must equal what the draft actually stores.
	// A mismatch means tampering or a stale client and aborts the whole call.
	if design.SelectedAmount == nil {
		log.Printf("Amount mismatch for gift %s: no amount selected, requested=%v", req.GiftID, req.Amount)
		return "", utils.ErrAmountMismatch
	}
	if *design.SelectedAmount != req.Amount {
		log.Printf("Amount mismatch for gift %s: stored=%v requested=%v",
			req.GiftID, *design.SelectedAmount, req.Amount)
		return "", utils.ErrAmountMismatch
	}

	if origin == "" {
		origin = s.appBaseURL
	}

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutSessionParams{
		AmountCents:    int64(math.Round(req.Amount * 100)),
		SuccessURL:     fmt.Sprintf("%s/payment-success?session_id={CHECKOUT_SESSION_ID}&token=%s", origin, req.Token),
		CancelURL:      fmt.Sprintf("%s/previewanimation?token=%s", origin, req.Token),
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	log.Printf("Created checkout session %s for gift %s", session.ID, req.GiftID)

	// Bookkeeping only. The session already exists at the provider, so a
	// failed write must not fail the call.
	if err := s.repo.SetCheckoutSession(ctx, giftID, session.ID); err != nil {
		log.Printf("Error recording session id on gift %s: %v", req.GiftID, err)
	}

	return session.URL, nil
}
