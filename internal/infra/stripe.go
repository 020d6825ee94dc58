package infra

import (
	"context"
	"errors"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"giftwave/internal/services"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// stripe-go retries only requests it knows are safe to repeat, and every
// session create carries an idempotency key, so one retry cannot double-create.
const stripeMaxNetworkRetries = 1

const stripeCallTimeout = 15 * time.Second

// StripeCheckoutProvider is the one process-wide Stripe client. It is built at
// startup and injected wherever checkout sessions are minted.
type StripeCheckoutProvider struct {
	api *client.API
}

func NewStripeCheckoutProvider(cfg StripeConfig) (*StripeCheckoutProvider, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("missing stripe secret key")
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(stripeMaxNetworkRetries),
	})

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &StripeCheckoutProvider{api: api}, nil
}

func (p *StripeCheckoutProvider) CreateCheckoutSession(ctx context.Context, params services.CheckoutSessionParams) (*services.CheckoutSession, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, stripeCallTimeout)
		defer cancel()
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Gift Payment"),
						Description: stripe.String("Gift payment through GiftWave"),
					},
					UnitAmount: stripe.Int64(params.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
	}
	sessionParams.Context = ctx
	if params.IdempotencyKey != "" {
		sessionParams.IdempotencyKey = stripe.String(params.IdempotencyKey)
	}

	session, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, err
	}

	return &services.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}
