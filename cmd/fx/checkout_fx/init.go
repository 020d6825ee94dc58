package checkout_fx

import (
	"log"
	"os"

	"go.uber.org/fx"

	"giftwave/internal/api/controllers"
	"giftwave/internal/infra"
	"giftwave/internal/repositories"
	"giftwave/internal/services"
)

var Module = fx.Provide(
	provideStripeProvider,
	provideCheckoutService,
	provideCheckoutController,
	provideWebhookController,
)

func provideStripeProvider() services.CheckoutProvider {
	provider, err := infra.NewStripeCheckoutProvider(infra.StripeConfig{
		SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	})
	if err != nil {
		log.Fatalf("Error initializing Stripe client: %v", err)
	}
	return provider
}

func provideCheckoutService(repo repositories.GiftDesignRepositoryInterface, provider services.CheckoutProvider) services.CheckoutServiceInterface {
	return services.NewCheckoutService(repo, provider, os.Getenv("APP_BASE_URL"))
}

func provideCheckoutController(checkoutService services.CheckoutServiceInterface) *controllers.CheckoutController {
	return controllers.NewCheckoutController(checkoutService)
}

func provideWebhookController(repo repositories.GiftDesignRepositoryInterface) *controllers.StripeWebhookController {
	return controllers.NewStripeWebhookController(repo, os.Getenv("STRIPE_WEBHOOK_SECRET"))
}
