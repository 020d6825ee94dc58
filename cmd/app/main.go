package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"giftwave/cmd/fx/checkout_fx"
	"giftwave/cmd/fx/db_fx"
	"giftwave/cmd/fx/gift_fx"
	"giftwave/internal/api/controllers"
	"giftwave/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	app := fx.New(
		db_fx.Module,
		gift_fx.Module,
		checkout_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	giftController *controllers.GiftController,
	checkoutController *controllers.CheckoutController,
	webhookController *controllers.StripeWebhookController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, giftController, checkoutController, webhookController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	giftController *controllers.GiftController,
	checkoutController *controllers.CheckoutController,
	webhookController *controllers.StripeWebhookController) {

	r.POST("/create-checkout-session", checkoutController.CreateCheckoutSession)
	r.POST("/stripe-webhook", webhookController.HandleStripeWebhook)

	gifts := r.Group("/gifts")
	gifts.Use(middleware.JWTAuthMiddleware())
	gifts.POST("/load-or-create", giftController.LoadOrCreate)
	gifts.PUT("/:token/card", giftController.SaveCardFace)
	gifts.PUT("/:token/amount", giftController.SetAmount)
	gifts.POST("/:token/memories", giftController.AddMemory)
	gifts.PUT("/:token/video", giftController.SetMessageVideo)
}
