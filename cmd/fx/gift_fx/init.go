package gift_fx

import (
	"go.uber.org/fx"

	"giftwave/internal/api/controllers"
	"giftwave/internal/repositories"
	"giftwave/internal/services"
)

var Module = fx.Options(
	fx.Provide(repositories.NewGiftDesignRepository),
	fx.Provide(services.NewDraftService),
	fx.Provide(controllers.NewGiftController),
)
