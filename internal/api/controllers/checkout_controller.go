package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"giftwave/internal/models/request_models"
	"giftwave/internal/models/response_models"
	"giftwave/internal/services"
	"giftwave/pkg/utils"
)

type CheckoutController struct {
	checkoutService services.CheckoutServiceInterface
}

func NewCheckoutController(checkoutService services.CheckoutServiceInterface) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

// CreateCheckoutSession godoc
// @Summary Create a payment checkout session for a gift draft
// @Description Verifies the claimed amount against the stored draft, then mints a provider checkout session
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body request_models.CreateCheckoutSessionRequest true "Checkout payload"
// @Success 200 {object} response_models.CreateCheckoutSessionResponse
// @Router /create-checkout-session [post]
func (cc *CheckoutController) CreateCheckoutSession(c *gin.Context) {
	var req request_models.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	log.Printf("Processing checkout for gift: id=%s amount=%v token=%s", req.GiftID, req.Amount, req.Token)

	url, err := cc.checkoutService.CreateCheckoutSession(c.Request.Context(), req, c.GetHeader("Origin"))
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidCheckoutParams),
			errors.Is(err, utils.ErrGiftNotFound),
			errors.Is(err, utils.ErrAmountMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("Checkout error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create checkout session"})
		}
		return
	}

	c.JSON(http.StatusOK, response_models.CreateCheckoutSessionResponse{URL: url})
}
