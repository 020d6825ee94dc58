package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"giftwave/internal/models/db_models"
	"giftwave/internal/models/request_models"
	"giftwave/internal/services"
	"giftwave/pkg/utils"
)

type GiftController struct {
	draftService services.DraftServiceInterface
}

func NewGiftController(draftService services.DraftServiceInterface) *GiftController {
	return &GiftController{
		draftService: draftService,
	}
}

func (g *GiftController) currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}

// LoadOrCreate godoc
// @Summary Load the caller's gift draft by token, creating it on first access
// @Tags Gifts
// @Accept json
// @Produce json
// @Param request body request_models.LoadOrCreateGiftRequest true "Draft token"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /gifts/load-or-create [post]
func (g *GiftController) LoadOrCreate(c *gin.Context) {
	var req request_models.LoadOrCreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	userID, ok := g.currentUser(c)
	if !ok {
		return
	}

	draft, err := g.draftService.LoadOrCreate(c.Request.Context(), req.Token, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, draft, "Draft loaded")
}

// SaveCardFace persists the front-card state. Editing clients debounce these
// writes; the endpoint itself just applies the snapshot it is given.
func (g *GiftController) SaveCardFace(c *gin.Context) {
	var req request_models.SaveCardFaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	userID, ok := g.currentUser(c)
	if !ok {
		return
	}

	stickers := make([]db_models.Sticker, 0, len(req.Stickers))
	for _, s := range req.Stickers {
		stickers = append(stickers, db_models.Sticker{
			ID:       s.ID,
			Emoji:    s.Emoji,
			X:        s.X,
			Y:        s.Y,
			Rotation: s.Rotation,
		})
	}

	pattern := db_models.PatternType("")
	if db_models.IsValidPattern(req.Pattern) {
		pattern = db_models.PatternType(req.Pattern)
	}

	err := g.draftService.SaveCardFace(c.Request.Context(), c.Param("token"), userID, services.CardFaceSnapshot{
		Theme:    req.Theme,
		Pattern:  pattern,
		Stickers: stickers,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Card saved")
}

// SetAmount godoc
// @Summary Set the gift's monetary amount
// @Tags Gifts
// @Accept json
// @Produce json
// @Param request body request_models.SetAmountRequest true "Amount payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /gifts/{token}/amount [put]
func (g *GiftController) SetAmount(c *gin.Context) {
	var req request_models.SetAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Amount must be greater than 0")
		return
	}

	userID, ok := g.currentUser(c)
	if !ok {
		return
	}

	if err := g.draftService.SetAmount(c.Request.Context(), c.Param("token"), userID, req.Amount); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"amount": req.Amount}, "Amount saved")
}

func (g *GiftController) AddMemory(c *gin.Context) {
	var req request_models.AddMemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	userID, ok := g.currentUser(c)
	if !ok {
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Date must be RFC3339")
		return
	}

	memory, err := g.draftService.AddMemory(c.Request.Context(), c.Param("token"), userID, db_models.Memory{
		ImageURL: req.ImageURL,
		Caption:  req.Caption,
		Date:     date,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, memory, "Memory added")
}

func (g *GiftController) SetMessageVideo(c *gin.Context) {
	var req request_models.SetMessageVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	userID, ok := g.currentUser(c)
	if !ok {
		return
	}

	if err := g.draftService.SetMessageVideo(c.Request.Context(), c.Param("token"), userID, req.VideoURL); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Video saved")
}
