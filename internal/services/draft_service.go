package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"giftwave/internal/models/db_models"
	"giftwave/internal/models/response_models"
	"giftwave/internal/repositories"
	"giftwave/pkg/utils"
)

// CardFaceSnapshot is the editable front-card state pushed by the autosaver.
// Only the last snapshot within a quiet period reaches the store.
type CardFaceSnapshot struct {
	Theme    string
	Pattern  db_models.PatternType
	Stickers []db_models.Sticker
}

type DraftServiceInterface interface {
	// LoadOrCreate finds the caller's draft under token, creating it on first
	// access. Repeated calls with the same (token, owner) return the same row.
	LoadOrCreate(ctx context.Context, token string, userID uuid.UUID) (*response_models.GiftDesignResponse, error)
	SaveCardFace(ctx context.Context, token string, userID uuid.UUID, snapshot CardFaceSnapshot) error
	SetAmount(ctx context.Context, token string, userID uuid.UUID, amount float64) error
	AddMemory(ctx context.Context, token string, userID uuid.UUID, memory db_models.Memory) (db_models.Memory, error)
	SetMessageVideo(ctx context.Context, token string, userID uuid.UUID, videoURL string) error
}

type DraftService struct {
	repo repositories.GiftDesignRepositoryInterface
}

func NewDraftService(repo repositories.GiftDesignRepositoryInterface) DraftServiceInterface {
	return &DraftService{repo: repo}
}

func (s *DraftService) LoadOrCreate(ctx context.Context, token string, userID uuid.UUID) (*response_models.GiftDesignResponse, error) {
	if userID == uuid.Nil {
		return nil, utils.ErrNotAuthenticated
	}
	if token == "" {
		return nil, utils.ErrDraftNotFound
	}

	design, err := s.repo.GetByToken(ctx, token, userID)
	if err != nil {
		return nil, utils.ErrStoreUnavailable
	}
	if design != nil {
		return s.sanitize(design), nil
	}

	design = &db_models.GiftDesign{
		Token:  token,
		UserID: userID,
		Status: db_models.GiftStatusDraft,
	}
	err = s.repo.Create(ctx, design)
	if err != nil {
		// The token column is unique. Losing the insert race means the row
		// exists now; re-fetch it instead of failing the load.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			design, err = s.repo.GetByToken(ctx, token, userID)
			if err != nil || design == nil {
				return nil, utils.ErrStoreUnavailable
			}
			return s.sanitize(design), nil
		}
		return nil, utils.ErrStoreUnavailable
	}

	return s.sanitize(design), nil
}

func (s *DraftService) SaveCardFace(ctx context.Context, token string, userID uuid.UUID, snapshot CardFaceSnapshot) error {
	if userID == uuid.Nil {
		return utils.ErrNotAuthenticated
	}

	encoded, err := json.Marshal(snapshot.Stickers)
	if err != nil {
		return err
	}

	err = s.repo.UpdateCardFace(ctx, token, userID, snapshot.Theme, string(snapshot.Pattern), datatypes.JSON(encoded))
	if err != nil {
		return utils.ErrStoreUnavailable
	}
	return nil
}

func (s *DraftService) SetAmount(ctx context.Context, token string, userID uuid.UUID, amount float64) error {
	if userID == uuid.Nil {
		return utils.ErrNotAuthenticated
	}
	if amount <= 0 {
		return utils.ErrInvalidCheckoutParams
	}

	err := s.repo.UpdateAmount(ctx, token, userID, amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrDraftNotFound
		}
		return utils.ErrStoreUnavailable
	}
	return nil
}

func (s *DraftService) AddMemory(ctx context.Context, token string, userID uuid.UUID, memory db_models.Memory) (db_models.Memory, error) {
	if userID == uuid.Nil {
		return db_models.Memory{}, utils.ErrNotAuthenticated
	}

	if memory.ID == "" {
		memory.ID = uuid.New().String()
	}
	if memory.Date.IsZero() {
		memory.Date = time.Now()
	}

	err := s.repo.AppendMemory(ctx, token, userID, memory)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db_models.Memory{}, utils.ErrDraftNotFound
		}
		return db_models.Memory{}, utils.ErrStoreUnavailable
	}
	return memory, nil
}

func (s *DraftService) SetMessageVideo(ctx context.Context, token string, userID uuid.UUID, videoURL string) error {
	if userID == uuid.Nil {
		return utils.ErrNotAuthenticated
	}

	err := s.repo.UpdateMessageVideo(ctx, token, userID, videoURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrDraftNotFound
		}
		return utils.ErrStoreUnavailable
	}
	return nil
}

// sanitize is the single shape-validation boundary between the loosely-typed
// stored columns and the typed response. Malformed entries are dropped, and the
// drop is logged rather than silently ignored.
func (s *DraftService) sanitize(design *db_models.GiftDesign) *response_models.GiftDesignResponse {
	stickers, droppedStickers := db_models.DecodeStickers(design.FrontCardStickers)
	memories, droppedMemories := db_models.DecodeMemories(design.Memories)
	if droppedStickers > 0 || droppedMemories > 0 {
		log.Printf("Dropped malformed entries from draft %s: stickers=%d memories=%d",
			design.ID, droppedStickers, droppedMemories)
	}

	if stickers == nil {
		stickers = []db_models.Sticker{}
	}
	if memories == nil {
		memories = []db_models.Memory{}
	}

	return &response_models.GiftDesignResponse{
		ID:              design.ID.String(),
		Token:           design.Token,
		Status:          string(design.Status),
		Theme:           design.Theme,
		Pattern:         design.SanitizedPattern(),
		Stickers:        stickers,
		Memories:        memories,
		MessageVideoURL: design.MessageVideoURL,
		SelectedAmount:  design.SelectedAmount,
		StripeSessionID: design.StripeSessionID,
		LastEditedAt:    design.LastEditedAt,
	}
}
