package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"giftwave/internal/models/db_models"
)

type GiftDesignRepositoryInterface interface {
	// GetByToken returns (nil, nil) on a clean miss so callers can distinguish
	// "no row yet" from a store failure.
	GetByToken(ctx context.Context, token string, userID uuid.UUID) (*db_models.GiftDesign, error)
	Create(ctx context.Context, design *db_models.GiftDesign) error
	GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*db_models.GiftDesign, error)
	UpdateCardFace(ctx context.Context, token string, userID uuid.UUID, theme string, pattern string, stickers datatypes.JSON) error
	UpdateAmount(ctx context.Context, token string, userID uuid.UUID, amount float64) error
	AppendMemory(ctx context.Context, token string, userID uuid.UUID, memory db_models.Memory) error
	UpdateMessageVideo(ctx context.Context, token string, userID uuid.UUID, videoURL string) error
	SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error
	MarkPaidBySession(ctx context.Context, sessionID string) error
}

func NewGiftDesignRepository(db *gorm.DB) GiftDesignRepositoryInterface {
	return &GiftDesignRepository{db: db}
}

type GiftDesignRepository struct {
	db *gorm.DB
}

func (r *GiftDesignRepository) GetByToken(ctx context.Context, token string, userID uuid.UUID) (*db_models.GiftDesign, error) {
	var design db_models.GiftDesign
	err := r.db.WithContext(ctx).
		Where("token = ? AND user_id = ?", token, userID).
		First(&design).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &design, nil
}

func (r *GiftDesignRepository) Create(ctx context.Context, design *db_models.GiftDesign) error {
	return r.db.WithContext(ctx).Create(design).Error
}

func (r *GiftDesignRepository) GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*db_models.GiftDesign, error) {
	var design db_models.GiftDesign
	err := r.db.WithContext(ctx).
		Where("id = ? AND token = ?", id, token).
		First(&design).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &design, nil
}

// UpdateCardFace is the debounced autosave write. Scoping by (token, user_id)
// keeps one account from overwriting another account's draft under the same token.
func (r *GiftDesignRepository) UpdateCardFace(ctx context.Context, token string, userID uuid.UUID, theme string, pattern string, stickers datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&db_models.GiftDesign{}).
		Where("token = ? AND user_id = ?", token, userID).
		Updates(map[string]interface{}{
			"theme":               theme,
			"front_card_pattern":  pattern,
			"front_card_stickers": stickers,
			"last_edited_at":      time.Now().Unix(),
		}).Error
}

func (r *GiftDesignRepository) UpdateAmount(ctx context.Context, token string, userID uuid.UUID, amount float64) error {
	return r.updateEditable(ctx, token, userID, map[string]interface{}{
		"selected_amount": amount,
		"last_edited_at":  time.Now().Unix(),
	})
}

func (r *GiftDesignRepository) UpdateMessageVideo(ctx context.Context, token string, userID uuid.UUID, videoURL string) error {
	return r.updateEditable(ctx, token, userID, map[string]interface{}{
		"message_video_url": videoURL,
		"last_edited_at":    time.Now().Unix(),
	})
}

func (r *GiftDesignRepository) updateEditable(ctx context.Context, token string, userID uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&db_models.GiftDesign{}).
		Where("token = ? AND user_id = ?", token, userID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AppendMemory re-reads and rewrites the memories column inside one DB
// transaction. Memories are append-only; existing entries are never touched.
func (r *GiftDesignRepository) AppendMemory(ctx context.Context, token string, userID uuid.UUID, memory db_models.Memory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var design db_models.GiftDesign
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ? AND user_id = ?", token, userID).
			First(&design).Error; err != nil {
			return err
		}

		memories, _ := db_models.DecodeMemories(design.Memories)
		memories = append(memories, memory)

		encoded, err := json.Marshal(memories)
		if err != nil {
			return err
		}

		return tx.Model(&design).Updates(map[string]interface{}{
			"memories":       datatypes.JSON(encoded),
			"last_edited_at": time.Now().Unix(),
		}).Error
	})
}

// SetCheckoutSession records provider bookkeeping after a session was minted.
// A retried checkout may overwrite the previous session id (last writer wins),
// but a paid draft is terminal and is never touched again.
func (r *GiftDesignRepository) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.GiftDesign{}).
		Where("id = ? AND status <> ?", id, db_models.GiftStatusPaid).
		Updates(map[string]interface{}{
			"stripe_session_id": sessionID,
			"status":            db_models.GiftStatusPending,
		}).Error
}

func (r *GiftDesignRepository) MarkPaidBySession(ctx context.Context, sessionID string) error {
	result := r.db.WithContext(ctx).
		Model(&db_models.GiftDesign{}).
		Where("stripe_session_id = ? AND status <> ?", sessionID, db_models.GiftStatusPaid).
		Update("status", db_models.GiftStatusPaid)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
