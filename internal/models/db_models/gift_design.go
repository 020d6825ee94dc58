package db_models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GiftStatus string

const (
	GiftStatusDraft   GiftStatus = "draft"
	GiftStatusPending GiftStatus = "pending"
	GiftStatusPaid    GiftStatus = "paid"
)

// Rank orders the lifecycle. Status updates must never move to a lower rank.
func (s GiftStatus) Rank() int {
	switch s {
	case GiftStatusDraft:
		return 0
	case GiftStatusPending:
		return 1
	case GiftStatusPaid:
		return 2
	default:
		return -1
	}
}

type PatternType string

const (
	PatternDots  PatternType = "dots"
	PatternGrid  PatternType = "grid"
	PatternWaves PatternType = "waves"
	PatternNone  PatternType = "none"
)

func IsValidPattern(value string) bool {
	switch PatternType(value) {
	case PatternDots, PatternGrid, PatternWaves, PatternNone:
		return true
	}
	return false
}

// Sticker is one emoji placed on the front card. Coordinates are canvas-relative,
// rotation is degrees and intentionally unclamped.
type Sticker struct {
	ID       string  `json:"id"`
	Emoji    string  `json:"emoji"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// Memory is one photo/caption entry replayed inside the gift. Append-only from
// the editing client's perspective.
type Memory struct {
	ID       string    `json:"id"`
	ImageURL string    `json:"imageUrl,omitempty"`
	Caption  string    `json:"caption"`
	Date     time.Time `json:"date"`
}

// GiftDesign is the authoritative record of an in-progress gift. It is addressed
// by (token, user_id) for editing writes and by (id, token) at checkout time.
type GiftDesign struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Token  string     `gorm:"uniqueIndex;not null"`
	UserID uuid.UUID  `gorm:"type:uuid;index;not null"`
	Status GiftStatus `gorm:"default:'draft';index"`

	Theme             string
	FrontCardPattern  string
	FrontCardStickers datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	Memories          datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	MessageVideoURL   string
	SelectedAmount    *float64 `gorm:"type:decimal(10,2)"`

	StripeSessionID string `gorm:"index"`

	// Conflict diagnostics only, never used for conflict resolution.
	LastEditedAt int64

	CreatedAt int64 `gorm:"autoCreateTime"`
	UpdatedAt int64 `gorm:"autoUpdateTime"`
}

func (GiftDesign) TableName() string {
	return "gift_designs"
}

func (g *GiftDesign) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	now := time.Now().Unix()
	g.CreatedAt = now
	g.UpdatedAt = now
	return nil
}

func (g *GiftDesign) BeforeUpdate(tx *gorm.DB) error {
	g.UpdatedAt = time.Now().Unix()
	return nil
}

type rawSticker struct {
	ID       *string  `json:"id"`
	Emoji    *string  `json:"emoji"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Rotation *float64 `json:"rotation"`
}

// DecodeStickers turns the loosely-typed jsonb column into typed stickers.
// Entries missing any field or carrying wrong types are dropped; the second
// return value reports how many were dropped so callers can log it.
func DecodeStickers(raw datatypes.JSON) ([]Sticker, int) {
	if len(raw) == 0 {
		return nil, 0
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, 1
	}

	stickers := make([]Sticker, 0, len(elements))
	dropped := 0
	for _, element := range elements {
		var rs rawSticker
		if err := json.Unmarshal(element, &rs); err != nil {
			dropped++
			continue
		}
		if rs.ID == nil || rs.Emoji == nil || rs.X == nil || rs.Y == nil || rs.Rotation == nil {
			dropped++
			continue
		}
		stickers = append(stickers, Sticker{
			ID:       *rs.ID,
			Emoji:    *rs.Emoji,
			X:        *rs.X,
			Y:        *rs.Y,
			Rotation: *rs.Rotation,
		})
	}
	return stickers, dropped
}

type rawMemory struct {
	ID       *string    `json:"id"`
	ImageURL string     `json:"imageUrl"`
	Caption  *string    `json:"caption"`
	Date     *time.Time `json:"date"`
}

// DecodeMemories mirrors DecodeStickers for the memories column. ImageURL is
// optional, everything else is required.
func DecodeMemories(raw datatypes.JSON) ([]Memory, int) {
	if len(raw) == 0 {
		return nil, 0
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, 1
	}

	memories := make([]Memory, 0, len(elements))
	dropped := 0
	for _, element := range elements {
		var rm rawMemory
		if err := json.Unmarshal(element, &rm); err != nil {
			dropped++
			continue
		}
		if rm.ID == nil || rm.Caption == nil || rm.Date == nil {
			dropped++
			continue
		}
		memories = append(memories, Memory{
			ID:       *rm.ID,
			ImageURL: rm.ImageURL,
			Caption:  *rm.Caption,
			Date:     *rm.Date,
		})
	}
	return memories, dropped
}

// SanitizedPattern returns the stored pattern if it is one of the known values,
// empty string otherwise. Unknown values must not leak into rendering.
func (g *GiftDesign) SanitizedPattern() string {
	if IsValidPattern(g.FrontCardPattern) {
		return g.FrontCardPattern
	}
	return ""
}
