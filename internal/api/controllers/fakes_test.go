package controllers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"giftwave/internal/models/db_models"
	"giftwave/internal/services"
)

// fakeCheckoutRepo holds exactly one draft, addressed the way the checkout
// path addresses it.
type fakeCheckoutRepo struct {
	design    *db_models.GiftDesign
	sessionID string
}

func newFakeCheckoutRepo(token string, amount float64) *fakeCheckoutRepo {
	return &fakeCheckoutRepo{
		design: &db_models.GiftDesign{
			ID:             uuid.New(),
			Token:          token,
			UserID:         uuid.New(),
			Status:         db_models.GiftStatusDraft,
			SelectedAmount: &amount,
		},
	}
}

func (f *fakeCheckoutRepo) id() string {
	return f.design.ID.String()
}

func (f *fakeCheckoutRepo) GetByToken(ctx context.Context, token string, userID uuid.UUID) (*db_models.GiftDesign, error) {
	if f.design.Token == token && f.design.UserID == userID {
		return f.design, nil
	}
	return nil, nil
}

func (f *fakeCheckoutRepo) Create(ctx context.Context, design *db_models.GiftDesign) error {
	return nil
}

func (f *fakeCheckoutRepo) GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*db_models.GiftDesign, error) {
	if f.design.ID == id && f.design.Token == token {
		return f.design, nil
	}
	return nil, nil
}

func (f *fakeCheckoutRepo) UpdateCardFace(ctx context.Context, token string, userID uuid.UUID, theme string, pattern string, stickers datatypes.JSON) error {
	return nil
}

func (f *fakeCheckoutRepo) UpdateAmount(ctx context.Context, token string, userID uuid.UUID, amount float64) error {
	return nil
}

func (f *fakeCheckoutRepo) AppendMemory(ctx context.Context, token string, userID uuid.UUID, memory db_models.Memory) error {
	return nil
}

func (f *fakeCheckoutRepo) UpdateMessageVideo(ctx context.Context, token string, userID uuid.UUID, videoURL string) error {
	return nil
}

func (f *fakeCheckoutRepo) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	f.sessionID = sessionID
	return nil
}

func (f *fakeCheckoutRepo) MarkPaidBySession(ctx context.Context, sessionID string) error {
	return nil
}

type staticProvider struct {
	url string
}

func (p *staticProvider) CreateCheckoutSession(ctx context.Context, params services.CheckoutSessionParams) (*services.CheckoutSession, error) {
	return &services.CheckoutSession{ID: "cs_static", URL: p.url}, nil
}
