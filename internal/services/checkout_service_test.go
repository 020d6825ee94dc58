package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"giftwave/internal/models/db_models"
	"giftwave/internal/models/request_models"
	"giftwave/pkg/utils"
)

type fakeGiftRepo struct {
	designs map[string]*db_models.GiftDesign

	getCalls        int
	getErr          error
	createErr       error
	sessionErr      error
	lastSessionID   string
	lastSessionGift uuid.UUID

	// onGetByToken runs before each lookup so tests can simulate concurrent writers.
	onGetByToken func()
}

func newFakeGiftRepo() *fakeGiftRepo {
	return &fakeGiftRepo{designs: map[string]*db_models.GiftDesign{}}
}

func (f *fakeGiftRepo) add(design *db_models.GiftDesign) {
	f.designs[design.Token] = design
}

func (f *fakeGiftRepo) GetByToken(ctx context.Context, token string, userID uuid.UUID) (*db_models.GiftDesign, error) {
	if f.onGetByToken != nil {
		f.onGetByToken()
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	design, ok := f.designs[token]
	if !ok || design.UserID != userID {
		return nil, nil
	}
	return design, nil
}

func (f *fakeGiftRepo) Create(ctx context.Context, design *db_models.GiftDesign) error {
	if f.createErr != nil {
		return f.createErr
	}
	if design.ID == uuid.Nil {
		design.ID = uuid.New()
	}
	f.designs[design.Token] = design
	return nil
}

func (f *fakeGiftRepo) GetByIDAndToken(ctx context.Context, id uuid.UUID, token string) (*db_models.GiftDesign, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	design, ok := f.designs[token]
	if !ok || design.ID != id {
		return nil, nil
	}
	return design, nil
}

func (f *fakeGiftRepo) UpdateCardFace(ctx context.Context, token string, userID uuid.UUID, theme string, pattern string, stickers datatypes.JSON) error {
	return nil
}

func (f *fakeGiftRepo) UpdateAmount(ctx context.Context, token string, userID uuid.UUID, amount float64) error {
	return nil
}

func (f *fakeGiftRepo) AppendMemory(ctx context.Context, token string, userID uuid.UUID, memory db_models.Memory) error {
	return nil
}

func (f *fakeGiftRepo) UpdateMessageVideo(ctx context.Context, token string, userID uuid.UUID, videoURL string) error {
	return nil
}

func (f *fakeGiftRepo) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	if f.sessionErr != nil {
		return f.sessionErr
	}
	f.lastSessionGift = id
	f.lastSessionID = sessionID
	return nil
}

func (f *fakeGiftRepo) MarkPaidBySession(ctx context.Context, sessionID string) error {
	return nil
}

type fakeProvider struct {
	calls      int
	lastParams CheckoutSessionParams
	session    *CheckoutSession
	err        error
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	f.calls++
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func draftWithAmount(token string, amount float64) *db_models.GiftDesign {
	return &db_models.GiftDesign{
		ID:             uuid.New(),
		Token:          token,
		UserID:         uuid.New(),
		Status:         db_models.GiftStatusDraft,
		SelectedAmount: &amount,
	}
}

func TestCreateCheckoutSession_Success(t *testing.T) {
	repo := newFakeGiftRepo()
	design := draftWithAmount("abc123", 25.00)
	repo.add(design)

	provider := &fakeProvider{session: &CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.com/pay/cs_test_123"}}
	service := NewCheckoutService(repo, provider, "https://giftwave.app")

	url, err := service.CreateCheckoutSession(context.Background(), request_models.CreateCheckoutSessionRequest{
		GiftID: design.ID.String(),
		Amount: 25.00,
		Token:  "abc123",
	}, "https://cards.example.com")

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_123", url)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, int64(2500), provider.lastParams.AmountCents)
	assert.Equal(t, "https://cards.example.com/payment-success?session_id={CHECKOUT_SESSION_ID}&token=abc123", provider.lastParams.SuccessURL)
	assert.Equal(t, "https://cards.example.com/previewanimation?token=abc123", provider.lastParams.CancelURL)
	assert.NotEmpty(t, provider.lastParams.IdempotencyKey)

	assert.Equal(t, design.ID, repo.lastSessionGift)
	assert.Equal(t, "cs_test_123", repo.lastSessionID)
}

func TestCreateCheckoutSession_AmountMismatch(t *testing.T) {
	repo := newFakeGiftRepo()
	design := draftWithAmount("abc123", 25.00)
	repo.add(design)

	provider := &fakeProvider{session: &CheckoutSession{ID: "cs_x", URL: "https://x"}}
	service := NewCheckoutService(repo, provider, "https://giftwave.app")

	_, err := service.CreateCheckoutSession(context.Background(), request_models.CreateCheckoutSessionRequest{
		GiftID: design.ID.String(),
		Amount: 25.01,
		Token:  "abc123",
	}, "")

	assert.ErrorIs(t, err, utils.ErrAmountMismatch)
	assert.Equal(t, 0, provider.calls)
}

func TestCreateCheckoutSession_NoAmountSelected(t *testing.T) {
	repo := newFakeGiftRepo()
	design := &db_models.GiftDesign{ID: uuid.New(), Token: "abc123", UserID: uuid.New(), Status: db_models.GiftStatusDraft}
	repo.add(design)

	provider := &fakeProvider{}
	service := NewCheckoutService(repo, provider, "https://giftwave.app")

	_, err := service.CreateCheckoutSession(context.Background(), request_models.CreateCheckoutSessionRequest{
		GiftID: design.ID.String(),
		Amount: 25.00,
		Token:  "abc123",
	}, "")

	assert.ErrorIs(t, err, utils.ErrAmountMismatch)
	assert.Equal(t, 0, provider.calls)
}

func TestCreateCheckoutSession_InvalidParams(t *testing.T) {
	tests := []struct {
		name string
		req  request_models.CreateCheckoutSessionRequest
	}{
		{"missing gift id", request_models.CreateCheckoutSessionRequest{Amount: 25, Token: "abc123"}},
		{"missing token", request_models.CreateCheckoutSessionRequest{GiftID: uuid.New().String(), Amount: 25}},
		{"zero amount", request_models.CreateCheckoutSessionRequest{GiftID: uuid.New().String(), Amount: 0, Token: "abc123"}},
		{"negative amount", request_models.CreateCheckoutSessionRequest{GiftID: uuid.New().String(), Amount: -5, Token: "abc123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeGiftRepo()
			provider := &fakeProvider{}
			service := NewCheckoutService(repo, provider, "https://giftwave.app")

			_, err := service.CreateCheckoutSession(context.Background(), tt.req, "")

			assert.ErrorIs(t, err, utils.ErrInvalidCheckoutParams)
			assert.Equal(t, 0, repo.getCalls, "store must not be read for invalid requests")
			assert.Equal(t, 0, provider.calls, "provider must not be called for invalid requests")
		})
	}
}

func TestCreateCheckoutSession_NotFound(t *testing.T) {
	repo := newFakeGiftRepo()
	design := draftWithAmount("abc123", 25.00)
	repo.add(design)

	provider := &fakeProvider{}
	service := NewCheckoutService(repo, provider, "https://giftwave.app")

	t.Run("unknown id", func(t *testing.T) {
		_, err := service.CreateCheckoutSession(context.Background(), request_models.CreateCheckoutSessionRequest{
			GiftID: uuid.New().String(),
			Amount: 25.00,
			Token:  "abc123",
		}, "")
		assert.ErrorIs(t, err, utils.ErrGiftNotFound)
	})

	t.Run("wrong token for id", func(t *testing.T) {
		_, err := service.CreateCheckoutSession(context.Background(), request_models.CreateCheckoutSessionRequest{
			GiftID: design.ID.String(),
			Amount: 25.00,
			Token:  "guessed",
		}, "")
		assert.ErrorIs(t, err, utils.ErrGiftNotFound)
	})

	t.Run("unparseable id", func(t *testing.T) {
		_, err := service.CreateCheckoutSession(context.Background(), request_models.CreateCheckoutSessionRequest{
			GiftID: "not-a-uuid",
			Amount: 25.00,
			Token:  "abc123",
		}, "")
		assert.ErrorIs(t, err, utils.ErrGiftNotFound)
	})

	assert.Equal(t, 0, provider.calls, "provider must not be called when the draft is missing")
}

func TestCreateCheckoutSession_StoreErrorReadsAsNotFound(t *testing.T) {
	repo := newFakeGiftRepo()
	repo.getErr = errors.New("connection refused")

	provider := &fakeProvider{}
	service := NewCheckoutService(repo, provider, "https://giftwave.app")

	_, err := service.CreateCheckoutSession(context.Background(), request_models.CreateCheckoutSessionRequest{
		GiftID: uuid.New().String(),
		Amount: 25.00,
		Token:  "abc123",
	}, "")

	assert.ErrorIs(t, err, utils.ErrGiftNotFound)
	assert.Equal(t, 0, provider.calls)
}

func TestCreateCheckoutSession_BookkeepingFailureIsNonFatal(t *testing.T) {
	repo := newFakeGiftRepo()
	design := draftWithAmount("abc123", 40.00)
	repo.add(design)
	repo.sessionErr = errors.New("write timeout")

	provider := &fakeProvider{session: &CheckoutSession{ID: "cs_y", URL: "https://checkout.stripe.com/pay/cs_y"}}
	service := NewCheckoutService(repo, provider, "https://giftwave.app")

	url, err := service.CreateCheckoutSession(context.Background(), request_models.CreateCheckoutSessionRequest{
		GiftID: design.ID.String(),
		Amount: 40.00,
		Token:  "abc123",
	}, "")

	require.NoError(t, err, "the session exists at the provider; losing the bookkeeping write must not fail the call")
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_y", url)
}

func TestCreateCheckoutSession_ProviderError(t *testing.T) {
	repo := newFakeGiftRepo()
	design := draftWithAmount("abc123", 25.00)
	repo.add(design)

	provider := &fakeProvider{err: errors.New("stripe unavailable")}
	service := NewCheckoutService(repo, provider, "https://giftwave.app")

	_, err := service.CreateCheckoutSession(context.Background(), request_models.CreateCheckoutSessionRequest{
		GiftID: design.ID.String(),
		Amount: 25.00,
		Token:  "abc123",
	}, "")

	assert.Error(t, err)
	assert.Empty(t, repo.lastSessionID, "no session id must be recorded when the provider call fails")
}

func TestCreateCheckoutSession_OriginFallback(t *testing.T) {
	repo := newFakeGiftRepo()
	design := draftWithAmount("abc123", 10.00)
	repo.add(design)

	provider := &fakeProvider{session: &CheckoutSession{ID: "cs_z", URL: "https://z"}}
	service := NewCheckoutService(repo, provider, "https://giftwave.app")

	_, err := service.CreateCheckoutSession(context.Background(), request_models.CreateCheckoutSessionRequest{
		GiftID: design.ID.String(),
		Amount: 10.00,
		Token:  "abc123",
	}, "")

	require.NoError(t, err)
	assert.Equal(t, "https://giftwave.app/previewanimation?token=abc123", provider.lastParams.CancelURL)
}

func TestCreateCheckoutSession_RoundsCents(t *testing.T) {
	repo := newFakeGiftRepo()
	design := draftWithAmount("abc123", 10.555)
	repo.add(design)

	provider := &fakeProvider{session: &CheckoutSession{ID: "cs_r", URL: "https://r"}}
	service := NewCheckoutService(repo, provider, "https://giftwave.app")

	_, err := service.CreateCheckoutSession(context.Background(), request_models.CreateCheckoutSessionRequest{
		GiftID: design.ID.String(),
		Amount: 10.555,
		Token:  "abc123",
	}, "")

	require.NoError(t, err)
	assert.Equal(t, int64(1056), provider.lastParams.AmountCents, "cents are rounded, not truncated")
}
