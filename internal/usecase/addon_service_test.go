package usecase

import (
	"context"
	"testing"

	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/billing"
	domainErrors "github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/errors"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func activeProfile() *model.SubscriberProfile {
	return &model.SubscriberProfile{
		UserID:               "user-123",
		StripeCustomerID:     "cus_123",
		StripeSubscriptionID: "sub_1",
		SubscriptionStatus:   model.SubscriptionStatusActive,
	}
}

func TestAddonService_Add(t *testing.T) {
	logger := zap.NewNop()

	t.Run("adds a quantity-1 line item", func(t *testing.T) {
		mockRepo := new(MockProfileRepository)
		mockRepo.On("GetByUserID", mock.Anything, "user-123").Return(activeProfile(), nil)

		mockGateway := new(MockGateway)
		mockGateway.On("AddSubscriptionItem", mock.Anything, "sub_1", "price_ADDON_A").
			Return(&billing.SubscriptionItem{ID: "si_9", PriceID: "price_ADDON_A", Quantity: 1}, nil)

		service := NewAddonService(mockRepo, mockGateway, logger)

		item, err := service.Add(context.Background(), "user-123", "price_ADDON_A")

		assert.NoError(t, err)
		assert.Equal(t, "si_9", item.ID)
		mockGateway.AssertExpectations(t)
	})

	t.Run("fails without active subscription and has no side effects", func(t *testing.T) {
		mockRepo := new(MockProfileRepository)
		mockRepo.On("GetByUserID", mock.Anything, "user-123").
			Return(&model.SubscriberProfile{UserID: "user-123"}, nil)

		mockGateway := new(MockGateway)

		service := NewAddonService(mockRepo, mockGateway, logger)

		_, err := service.Add(context.Background(), "user-123", "price_ADDON_A")

		assert.ErrorIs(t, err, domainErrors.ErrNoActiveSubscription)
		mockGateway.AssertNotCalled(t, "AddSubscriptionItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fails when profile is missing", func(t *testing.T) {
		mockRepo := new(MockProfileRepository)
		mockRepo.On("GetByUserID", mock.Anything, "user-404").Return(nil, nil)

		service := NewAddonService(mockRepo, new(MockGateway), logger)

		_, err := service.Add(context.Background(), "user-404", "price_ADDON_A")

		assert.ErrorIs(t, err, domainErrors.ErrProfileNotFound)
	})
}

func TestAddonService_Remove(t *testing.T) {
	logger := zap.NewNop()

	items := []*billing.SubscriptionItem{
		{ID: "si_1", PriceID: "price_BASE", Quantity: 1},
		{ID: "si_2", PriceID: "price_ADDON_A", Quantity: 1},
	}

	t.Run("removes the matching line item", func(t *testing.T) {
		mockRepo := new(MockProfileRepository)
		mockRepo.On("GetByUserID", mock.Anything, "user-123").Return(activeProfile(), nil)

		mockGateway := new(MockGateway)
		mockGateway.On("ListSubscriptionItems", mock.Anything, "sub_1").Return(items, nil)
		mockGateway.On("RemoveSubscriptionItem", mock.Anything, "si_2").Return(nil)

		service := NewAddonService(mockRepo, mockGateway, logger)

		err := service.Remove(context.Background(), "user-123", "price_ADDON_A")

		assert.NoError(t, err)
		mockGateway.AssertExpectations(t)
	})

	t.Run("unknown price leaves line items unchanged", func(t *testing.T) {
		mockRepo := new(MockProfileRepository)
		mockRepo.On("GetByUserID", mock.Anything, "user-123").Return(activeProfile(), nil)

		mockGateway := new(MockGateway)
		mockGateway.On("ListSubscriptionItems", mock.Anything, "sub_1").Return(items, nil)

		service := NewAddonService(mockRepo, mockGateway, logger)

		err := service.Remove(context.Background(), "user-123", "price_UNKNOWN")

		assert.ErrorIs(t, err, domainErrors.ErrAddonNotFound)
		mockGateway.AssertNotCalled(t, "RemoveSubscriptionItem", mock.Anything, mock.Anything)
	})
}

// fakeItemGateway keeps subscription items in memory so add-then-remove can
// be checked end to end.
type fakeItemGateway struct {
	MockGateway
	items []*billing.SubscriptionItem
}

func (f *fakeItemGateway) AddSubscriptionItem(ctx context.Context, subscriptionID, priceID string) (*billing.SubscriptionItem, error) {
	item := &billing.SubscriptionItem{ID: "si_fake_" + priceID, PriceID: priceID, Quantity: 1}
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeItemGateway) ListSubscriptionItems(ctx context.Context, subscriptionID string) ([]*billing.SubscriptionItem, error) {
	out := make([]*billing.SubscriptionItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeItemGateway) RemoveSubscriptionItem(ctx context.Context, itemID string) error {
	for i, item := range f.items {
		if item.ID == itemID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrAddonNotFound
}

func TestAddonService_AddThenRemoveIsNetZero(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	mockRepo.On("GetByUserID", mock.Anything, "user-123").Return(activeProfile(), nil)

	gateway := &fakeItemGateway{
		items: []*billing.SubscriptionItem{
			{ID: "si_1", PriceID: "price_BASE", Quantity: 1},
		},
	}

	service := NewAddonService(mockRepo, gateway, zap.NewNop())
	ctx := context.Background()

	before := len(gateway.items)

	_, err := service.Add(ctx, "user-123", "price_ADDON_A")
	assert.NoError(t, err)
	assert.Len(t, gateway.items, before+1)

	err = service.Remove(ctx, "user-123", "price_ADDON_A")
	assert.NoError(t, err)

	assert.Len(t, gateway.items, before)
	assert.Equal(t, "si_1", gateway.items[0].ID)
}
