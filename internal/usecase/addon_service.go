package usecase

import (
	"context"
	"fmt"

	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/billing"
	domainErrors "github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/errors"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/repository"
	"go.uber.org/zap"
)

// AddonService mutates the add-on line items of a user's subscription. The
// provider stays authoritative for line items; the local store is never
// touched here.
type AddonService struct {
	profileRepo repository.ProfileRepository
	gateway     billing.Gateway
	logger      *zap.Logger
}

// NewAddonService creates a new add-on ledger adjuster.
func NewAddonService(profileRepo repository.ProfileRepository, gateway billing.Gateway, logger *zap.Logger) *AddonService {
	return &AddonService{
		profileRepo: profileRepo,
		gateway:     gateway,
		logger:      logger,
	}
}

// Add creates a quantity-1 line item for the price on the user's existing
// subscription. Calling it twice creates two line items; dedupe is the
// caller's concern.
func (s *AddonService) Add(ctx context.Context, userID, priceID string) (*billing.SubscriptionItem, error) {
	subscriptionID, err := s.resolveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.gateway.AddSubscriptionItem(ctx, subscriptionID, priceID)
	if err != nil {
		return nil, fmt.Errorf("failed to add add-on: %w", err)
	}

	s.logger.Info("Add-on added",
		zap.String("user_id", userID),
		zap.String("subscription_id", subscriptionID),
		zap.String("item_id", item.ID),
		zap.String("price_id", priceID))

	return item, nil
}

// Remove deletes the line item matching the price from the user's
// subscription, or fails with ErrAddonNotFound when no item matches.
func (s *AddonService) Remove(ctx context.Context, userID, priceID string) error {
	subscriptionID, err := s.resolveSubscription(ctx, userID)
	if err != nil {
		return err
	}

	items, err := s.gateway.ListSubscriptionItems(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("failed to list subscription items: %w", err)
	}

	var target *billing.SubscriptionItem
	for _, item := range items {
		if item.PriceID == priceID {
			target = item
			break
		}
	}
	if target == nil {
		return domainErrors.ErrAddonNotFound
	}

	if err := s.gateway.RemoveSubscriptionItem(ctx, target.ID); err != nil {
		return fmt.Errorf("failed to remove add-on: %w", err)
	}

	s.logger.Info("Add-on removed",
		zap.String("user_id", userID),
		zap.String("subscription_id", subscriptionID),
		zap.String("item_id", target.ID),
		zap.String("price_id", priceID))

	return nil
}

// resolveSubscription requires the profile to already carry an active
// billing subscription reference. No side effects on failure.
func (s *AddonService) resolveSubscription(ctx context.Context, userID string) (string, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to look up profile: %w", err)
	}
	if profile == nil {
		return "", domainErrors.ErrProfileNotFound
	}
	if profile.StripeSubscriptionID == "" {
		return "", domainErrors.ErrNoActiveSubscription
	}
	return profile.StripeSubscriptionID, nil
}
