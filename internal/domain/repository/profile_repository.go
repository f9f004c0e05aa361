package repository

import (
	"context"

	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/model"
)

// ProfileRepository reads and writes subscriber profiles in the external
// relational store. Lookups that find nothing return (nil, nil) so callers
// can distinguish "nothing to reconcile" from a failed read.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.SubscriberProfile, error)
	GetByCustomerID(ctx context.Context, customerID string) (*model.SubscriberProfile, error)

	// FirstWithCustomerRef returns the first profile holding any billing
	// customer reference. Operator-only maintenance fallback.
	FirstWithCustomerRef(ctx context.Context) (*model.SubscriberProfile, error)

	// SetBillingRefs overwrites the billing customer and subscription
	// references together with the status. Absolute write, safe to replay.
	SetBillingRefs(ctx context.Context, userID, customerID, subscriptionID string, status model.SubscriptionStatus) error

	// UpdateStatus overwrites the subscription status. Absolute write.
	UpdateStatus(ctx context.Context, userID string, status model.SubscriptionStatus) error

	// ResetExtraUsage zeroes the extra-usage counter.
	ResetExtraUsage(ctx context.Context, userID string) error
}
