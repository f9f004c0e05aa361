package model

import "time"

// SubscriptionStatus is the local subscription status stored on a profile.
type SubscriptionStatus string

const (
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// IsValid reports whether the status is one of the known values.
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusTrial, SubscriptionStatusActive,
		SubscriptionStatusCancelled, SubscriptionStatusExpired:
		return true
	}
	return false
}

// SubscriberProfile is the profile row kept in Supabase. This service never
// owns or deletes these rows; it only reads them and overwrites the billing
// fields with absolute values.
type SubscriberProfile struct {
	UserID               string             `json:"user_id"`
	Email                string             `json:"email,omitempty"`
	SubscriptionStatus   SubscriptionStatus `json:"subscription_status"`
	StripeCustomerID     string             `json:"stripe_customer_id"`
	StripeSubscriptionID string             `json:"stripe_subscription_id"`
	TrialEndsAt          *time.Time         `json:"trial_ends_at,omitempty"`
	ExtraUsageCount      int                `json:"extra_usage_count"`
}
