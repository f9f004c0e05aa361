package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/model"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/repository"
	"go.uber.org/zap"
)

// Billing provider event types the reconciler recognizes.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventSubscriptionUpdated      = "customer.subscription.updated"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
	EventInvoicePaid              = "invoice.paid"
	EventInvoicePaymentFailed     = "invoice.payment_failed"
)

// ProviderEvent is the parsed webhook envelope handed to the reconciler.
type ProviderEvent struct {
	ID   string
	Type string
	Data json.RawMessage
}

// Reconciler maps billing provider events onto the stored subscription
// status. All writes are absolute, never deltas, so replaying an event
// converges to the same stored state.
type Reconciler struct {
	profileRepo repository.ProfileRepository
	logger      *zap.Logger
}

// NewReconciler creates a new subscription state reconciler.
func NewReconciler(profileRepo repository.ProfileRepository, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// checkoutSessionPayload is the slice of a checkout session this service
// reads. Decoding is strict about the fields it needs; nothing is inspected
// field-by-field off a generic map.
type checkoutSessionPayload struct {
	ID                string `json:"id"`
	ClientReferenceID string `json:"client_reference_id"`
	Customer          string `json:"customer"`
	Subscription      string `json:"subscription"`
	Mode              string `json:"mode"`
}

type subscriptionPayload struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
}

type invoicePayload struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
}

// Process applies one provider event to the local store. Unrecognized event
// types and events without a matching profile are no-ops, not errors.
func (r *Reconciler) Process(ctx context.Context, event *ProviderEvent) error {
	switch event.Type {
	case EventCheckoutSessionCompleted:
		return r.handleCheckoutCompleted(ctx, event)

	case EventSubscriptionUpdated:
		var payload subscriptionPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return fmt.Errorf("failed to parse subscription payload: %w", err)
		}
		return r.writeStatusForCustomer(ctx, event, payload.Customer, statusFromProvider(payload.Status))

	case EventSubscriptionDeleted:
		var payload subscriptionPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return fmt.Errorf("failed to parse subscription payload: %w", err)
		}
		return r.writeStatusForCustomer(ctx, event, payload.Customer, model.SubscriptionStatusCancelled)

	case EventInvoicePaid:
		var payload invoicePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return fmt.Errorf("failed to parse invoice payload: %w", err)
		}
		return r.writeStatusForCustomer(ctx, event, payload.Customer, model.SubscriptionStatusActive)

	case EventInvoicePaymentFailed:
		var payload invoicePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return fmt.Errorf("failed to parse invoice payload: %w", err)
		}
		return r.writeStatusForCustomer(ctx, event, payload.Customer, model.SubscriptionStatusExpired)

	default:
		r.logger.Debug("Ignoring unrecognized event type",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type))
		return nil
	}
}

func (r *Reconciler) handleCheckoutCompleted(ctx context.Context, event *ProviderEvent) error {
	var payload checkoutSessionPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("failed to parse checkout session payload: %w", err)
	}

	if payload.ClientReferenceID == "" {
		r.logger.Warn("Checkout session completed without client reference",
			zap.String("event_id", event.ID),
			zap.String("session_id", payload.ID))
		return nil
	}

	profile, err := r.profileRepo.GetByUserID(ctx, payload.ClientReferenceID)
	if err != nil {
		return fmt.Errorf("failed to look up profile: %w", err)
	}
	if profile == nil {
		// Nothing to reconcile.
		r.logger.Warn("No profile for checkout session",
			zap.String("event_id", event.ID),
			zap.String("user_id", payload.ClientReferenceID))
		return nil
	}

	if err := r.profileRepo.SetBillingRefs(ctx,
		profile.UserID,
		payload.Customer,
		payload.Subscription,
		model.SubscriptionStatusActive,
	); err != nil {
		return fmt.Errorf("failed to store billing references: %w", err)
	}

	r.logger.Info("Checkout completed, profile activated",
		zap.String("event_id", event.ID),
		zap.String("user_id", profile.UserID),
		zap.String("customer_id", payload.Customer),
		zap.String("subscription_id", payload.Subscription))

	return nil
}

func (r *Reconciler) writeStatusForCustomer(ctx context.Context, event *ProviderEvent, customerID string, status model.SubscriptionStatus) error {
	if customerID == "" {
		return fmt.Errorf("event %s carries no customer reference", event.ID)
	}

	profile, err := r.profileRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to look up profile: %w", err)
	}
	if profile == nil {
		// Nothing to reconcile.
		r.logger.Info("No profile for customer, skipping event",
			zap.String("event_id", event.ID),
			zap.String("customer_id", customerID))
		return nil
	}

	if err := r.profileRepo.UpdateStatus(ctx, profile.UserID, status); err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}

	r.logger.Info("Subscription status reconciled",
		zap.String("event_id", event.ID),
		zap.String("type", event.Type),
		zap.String("user_id", profile.UserID),
		zap.String("status", string(status)))

	return nil
}

// statusFromProvider maps a provider subscription status onto the local
// enum. Anything that is neither active nor canceled counts as expired.
func statusFromProvider(providerStatus string) model.SubscriptionStatus {
	switch providerStatus {
	case "active":
		return model.SubscriptionStatusActive
	case "canceled":
		return model.SubscriptionStatusCancelled
	default:
		return model.SubscriptionStatusExpired
	}
}
