package usecase

import (
	"context"
	"fmt"

	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/config"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/billing"
	domainErrors "github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/errors"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SweepRequest selects the target customer and options for a cleanup sweep.
type SweepRequest struct {
	CustomerID string
	UserID     string
	RefundAll  bool

	// AllowFallback permits resolving an arbitrary profile when neither
	// CustomerID nor UserID is given. Operator-only.
	AllowFallback bool
}

// RemovedItem records the outcome of one line-item deletion.
type RemovedItem struct {
	ItemID  string `json:"itemId"`
	PriceID string `json:"priceId"`
	Removed bool   `json:"removed"`
	Error   string `json:"error,omitempty"`
}

// RefundResult records the outcome of one invoice refund.
type RefundResult struct {
	InvoiceID string          `json:"invoiceId"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	RefundID  string          `json:"refundId,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// SweepReport is the per-step outcome of a cleanup sweep.
type SweepReport struct {
	CustomerID     string         `json:"customerId"`
	SubscriptionID string         `json:"subscriptionId"`
	TotalItems     int            `json:"totalItems"`
	RemovedItems   []RemovedItem  `json:"removedItems"`
	Refunds        []RefundResult `json:"refunds"`
	UsageReset     bool           `json:"usageReset"`
}

// SweepService strips every non-base-plan line item from a customer's
// subscription and optionally refunds non-initial paid invoices. It is a
// diagnostic/repair tool: each step is independently fault tolerant and
// there is no rollback.
type SweepService struct {
	profileRepo repository.ProfileRepository
	gateway     billing.Gateway
	stripeCfg   *config.StripeConfig
	logger      *zap.Logger
}

// NewSweepService creates a new cleanup/refund sweep.
func NewSweepService(profileRepo repository.ProfileRepository, gateway billing.Gateway, stripeCfg *config.StripeConfig, logger *zap.Logger) *SweepService {
	return &SweepService{
		profileRepo: profileRepo,
		gateway:     gateway,
		stripeCfg:   stripeCfg,
		logger:      logger,
	}
}

// Run executes the sweep for the resolved customer.
func (s *SweepService) Run(ctx context.Context, req *SweepRequest) (*SweepReport, error) {
	customerID, userID, err := s.resolveTarget(ctx, req)
	if err != nil {
		return nil, err
	}

	sub, err := s.gateway.FindActiveSubscription(ctx, customerID)
	if err != nil {
		return nil, err
	}

	items, err := s.gateway.ListSubscriptionItems(ctx, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription items: %w", err)
	}

	report := &SweepReport{
		CustomerID:     customerID,
		SubscriptionID: sub.ID,
		TotalItems:     len(items),
		RemovedItems:   []RemovedItem{},
		Refunds:        []RefundResult{},
	}

	// Only items outside the base-plan allow-list may be removed. A failed
	// deletion is recorded per item and never aborts the rest.
	for _, item := range items {
		if s.stripeCfg.IsBasePlan(item.PriceID) {
			continue
		}

		removed := RemovedItem{
			ItemID:  item.ID,
			PriceID: item.PriceID,
		}
		if err := s.gateway.RemoveSubscriptionItem(ctx, item.ID); err != nil {
			removed.Error = err.Error()
			s.logger.Warn("Sweep failed to remove line item",
				zap.String("customer_id", customerID),
				zap.String("item_id", item.ID),
				zap.Error(err))
		} else {
			removed.Removed = true
		}
		report.RemovedItems = append(report.RemovedItems, removed)
	}

	if req.RefundAll {
		report.Refunds = s.refundNonInitialInvoices(ctx, customerID)
	}

	// Counter reset happens regardless of whether refunds were requested
	// or succeeded.
	if userID != "" {
		if err := s.profileRepo.ResetExtraUsage(ctx, userID); err != nil {
			s.logger.Warn("Sweep failed to reset extra-usage counter",
				zap.String("user_id", userID),
				zap.Error(err))
		} else {
			report.UsageReset = true
		}
	}

	s.logger.Info("Cleanup sweep finished",
		zap.String("customer_id", customerID),
		zap.String("subscription_id", sub.ID),
		zap.Int("total_items", report.TotalItems),
		zap.Int("removed_items", len(report.RemovedItems)),
		zap.Int("refunds", len(report.Refunds)))

	return report, nil
}

// resolveTarget picks the customer to sweep: explicit customer id first,
// then a user-id lookup, then the first profile holding any customer
// reference, which requires the explicit opt-in flag.
func (s *SweepService) resolveTarget(ctx context.Context, req *SweepRequest) (customerID, userID string, err error) {
	if req.CustomerID != "" {
		profile, err := s.profileRepo.GetByCustomerID(ctx, req.CustomerID)
		if err != nil {
			return "", "", fmt.Errorf("failed to look up profile: %w", err)
		}
		if profile != nil {
			userID = profile.UserID
		}
		return req.CustomerID, userID, nil
	}

	if req.UserID != "" {
		profile, err := s.profileRepo.GetByUserID(ctx, req.UserID)
		if err != nil {
			return "", "", fmt.Errorf("failed to look up profile: %w", err)
		}
		if profile == nil {
			return "", "", domainErrors.ErrProfileNotFound
		}
		if profile.StripeCustomerID == "" {
			return "", "", domainErrors.ErrNoCustomerReference
		}
		return profile.StripeCustomerID, profile.UserID, nil
	}

	if !req.AllowFallback {
		return "", "", domainErrors.ErrFallbackNotAllowed
	}

	profile, err := s.profileRepo.FirstWithCustomerRef(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve fallback profile: %w", err)
	}
	if profile == nil {
		return "", "", domainErrors.ErrProfileNotFound
	}

	// Fallback resolution is an unsafe maintenance affordance; leave an
	// audit trail whenever it is used.
	s.logger.Warn("Sweep resolved target via fallback",
		zap.String("audit_id", uuid.NewString()),
		zap.String("user_id", profile.UserID),
		zap.String("customer_id", profile.StripeCustomerID))

	return profile.StripeCustomerID, profile.UserID, nil
}

// refundNonInitialInvoices refunds every paid invoice with a positive paid
// amount and an associated charge, skipping the invoice generated by the
// initial subscription creation. Partial failure is reported per invoice.
func (s *SweepService) refundNonInitialInvoices(ctx context.Context, customerID string) []RefundResult {
	results := []RefundResult{}

	invoices, err := s.gateway.ListInvoices(ctx, customerID, billing.InvoiceStatusPaid)
	if err != nil {
		s.logger.Warn("Sweep failed to list paid invoices",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return results
	}

	for _, inv := range invoices {
		if inv.BillingReason == billing.BillingReasonSubscriptionCreate {
			continue
		}
		if inv.AmountPaid <= 0 || inv.ChargeID == "" {
			continue
		}

		result := RefundResult{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(inv.AmountPaid).Div(decimal.NewFromInt(100)),
			Currency:  inv.Currency,
		}

		refund, err := s.gateway.RefundCharge(ctx, inv.ChargeID)
		if err != nil {
			result.Error = err.Error()
			s.logger.Warn("Sweep failed to refund invoice",
				zap.String("customer_id", customerID),
				zap.String("invoice_id", inv.ID),
				zap.Error(err))
		} else {
			result.RefundID = refund.ID
		}

		results = append(results, result)
	}

	return results
}
