package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/billing"
	domainErrors "github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/errors"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/model"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BillingInfo is the merged billing view of one subscriber.
type BillingInfo struct {
	Profile      *model.SubscriberProfile `json:"profile"`
	Subscription *billing.Subscription    `json:"subscription,omitempty"`
	Invoices     []*billing.Invoice       `json:"invoices"`
}

// CustomerInfoService assembles the billing read path for a subscriber.
type CustomerInfoService struct {
	profileRepo repository.ProfileRepository
	gateway     billing.Gateway
	logger      *zap.Logger
}

// NewCustomerInfoService creates a new customer info service.
func NewCustomerInfoService(profileRepo repository.ProfileRepository, gateway billing.Gateway, logger *zap.Logger) *CustomerInfoService {
	return &CustomerInfoService{
		profileRepo: profileRepo,
		gateway:     gateway,
		logger:      logger,
	}
}

// GetBillingInfo returns the profile, its active subscription if any, and
// the customer's open and paid invoices. The two invoice lists are fetched
// in parallel and concatenated; no ordering between them is guaranteed.
func (s *CustomerInfoService) GetBillingInfo(ctx context.Context, userID string) (*BillingInfo, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}
	if profile == nil {
		return nil, domainErrors.ErrProfileNotFound
	}

	info := &BillingInfo{
		Profile:  profile,
		Invoices: []*billing.Invoice{},
	}

	if profile.StripeCustomerID == "" {
		return info, nil
	}

	sub, err := s.gateway.FindActiveSubscription(ctx, profile.StripeCustomerID)
	if err != nil && !errors.Is(err, domainErrors.ErrNoActiveSubscription) {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	info.Subscription = sub

	var open, paid []*billing.Invoice
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		open, err = s.gateway.ListInvoices(gctx, profile.StripeCustomerID, billing.InvoiceStatusOpen)
		return err
	})
	g.Go(func() error {
		var err error
		paid, err = s.gateway.ListInvoices(gctx, profile.StripeCustomerID, billing.InvoiceStatusPaid)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	info.Invoices = append(info.Invoices, open...)
	info.Invoices = append(info.Invoices, paid...)

	return info, nil
}
