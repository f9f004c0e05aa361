package usecase

import (
	"context"

	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/billing"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.SubscriberProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriberProfile), args.Error(1)
}

func (m *MockProfileRepository) GetByCustomerID(ctx context.Context, customerID string) (*model.SubscriberProfile, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriberProfile), args.Error(1)
}

func (m *MockProfileRepository) FirstWithCustomerRef(ctx context.Context) (*model.SubscriberProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriberProfile), args.Error(1)
}

func (m *MockProfileRepository) SetBillingRefs(ctx context.Context, userID, customerID, subscriptionID string, status model.SubscriptionStatus) error {
	args := m.Called(ctx, userID, customerID, subscriptionID, status)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateStatus(ctx context.Context, userID string, status model.SubscriptionStatus) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *MockProfileRepository) ResetExtraUsage(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockGateway is a mock implementation of billing.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, req *billing.CheckoutSessionRequest) (*billing.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CheckoutSession), args.Error(1)
}

func (m *MockGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (*billing.PortalSession, error) {
	args := m.Called(ctx, customerID, returnURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PortalSession), args.Error(1)
}

func (m *MockGateway) FindActiveSubscription(ctx context.Context, customerID string) (*billing.Subscription, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockGateway) ListSubscriptionItems(ctx context.Context, subscriptionID string) ([]*billing.SubscriptionItem, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.SubscriptionItem), args.Error(1)
}

func (m *MockGateway) AddSubscriptionItem(ctx context.Context, subscriptionID, priceID string) (*billing.SubscriptionItem, error) {
	args := m.Called(ctx, subscriptionID, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SubscriptionItem), args.Error(1)
}

func (m *MockGateway) RemoveSubscriptionItem(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockGateway) ListInvoices(ctx context.Context, customerID string, status billing.InvoiceStatus) ([]*billing.Invoice, error) {
	args := m.Called(ctx, customerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockGateway) RefundCharge(ctx context.Context, chargeID string) (*billing.Refund, error) {
	args := m.Called(ctx, chargeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Refund), args.Error(1)
}
