package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/billing"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/model"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/usecase"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockBillingGateway struct {
	mock.Mock
}

func (m *mockBillingGateway) CreateCheckoutSession(ctx context.Context, req *billing.CheckoutSessionRequest) (*billing.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CheckoutSession), args.Error(1)
}

func (m *mockBillingGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (*billing.PortalSession, error) {
	args := m.Called(ctx, customerID, returnURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PortalSession), args.Error(1)
}

func (m *mockBillingGateway) FindActiveSubscription(ctx context.Context, customerID string) (*billing.Subscription, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *mockBillingGateway) ListSubscriptionItems(ctx context.Context, subscriptionID string) ([]*billing.SubscriptionItem, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.SubscriptionItem), args.Error(1)
}

func (m *mockBillingGateway) AddSubscriptionItem(ctx context.Context, subscriptionID, priceID string) (*billing.SubscriptionItem, error) {
	args := m.Called(ctx, subscriptionID, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SubscriptionItem), args.Error(1)
}

func (m *mockBillingGateway) RemoveSubscriptionItem(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *mockBillingGateway) ListInvoices(ctx context.Context, customerID string, status billing.InvoiceStatus) ([]*billing.Invoice, error) {
	args := m.Called(ctx, customerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *mockBillingGateway) RefundCharge(ctx context.Context, chargeID string) (*billing.Refund, error) {
	args := m.Called(ctx, chargeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Refund), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newJSONTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAddonHandler_Mutate(t *testing.T) {
	logger := zap.NewNop()

	subscribedProfile := &model.SubscriberProfile{
		UserID:               "user-123",
		StripeCustomerID:     "cus_123",
		StripeSubscriptionID: "sub_1",
		SubscriptionStatus:   model.SubscriptionStatusActive,
	}

	t.Run("add answers the new item id", func(t *testing.T) {
		profileRepo := new(mockProfileRepository)
		profileRepo.On("GetByUserID", mock.Anything, "user-123").Return(subscribedProfile, nil)

		gateway := new(mockBillingGateway)
		gateway.On("AddSubscriptionItem", mock.Anything, "sub_1", "price_ADDON_A").
			Return(&billing.SubscriptionItem{ID: "si_9", PriceID: "price_ADDON_A", Quantity: 1}, nil)

		handler := NewAddonHandler(logger, usecase.NewAddonService(profileRepo, gateway, logger))

		c, rec := newJSONTestContext(http.MethodPost, "/api/v1/addons",
			`{"userId":"user-123","priceId":"price_ADDON_A","action":"add"}`)

		err := handler.Mutate(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"si_9"`)
	})

	t.Run("remove of unknown price answers 404 ADDON_NOT_FOUND", func(t *testing.T) {
		profileRepo := new(mockProfileRepository)
		profileRepo.On("GetByUserID", mock.Anything, "user-123").Return(subscribedProfile, nil)

		gateway := new(mockBillingGateway)
		gateway.On("ListSubscriptionItems", mock.Anything, "sub_1").
			Return([]*billing.SubscriptionItem{{ID: "si_1", PriceID: "price_BASIC", Quantity: 1}}, nil)

		handler := NewAddonHandler(logger, usecase.NewAddonService(profileRepo, gateway, logger))

		c, rec := newJSONTestContext(http.MethodPost, "/api/v1/addons",
			`{"userId":"user-123","priceId":"price_UNKNOWN","action":"remove"}`)

		err := handler.Mutate(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "ADDON_NOT_FOUND")
		gateway.AssertNotCalled(t, "RemoveSubscriptionItem", mock.Anything, mock.Anything)
	})

	t.Run("missing profile answers 404 PROFILE_NOT_FOUND", func(t *testing.T) {
		profileRepo := new(mockProfileRepository)
		profileRepo.On("GetByUserID", mock.Anything, "user-404").Return(nil, nil)

		handler := NewAddonHandler(logger, usecase.NewAddonService(profileRepo, new(mockBillingGateway), logger))

		c, rec := newJSONTestContext(http.MethodPost, "/api/v1/addons",
			`{"userId":"user-404","priceId":"price_ADDON_A"}`)

		err := handler.Mutate(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "PROFILE_NOT_FOUND")
	})

	t.Run("profile without subscription answers 404 NO_ACTIVE_SUBSCRIPTION", func(t *testing.T) {
		profileRepo := new(mockProfileRepository)
		profileRepo.On("GetByUserID", mock.Anything, "user-123").
			Return(&model.SubscriberProfile{UserID: "user-123"}, nil)

		handler := NewAddonHandler(logger, usecase.NewAddonService(profileRepo, new(mockBillingGateway), logger))

		c, rec := newJSONTestContext(http.MethodPost, "/api/v1/addons",
			`{"userId":"user-123","priceId":"price_ADDON_A"}`)

		err := handler.Mutate(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "NO_ACTIVE_SUBSCRIPTION")
	})

	t.Run("missing fields answer 400", func(t *testing.T) {
		handler := NewAddonHandler(logger, usecase.NewAddonService(new(mockProfileRepository), new(mockBillingGateway), logger))

		c, rec := newJSONTestContext(http.MethodPost, "/api/v1/addons", `{"userId":"user-123"}`)

		err := handler.Mutate(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
