package http

import (
	"net/http"

	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/config"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/billing"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	logger    *zap.Logger
	gateway   billing.Gateway
	clientURL string
}

func NewCheckoutHandler(logger *zap.Logger, gateway billing.Gateway, cfg *config.ServiceConfig) *CheckoutHandler {
	return &CheckoutHandler{
		logger:    logger,
		gateway:   gateway,
		clientURL: cfg.ClientURL,
	}
}

type CreateCheckoutRequest struct {
	PriceID    string `json:"priceId" validate:"required"`
	UserID     string `json:"userId" validate:"required"`
	UserEmail  string `json:"userEmail" validate:"omitempty,email"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
	Mode       string `json:"mode" validate:"omitempty,oneof=subscription payment"`
}

type CreateCheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// CreateSession opens a hosted checkout session for the given price. The
// user id travels as the session's client reference so the webhook can link
// the completed checkout back to the profile.
func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	var req CreateCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	mode := billing.CheckoutModeSubscription
	if req.Mode == string(billing.CheckoutModePayment) {
		mode = billing.CheckoutModePayment
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = h.clientURL + "/success"
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = h.clientURL + "/pricing"
	}

	h.logger.Info("Creating checkout session",
		zap.String("price_id", req.PriceID),
		zap.String("user_id", req.UserID),
		zap.String("mode", string(mode)))

	session, err := h.gateway.CreateCheckoutSession(c.Request().Context(), &billing.CheckoutSessionRequest{
		PriceID:           req.PriceID,
		CustomerEmail:     req.UserEmail,
		ClientReferenceID: req.UserID,
		SuccessURL:        successURL,
		CancelURL:         cancelURL,
		Mode:              mode,
	})
	if err != nil {
		h.logger.Error("Error creating checkout session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, CreateCheckoutResponse{
		URL:       session.URL,
		SessionID: session.ID,
	})
}

type CreatePortalRequest struct {
	CustomerID string `json:"customerId" validate:"required"`
}

// CreatePortalSession opens the provider's self-service billing portal.
func (h *CheckoutHandler) CreatePortalSession(c echo.Context) error {
	var req CreatePortalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	ps, err := h.gateway.CreatePortalSession(c.Request().Context(), req.CustomerID, h.clientURL)
	if err != nil {
		h.logger.Error("Error creating portal session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"url": ps.URL,
	})
}
