package http

import (
	"encoding/json"
	"io"
	"net/http"

	domainRepo "github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/repository"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/usecase"
	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
)

type WebhookHandler struct {
	logger        *zap.Logger
	webhookSecret string
	reconciler    *usecase.Reconciler
	eventRepo     domainRepo.WebhookEventRepository
}

func NewWebhookHandler(
	logger *zap.Logger,
	webhookSecret string,
	reconciler *usecase.Reconciler,
	eventRepo domainRepo.WebhookEventRepository,
) *WebhookHandler {
	return &WebhookHandler{
		logger:        logger,
		webhookSecret: webhookSecret,
		reconciler:    reconciler,
		eventRepo:     eventRepo,
	}
}

// eventEnvelope is the raw provider envelope used when no webhook secret is
// configured.
type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// HandleWebhook receives billing provider events. Once an event has been
// parsed the handler always answers {"received":true} with HTTP 200, even
// when processing fails, so the provider does not retry-storm on transient
// downstream failures. Only a top-level parse failure answers HTTP 500.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading request body", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error reading request body"})
	}

	event, err := h.parseEvent(body, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Error("Error parsing webhook event", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error parsing webhook event"})
	}

	h.logger.Info("Webhook event received",
		zap.String("event_id", event.ID),
		zap.String("type", event.Type))

	ctx := c.Request().Context()

	if err := h.eventRepo.SaveEvent(ctx, event.ID, event.Type, body); err != nil {
		// Audit log failure must not make the provider retry.
		h.logger.Error("Failed to record webhook event", zap.Error(err))
	}

	if err := h.reconciler.Process(ctx, event); err != nil {
		h.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type),
			zap.Error(err))
		if markErr := h.eventRepo.MarkFailed(ctx, event.ID, err); markErr != nil {
			h.logger.Error("Failed to mark webhook event as failed", zap.Error(markErr))
		}
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	if err := h.eventRepo.MarkProcessed(ctx, event.ID); err != nil {
		h.logger.Error("Failed to mark webhook event as processed", zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

// parseEvent verifies and decodes the envelope when a webhook secret is
// configured, and falls back to plain decoding otherwise.
func (h *WebhookHandler) parseEvent(body []byte, signature string) (*usecase.ProviderEvent, error) {
	if h.webhookSecret != "" {
		event, err := webhook.ConstructEventWithOptions(
			body,
			signature,
			h.webhookSecret,
			webhook.ConstructEventOptions{
				IgnoreAPIVersionMismatch: true,
			},
		)
		if err != nil {
			return nil, err
		}
		return &usecase.ProviderEvent{
			ID:   event.ID,
			Type: string(event.Type),
			Data: event.Data.Raw,
		}, nil
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	return &usecase.ProviderEvent{
		ID:   envelope.ID,
		Type: envelope.Type,
		Data: envelope.Data.Object,
	}, nil
}
