package repository

import (
	"context"
	"encoding/json"

	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/model"
)

// WebhookEventRepository persists the audit trail of received billing events.
type WebhookEventRepository interface {
	SaveEvent(ctx context.Context, eventID, eventType string, data json.RawMessage) error
	GetEvent(ctx context.Context, eventID string) (*model.BillingWebhookEvent, error)
	MarkProcessed(ctx context.Context, eventID string) error
	MarkFailed(ctx context.Context, eventID string, err error) error
}
