package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/Aguti1902/agutidesigns-ai-sub001/pkg/errors"
	"go.uber.org/zap"
)

// ConnectionState is the bridge's view of a WhatsApp instance. The bridge
// owns its own connection state machine; this client only reads it.
type ConnectionState struct {
	Instance string `json:"instance"`
	State    string `json:"state"`
}

// Connected reports whether the bridge considers the session open.
func (s *ConnectionState) Connected() bool {
	return s.State == "open"
}

// ConnectResult is the bridge's answer to a connect request.
type ConnectResult struct {
	PairingCode string `json:"pairing_code,omitempty"`
	QRCode      string `json:"qr_code,omitempty"`
}

// EvolutionClient talks to the Evolution WhatsApp bridge REST API. Only the
// three calls this service needs are implemented.
type EvolutionClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// NewEvolutionClient creates a new Evolution bridge client.
func NewEvolutionClient(baseURL, apiKey string, logger *zap.Logger) *EvolutionClient {
	return &EvolutionClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// GetConnectionState probes the connection state of an instance.
func (c *EvolutionClient) GetConnectionState(ctx context.Context, instance string) (*ConnectionState, error) {
	var payload struct {
		Instance struct {
			InstanceName string `json:"instanceName"`
			State        string `json:"state"`
		} `json:"instance"`
	}

	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/instance/connectionState/%s", instance), &payload); err != nil {
		return nil, err
	}

	return &ConnectionState{
		Instance: payload.Instance.InstanceName,
		State:    payload.Instance.State,
	}, nil
}

// Connect asks the bridge to open (or re-open) the instance session.
func (c *EvolutionClient) Connect(ctx context.Context, instance string) (*ConnectResult, error) {
	var payload struct {
		PairingCode string `json:"pairingCode"`
		Code        string `json:"code"`
	}

	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/instance/connect/%s", instance), &payload); err != nil {
		return nil, err
	}

	return &ConnectResult{
		PairingCode: payload.PairingCode,
		QRCode:      payload.Code,
	}, nil
}

// Logout asks the bridge to close the instance session.
func (c *EvolutionClient) Logout(ctx context.Context, instance string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/instance/logout/%s", instance), nil)
}

func (c *EvolutionClient) do(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read bridge response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Bridge call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(body)))
		return apperrors.NewAppError(apperrors.ErrUpstream,
			fmt.Sprintf("bridge call failed with status %d", resp.StatusCode), nil)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode bridge response: %w", err)
		}
	}

	return nil
}
