package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	domainErrors "github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/errors"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/model"
	domainRepo "github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/repository"
	apperrors "github.com/Aguti1902/agutidesigns-ai-sub001/pkg/errors"
	"go.uber.org/zap"
)

const profilesTable = "profiles"

// SupabaseProfileRepository implements ProfileRepository against the
// Supabase PostgREST API using the service-role key.
type SupabaseProfileRepository struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// NewSupabaseProfileRepository creates a new Supabase profile repository.
func NewSupabaseProfileRepository(baseURL, apiKey string, logger *zap.Logger) domainRepo.ProfileRepository {
	return &SupabaseProfileRepository{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// GetByUserID looks up a profile by its user id.
func (r *SupabaseProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.SubscriberProfile, error) {
	params := url.Values{}
	params.Add("user_id", "eq."+userID)
	return r.getOne(ctx, params)
}

// GetByCustomerID looks up a profile by its billing customer reference.
func (r *SupabaseProfileRepository) GetByCustomerID(ctx context.Context, customerID string) (*model.SubscriberProfile, error) {
	params := url.Values{}
	params.Add("stripe_customer_id", "eq."+customerID)
	return r.getOne(ctx, params)
}

// FirstWithCustomerRef returns the first profile that has any billing
// customer reference attached.
func (r *SupabaseProfileRepository) FirstWithCustomerRef(ctx context.Context) (*model.SubscriberProfile, error) {
	params := url.Values{}
	params.Add("stripe_customer_id", "not.is.null")
	params.Add("stripe_customer_id", "neq.")
	params.Add("limit", "1")
	return r.getOne(ctx, params)
}

// SetBillingRefs overwrites the billing references and status in one write.
func (r *SupabaseProfileRepository) SetBillingRefs(ctx context.Context, userID, customerID, subscriptionID string, status model.SubscriptionStatus) error {
	params := url.Values{}
	params.Add("user_id", "eq."+userID)

	return r.patch(ctx, params, map[string]interface{}{
		"subscription_status":    status,
		"stripe_customer_id":     customerID,
		"stripe_subscription_id": subscriptionID,
	})
}

// UpdateStatus overwrites the subscription status.
func (r *SupabaseProfileRepository) UpdateStatus(ctx context.Context, userID string, status model.SubscriptionStatus) error {
	params := url.Values{}
	params.Add("user_id", "eq."+userID)

	return r.patch(ctx, params, map[string]interface{}{
		"subscription_status": status,
	})
}

// ResetExtraUsage zeroes the extra-usage counter.
func (r *SupabaseProfileRepository) ResetExtraUsage(ctx context.Context, userID string) error {
	params := url.Values{}
	params.Add("user_id", "eq."+userID)

	return r.patch(ctx, params, map[string]interface{}{
		"extra_usage_count": 0,
	})
}

func (r *SupabaseProfileRepository) getOne(ctx context.Context, params url.Values) (*model.SubscriberProfile, error) {
	params.Add("select", "*")
	queryURL := fmt.Sprintf("%s/rest/v1/%s?%s", r.baseURL, profilesTable, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	r.setHeaders(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Supabase query failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(body)))
		return nil, apperrors.NewAppError(apperrors.ErrUpstream,
			fmt.Sprintf("supabase query failed with status %d", resp.StatusCode), nil)
	}

	var profiles []model.SubscriberProfile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles response: %w", err)
	}

	if len(profiles) == 0 {
		return nil, nil
	}

	return &profiles[0], nil
}

func (r *SupabaseProfileRepository) patch(ctx context.Context, params url.Values, fields map[string]interface{}) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode update payload: %w", err)
	}

	queryURL := fmt.Sprintf("%s/rest/v1/%s?%s", r.baseURL, profilesTable, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, queryURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	r.setHeaders(req)
	req.Header.Set("Prefer", "return=representation")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		r.logger.Error("Supabase update failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(body)))
		return apperrors.NewAppError(apperrors.ErrUpstream,
			fmt.Sprintf("supabase update failed with status %d", resp.StatusCode), nil)
	}

	// return=representation answers with the updated rows; an empty array
	// means the filter matched nothing.
	if resp.StatusCode == http.StatusOK {
		var rows []json.RawMessage
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("failed to decode update response: %w", err)
		}
		if len(rows) == 0 {
			return domainErrors.ErrProfileNotFound
		}
	}

	return nil
}

func (r *SupabaseProfileRepository) setHeaders(req *http.Request) {
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")
}
