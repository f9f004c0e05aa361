package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_PRICE_BASIC", "price_BASIC")
	t.Setenv("STRIPE_PRICE_PRO", "price_PRO")
	t.Setenv("STRIPE_PRICE_PREMIUM", "price_PREMIUM")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co/")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")
	t.Setenv("EVOLUTION_API_URL", "https://bridge.example.com")
	t.Setenv("EVOLUTION_API_KEY", "bridge-key")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/billing")
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()

	assert.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "http://localhost:3000", cfg.Service.ClientURL)
	// Trailing slashes are trimmed so path joins stay predictable.
	assert.Equal(t, "https://proj.supabase.co", cfg.Supabase.ProjectURL)
	assert.Equal(t, "", cfg.Stripe.WebhookSecret)
}

func TestLoadConfig_ReportsAllMissingKeysAtOnce(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "not-a-number")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestStripeConfig_IsBasePlan(t *testing.T) {
	cfg := &StripeConfig{
		BasePlanPriceIDs: [3]string{"price_BASIC", "price_PRO", "price_PREMIUM"},
	}

	assert.True(t, cfg.IsBasePlan("price_PRO"))
	assert.False(t, cfg.IsBasePlan("price_ADDON_A"))
	assert.False(t, cfg.IsBasePlan(""))
}
