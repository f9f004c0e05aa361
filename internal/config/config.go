package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the full service configuration. It is constructed once at
// startup from environment variables and passed by reference everywhere;
// handlers never read the environment themselves.
type Config struct {
	Service  ServiceConfig
	Server   ServerConfig
	Log      LogConfig
	Stripe   StripeConfig
	Supabase SupabaseConfig
	Bridge   BridgeConfig
	Database DatabaseConfig
}

type ServiceConfig struct {
	Name        string
	Environment string
	ClientURL   string
}

type ServerConfig struct {
	Host string
	Port int
}

type LogConfig struct {
	Level  string
	Format string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string

	// BasePlanPriceIDs is the fixed allow-list of recurring plan prices.
	// Every other subscription line item is treated as an add-on.
	BasePlanPriceIDs [3]string
}

// IsBasePlan reports whether the given price id belongs to the allow-list.
func (c *StripeConfig) IsBasePlan(priceID string) bool {
	for _, id := range c.BasePlanPriceIDs {
		if id == priceID {
			return true
		}
	}
	return false
}

type SupabaseConfig struct {
	ProjectURL     string
	ServiceRoleKey string
}

// BridgeConfig points at the Evolution WhatsApp bridge.
type BridgeConfig struct {
	BaseURL string
	APIKey  string
}

type DatabaseConfig struct {
	// URL is a Postgres DSN for the webhook event audit log.
	URL string

	MaxOpenConns int
	MaxIdleConns int
}

// LoadConfig builds the configuration from the process environment. A local
// .env file is loaded first when present. Missing required keys are reported
// together as a single startup error.
func LoadConfig() (*Config, error) {
	// Best effort; production deployments set real environment variables.
	_ = godotenv.Load()

	var missing []string
	require := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	optional := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	port, err := strconv.Atoi(optional("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	cfg := &Config{
		Service: ServiceConfig{
			Name:        "billing",
			Environment: optional("ENVIRONMENT", "development"),
			ClientURL:   optional("CLIENT_URL", "http://localhost:3000"),
		},
		Server: ServerConfig{
			Host: optional("HOST", "0.0.0.0"),
			Port: port,
		},
		Log: LogConfig{
			Level:  optional("LOG_LEVEL", "info"),
			Format: optional("LOG_FORMAT", "json"),
		},
		Stripe: StripeConfig{
			SecretKey:     require("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			BasePlanPriceIDs: [3]string{
				require("STRIPE_PRICE_BASIC"),
				require("STRIPE_PRICE_PRO"),
				require("STRIPE_PRICE_PREMIUM"),
			},
		},
		Supabase: SupabaseConfig{
			ProjectURL:     strings.TrimRight(require("SUPABASE_URL"), "/"),
			ServiceRoleKey: require("SUPABASE_SERVICE_ROLE_KEY"),
		},
		Bridge: BridgeConfig{
			BaseURL: strings.TrimRight(require("EVOLUTION_API_URL"), "/"),
			APIKey:  require("EVOLUTION_API_KEY"),
		},
		Database: DatabaseConfig{
			URL:          require("DATABASE_URL"),
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}
