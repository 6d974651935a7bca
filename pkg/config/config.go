package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Operator auth
	JWTSecret            string
	JWTExpiryDuration    time.Duration
	JWTIssuer            string
	OperatorPasswordHash string

	// Payment provider
	ProviderBaseURL string
	ProviderToken   string

	// Commission policy
	CommissionRate    decimal.Decimal // Deposit commission, fraction
	MinCommissionRate decimal.Decimal
	MaxCommissionRate decimal.Decimal
	AdminShareRate    decimal.Decimal // Fixed purchase-time share

	// Scheduler / executor
	SchedulerTickInterval time.Duration
	PurchaseCooldown      time.Duration
	PurchaseMaxAttempts   int
	BackoffUnit           time.Duration // Base for 2^attempt backoff

	// Refund reconciliation
	RefundExactThreshold int

	// Limits
	MaxProfilesPerAccount int
	MinDeposit            int64
	MaxDeposit            int64
	RateLimit             string // ulule/limiter format, e.g. "30-M"
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "star-gifting-app")
	viper.SetDefault("OPERATOR_PASSWORD_HASH", "")
	viper.SetDefault("PROVIDER_BASE_URL", "")
	viper.SetDefault("PROVIDER_TOKEN", "")
	viper.SetDefault("COMMISSION_RATE", "0.10")
	viper.SetDefault("MIN_COMMISSION_RATE", "0.01")
	viper.SetDefault("MAX_COMMISSION_RATE", "0.25")
	viper.SetDefault("ADMIN_SHARE_RATE", "0.10")
	viper.SetDefault("SCHEDULER_TICK_INTERVAL", "1s")
	viper.SetDefault("PURCHASE_COOLDOWN", "1s")
	viper.SetDefault("PURCHASE_MAX_ATTEMPTS", 3)
	viper.SetDefault("BACKOFF_UNIT", "1s")
	viper.SetDefault("REFUND_EXACT_THRESHOLD", 18)
	viper.SetDefault("MAX_PROFILES_PER_ACCOUNT", 10)
	viper.SetDefault("MIN_DEPOSIT", 1)
	viper.SetDefault("MAX_DEPOSIT", 10000)
	viper.SetDefault("RATE_LIMIT", "30-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	var err error
	cfg.JWTExpiryDuration, err = time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		cfg.JWTExpiryDuration = time.Hour
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION. Defaulting to %s.\n", cfg.JWTExpiryDuration)
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.OperatorPasswordHash = viper.GetString("OPERATOR_PASSWORD_HASH")
	if cfg.OperatorPasswordHash == "" {
		log.Println("Warning: OPERATOR_PASSWORD_HASH not set. Operator login is disabled.")
	}

	cfg.ProviderBaseURL = viper.GetString("PROVIDER_BASE_URL")
	cfg.ProviderToken = viper.GetString("PROVIDER_TOKEN")

	cfg.CommissionRate, err = decimal.NewFromString(viper.GetString("COMMISSION_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMMISSION_RATE: %w", err)
	}
	cfg.MinCommissionRate, err = decimal.NewFromString(viper.GetString("MIN_COMMISSION_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid MIN_COMMISSION_RATE: %w", err)
	}
	cfg.MaxCommissionRate, err = decimal.NewFromString(viper.GetString("MAX_COMMISSION_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_COMMISSION_RATE: %w", err)
	}
	cfg.AdminShareRate, err = decimal.NewFromString(viper.GetString("ADMIN_SHARE_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_SHARE_RATE: %w", err)
	}
	if !cfg.ValidateCommissionRate(cfg.CommissionRate) {
		return nil, fmt.Errorf("COMMISSION_RATE %s outside policy window [%s, %s]",
			cfg.CommissionRate, cfg.MinCommissionRate, cfg.MaxCommissionRate)
	}

	cfg.SchedulerTickInterval = viper.GetDuration("SCHEDULER_TICK_INTERVAL")
	cfg.PurchaseCooldown = viper.GetDuration("PURCHASE_COOLDOWN")
	cfg.PurchaseMaxAttempts = viper.GetInt("PURCHASE_MAX_ATTEMPTS")
	cfg.BackoffUnit = viper.GetDuration("BACKOFF_UNIT")
	cfg.RefundExactThreshold = ClampRefundExactThreshold(viper.GetInt("REFUND_EXACT_THRESHOLD"))
	cfg.MaxProfilesPerAccount = viper.GetInt("MAX_PROFILES_PER_ACCOUNT")
	cfg.MinDeposit = viper.GetInt64("MIN_DEPOSIT")
	cfg.MaxDeposit = viper.GetInt64("MAX_DEPOSIT")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

// maxRefundExactThreshold caps the exhaustive subset search. The
// enumeration walks 2^n bitmasks, so anything near 32 would both
// overflow the mask and never finish.
const maxRefundExactThreshold = 24

// ClampRefundExactThreshold bounds REFUND_EXACT_THRESHOLD to a range
// the subset enumeration can actually handle.
func ClampRefundExactThreshold(n int) int {
	if n < 0 {
		return 0
	}
	if n > maxRefundExactThreshold {
		log.Printf("Warning: REFUND_EXACT_THRESHOLD %d is too large for exhaustive search. Clamping to %d.\n", n, maxRefundExactThreshold)
		return maxRefundExactThreshold
	}
	return n
}

// ValidateCommissionRate reports whether a rate is within the policy window.
func (c *Config) ValidateCommissionRate(rate decimal.Decimal) bool {
	return rate.GreaterThanOrEqual(c.MinCommissionRate) && rate.LessThanOrEqual(c.MaxCommissionRate)
}
