package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Checkout CheckoutConfig
	Store    StoreConfig
	Redis    RedisConfig
	DB       DBConfig
	Square   SquareConfig
	Webhook  WebhookConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"ACP_APP_ENV" required:"true"`
	Port         string   `envconfig:"ACP_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"ACP_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"ACP_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"ACP_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CheckoutConfig drives the agentic checkout surface itself.
type CheckoutConfig struct {
	APIKey             string `envconfig:"ACP_CHECKOUT_API_KEY" required:"true"`
	Currency           string `envconfig:"ACP_CHECKOUT_CURRENCY" default:"usd"`
	PaymentProvider    string `envconfig:"ACP_CHECKOUT_PAYMENT_PROVIDER" default:"square"`
	OrderPermalinkBase string `envconfig:"ACP_CHECKOUT_ORDER_PERMALINK_BASE" default:"https://merchant.example.com/orders"`
	CatalogPath        string `envconfig:"ACP_CHECKOUT_CATALOG_PATH" required:"true"`
	// FreeShippingThresholdCents enables the single free-shipping option once the
	// items base amount reaches it. Zero disables the mode.
	FreeShippingThresholdCents int64 `envconfig:"ACP_CHECKOUT_FREE_SHIPPING_THRESHOLD_CENTS" default:"0"`
	// TaxRate is the fallback decimal rate; overrides map region codes to
	// rates, e.g. "CA:0.0925,WA:0.065".
	TaxRate          string            `envconfig:"ACP_CHECKOUT_TAX_RATE" default:"0.08"`
	TaxRateOverrides map[string]string `envconfig:"ACP_CHECKOUT_TAX_RATE_OVERRIDES"`
}

// NormalizedCurrency returns the session currency as a lowercase ISO code.
func (c CheckoutConfig) NormalizedCurrency() string {
	cur := strings.ToLower(strings.TrimSpace(c.Currency))
	if cur == "" {
		return "usd"
	}
	return cur
}

// StoreConfig selects the session store backend.
type StoreConfig struct {
	Backend    string        `envconfig:"ACP_STORE_BACKEND" default:"memory"`
	SessionTTL time.Duration `envconfig:"ACP_STORE_SESSION_TTL" default:"24h"`
}

func (s StoreConfig) NormalizedBackend() string {
	return strings.ToLower(strings.TrimSpace(s.Backend))
}

func (s StoreConfig) validate() error {
	switch s.NormalizedBackend() {
	case StoreBackendMemory, StoreBackendRedis, StoreBackendPostgres:
		return nil
	default:
		return fmt.Errorf("unsupported store backend %q", s.Backend)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"ACP_REDIS_URL"`
	Address      string        `envconfig:"ACP_REDIS_ADDR"`
	Password     string        `envconfig:"ACP_REDIS_PASSWORD"`
	DB           int           `envconfig:"ACP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ACP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ACP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ACP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ACP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ACP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	DSN             string        `envconfig:"ACP_DB_DSN"`
	AutoMigrate     bool          `envconfig:"ACP_DB_AUTO_MIGRATE" default:"false"`
	MaxOpenConns    int           `envconfig:"ACP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ACP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ACP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ACP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"ACP_SQUARE_ACCESS_TOKEN"`
	Env         string `envconfig:"ACP_SQUARE_ENV" default:"sandbox"`
	LocationID  string `envconfig:"ACP_SQUARE_LOCATION_ID"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

// WebhookConfig configures the post-completion order notification. An empty
// URL disables delivery.
type WebhookConfig struct {
	URL     string        `envconfig:"ACP_WEBHOOK_URL"`
	Secret  string        `envconfig:"ACP_WEBHOOK_SECRET"`
	Timeout time.Duration `envconfig:"ACP_WEBHOOK_TIMEOUT" default:"5s"`
}
