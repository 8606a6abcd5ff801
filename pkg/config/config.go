package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "GAMESTORE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	EmptyCartCharge = "charge"
	EmptyCartWaive  = "waive"

	EnvAppEnv   = "GAMESTORE_APP_ENV"
	EnvPort     = "GAMESTORE_APP_PORT"
	EnvDBDriver = "GAMESTORE_DB_DRIVER"
	EnvDBDSN    = "GAMESTORE_DB_DSN"
	EnvDBHost   = "GAMESTORE_DB_HOST"
	EnvDBUser   = "GAMESTORE_DB_USER"
	EnvDBName   = "GAMESTORE_DB_NAME"
	EnvRedisURL = "GAMESTORE_REDIS_URL"

	defaultSQLiteDSN = "file:gamestore?mode=memory&cache=shared"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	Service  ServiceConfig
	DB       DBConfig
	Redis    RedisConfig
	Pricing  PricingConfig
	Catalog  CatalogConfig
	Checkout CheckoutConfig
	Cron     CronConfig
	Metrics  MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := uuid.Parse(cfg.App.DemoShopperID); err != nil {
		return nil, fmt.Errorf("parsing GAMESTORE_DEMO_SHOPPER_ID: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"GAMESTORE_APP_ENV" default:"dev"`
	Port            string        `envconfig:"GAMESTORE_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"GAMESTORE_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"GAMESTORE_LOG_FORMAT" default:"json"`
	LogWarnStack    bool          `envconfig:"GAMESTORE_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"GAMESTORE_SHUTDOWN_TIMEOUT" default:"10s"`
	CORSOrigins     []string      `envconfig:"GAMESTORE_CORS_ORIGINS" default:"http://localhost:3000"`
	DemoShopperID   string        `envconfig:"GAMESTORE_DEMO_SHOPPER_ID" default:"00000000-0000-4000-8000-000000000001"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GAMESTORE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	Driver      string `envconfig:"GAMESTORE_DB_DRIVER" default:"sqlite"`
	DSN         string `envconfig:"GAMESTORE_DB_DSN"`
	AutoMigrate bool   `envconfig:"GAMESTORE_DB_AUTO_MIGRATE" default:"true"`

	LegacyHost     string `envconfig:"GAMESTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"GAMESTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GAMESTORE_DB_USER"`
	LegacyPassword string `envconfig:"GAMESTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"GAMESTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"GAMESTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GAMESTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GAMESTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GAMESTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GAMESTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"GAMESTORE_REDIS_URL"`
	Address      string        `envconfig:"GAMESTORE_REDIS_ADDR"`
	Password     string        `envconfig:"GAMESTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"GAMESTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GAMESTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GAMESTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GAMESTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GAMESTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GAMESTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type PricingConfig struct {
	TaxRate               decimal.Decimal `envconfig:"GAMESTORE_PRICING_TAX_RATE" default:"0.08"`
	FreeShippingThreshold decimal.Decimal `envconfig:"GAMESTORE_PRICING_FREE_SHIPPING_THRESHOLD" default:"100"`
	ShippingFee           decimal.Decimal `envconfig:"GAMESTORE_PRICING_SHIPPING_FEE" default:"4.99"`
	PromoCodes            map[string]int  `envconfig:"GAMESTORE_PRICING_PROMO_CODES" default:"GAMER10:10"`
	EmptyCartPolicy       string          `envconfig:"GAMESTORE_PRICING_EMPTY_CART_POLICY" default:"charge"`
}

func (p PricingConfig) validate() error {
	if p.TaxRate.IsNegative() {
		return fmt.Errorf("pricing tax rate must not be negative")
	}
	if p.ShippingFee.IsNegative() {
		return fmt.Errorf("pricing shipping fee must not be negative")
	}
	for code, pct := range p.PromoCodes {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("promo %q percent %d outside [0,100]", code, pct)
		}
	}
	switch strings.ToLower(p.EmptyCartPolicy) {
	case EmptyCartCharge, EmptyCartWaive:
		return nil
	default:
		return fmt.Errorf("unknown empty cart policy %q", p.EmptyCartPolicy)
	}
}

// WaiveEmptyCartShipping reports whether an empty cart should be quoted at zero.
func (p PricingConfig) WaiveEmptyCartShipping() bool {
	return strings.EqualFold(p.EmptyCartPolicy, EmptyCartWaive)
}

type CatalogConfig struct {
	PageSize          int `envconfig:"GAMESTORE_CATALOG_PAGE_SIZE" default:"12"`
	MaxPageSize       int `envconfig:"GAMESTORE_CATALOG_MAX_PAGE_SIZE" default:"100"`
	LowStockThreshold int `envconfig:"GAMESTORE_CATALOG_LOW_STOCK_THRESHOLD" default:"5"`
}

func (c CatalogConfig) validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("catalog page size must be positive")
	}
	if c.MaxPageSize < c.PageSize {
		return fmt.Errorf("catalog max page size %d below page size %d", c.MaxPageSize, c.PageSize)
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("low stock threshold must not be negative")
	}
	return nil
}

type CheckoutConfig struct {
	RateLimitWindow time.Duration `envconfig:"GAMESTORE_CHECKOUT_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimit       int           `envconfig:"GAMESTORE_CHECKOUT_RATE_LIMIT" default:"5"`
	PromoWindow     time.Duration `envconfig:"GAMESTORE_PROMO_RATE_LIMIT_WINDOW" default:"1m"`
	PromoLimit      int           `envconfig:"GAMESTORE_PROMO_RATE_LIMIT" default:"10"`
	IdempotencyTTL  time.Duration `envconfig:"GAMESTORE_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"GAMESTORE_CRON_INTERVAL" default:"15m"`
	LockTTL  time.Duration `envconfig:"GAMESTORE_CRON_LOCK_TTL" default:"14m"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"GAMESTORE_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"GAMESTORE_METRICS_PATH" default:"/metrics"`
}

func (db *DBConfig) ensureDSN() error {
	switch strings.ToLower(db.Driver) {
	case DriverSQLite:
		if db.DSN == "" {
			db.DSN = defaultSQLiteDSN
		}
		return nil
	case DriverPostgres:
	default:
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, db.Driver)
	}

	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
