package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Checkout      CheckoutConfig
	Dispatch      DispatchConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Dispatch.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FERREMAS_APP_ENV" required:"true"`
	Port         string `envconfig:"FERREMAS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FERREMAS_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"FERREMAS_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"FERREMAS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	ReadTimeout    time.Duration `envconfig:"FERREMAS_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout   time.Duration `envconfig:"FERREMAS_HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout    time.Duration `envconfig:"FERREMAS_HTTP_IDLE_TIMEOUT" default:"60s"`
	AllowedOrigins []string      `envconfig:"FERREMAS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	DSN    string `envconfig:"FERREMAS_DB_DSN"`
	Driver string `envconfig:"FERREMAS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FERREMAS_DB_HOST"`
	LegacyPort     int    `envconfig:"FERREMAS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FERREMAS_DB_USER"`
	LegacyPassword string `envconfig:"FERREMAS_DB_PASSWORD"`
	LegacyName     string `envconfig:"FERREMAS_DB_NAME"`
	LegacySSLMode  string `envconfig:"FERREMAS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FERREMAS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FERREMAS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FERREMAS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FERREMAS_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"FERREMAS_DB_SLOW_QUERY_THRESHOLD" default:"250ms"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite engine.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"FERREMAS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FERREMAS_REDIS_ADDR"`
	Password     string        `envconfig:"FERREMAS_REDIS_PASSWORD"`
	DB           int           `envconfig:"FERREMAS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FERREMAS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FERREMAS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FERREMAS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FERREMAS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FERREMAS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FERREMAS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FERREMAS_JWT_ISSUER" default:"ferremas"`
	ExpirationMinutes      int    `envconfig:"FERREMAS_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"FERREMAS_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FERREMAS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FERREMAS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FERREMAS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FERREMAS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FERREMAS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FERREMAS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FERREMAS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FERREMAS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FERREMAS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FERREMAS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FERREMAS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FERREMAS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FERREMAS_AUTO_MIGRATE" default:"false"`
}

// CheckoutConfig drives the placeholder payment session returned by checkout.
type CheckoutConfig struct {
	GatewayURL string        `envconfig:"FERREMAS_CHECKOUT_GATEWAY_URL" default:"https://webpay.mock/request"`
	MockToken  string        `envconfig:"FERREMAS_CHECKOUT_MOCK_TOKEN" default:"mock_token"`
	ReturnURL  string        `envconfig:"FERREMAS_CHECKOUT_RETURN_URL" default:"http://localhost:3000/payment/return"`
	Currency   string        `envconfig:"FERREMAS_CHECKOUT_CURRENCY" default:"CLP"`
	KeyTTL     time.Duration `envconfig:"FERREMAS_IDEMPOTENCY_TTL" default:"24h"`
}

type DispatchConfig struct {
	Fee string `envconfig:"FERREMAS_DISPATCH_FEE" default:"3000"`
}

// FeeAmount returns the fixed handling fee applied to every dispatch.
func (d DispatchConfig) FeeAmount() decimal.Decimal {
	fee, err := decimal.NewFromString(strings.TrimSpace(d.Fee))
	if err != nil {
		return decimal.NewFromInt(3000)
	}
	return fee
}

func (d DispatchConfig) validate() error {
	fee, err := decimal.NewFromString(strings.TrimSpace(d.Fee))
	if err != nil {
		return fmt.Errorf("%s must be numeric: %w", EnvDispatchFee, err)
	}
	if fee.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvDispatchFee)
	}
	return nil
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:ferremas.db?_foreign_keys=on"
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
