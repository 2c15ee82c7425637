package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Checkout     CheckoutConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VESTURE_APP_ENV" required:"true"`
	Port         string `envconfig:"VESTURE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VESTURE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VESTURE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VESTURE_DB_DSN"`
	Driver string `envconfig:"VESTURE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VESTURE_DB_HOST"`
	LegacyPort     int    `envconfig:"VESTURE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VESTURE_DB_USER"`
	LegacyPassword string `envconfig:"VESTURE_DB_PASSWORD"`
	LegacyName     string `envconfig:"VESTURE_DB_NAME"`
	LegacySSLMode  string `envconfig:"VESTURE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VESTURE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VESTURE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VESTURE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VESTURE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VESTURE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VESTURE_REDIS_ADDR"`
	Password     string        `envconfig:"VESTURE_REDIS_PASSWORD"`
	DB           int           `envconfig:"VESTURE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VESTURE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VESTURE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VESTURE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VESTURE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VESTURE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VESTURE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VESTURE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VESTURE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// CheckoutConfig carries settlement policy knobs.
type CheckoutConfig struct {
	ShippingFee int `envconfig:"VESTURE_CHECKOUT_SHIPPING_FEE" default:"3000"`
}

// RateLimitConfig throttles the payment surface. Zero limits disable the
// corresponding dimension.
type RateLimitConfig struct {
	PaymentWindow    time.Duration `envconfig:"VESTURE_RATE_LIMIT_PAYMENT_WINDOW" default:"1m"`
	PaymentIPLimit   int           `envconfig:"VESTURE_RATE_LIMIT_PAYMENT_IP_LIMIT" default:"30"`
	PaymentUserLimit int           `envconfig:"VESTURE_RATE_LIMIT_PAYMENT_USER_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VESTURE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
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
