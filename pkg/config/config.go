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
	Password     PasswordConfig
	Affiliate    AffiliateConfig
	WhatsApp     WhatsAppConfig
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
	Env          string `envconfig:"CASATIENDA_APP_ENV" required:"true"`
	Port         string `envconfig:"CASATIENDA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CASATIENDA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CASATIENDA_LOG_WARN_STACK" default:"false"`

	// Storefront origin used when building affiliate referral links.
	PublicBaseURL string `envconfig:"CASATIENDA_PUBLIC_BASE_URL" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CASATIENDA_DB_DSN"`
	Driver string `envconfig:"CASATIENDA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CASATIENDA_DB_HOST"`
	LegacyPort     int    `envconfig:"CASATIENDA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CASATIENDA_DB_USER"`
	LegacyPassword string `envconfig:"CASATIENDA_DB_PASSWORD"`
	LegacyName     string `envconfig:"CASATIENDA_DB_NAME"`
	LegacySSLMode  string `envconfig:"CASATIENDA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CASATIENDA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CASATIENDA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CASATIENDA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CASATIENDA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CASATIENDA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CASATIENDA_REDIS_ADDR"`
	Password     string        `envconfig:"CASATIENDA_REDIS_PASSWORD"`
	DB           int           `envconfig:"CASATIENDA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CASATIENDA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CASATIENDA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CASATIENDA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CASATIENDA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CASATIENDA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CASATIENDA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CASATIENDA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CASATIENDA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CASATIENDA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CASATIENDA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CASATIENDA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CASATIENDA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CASATIENDA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CASATIENDA_ARGON_KEY_LEN" default:"32"`
}

type AffiliateConfig struct {
	// Fallback applied when the stored commission rate is missing or unparsable.
	DefaultCommissionRate string `envconfig:"CASATIENDA_AFFILIATE_DEFAULT_COMMISSION_RATE" default:"0.10"`
}

type WhatsAppConfig struct {
	AccountSID string `envconfig:"CASATIENDA_TWILIO_ACCOUNT_SID"`
	AuthToken  string `envconfig:"CASATIENDA_TWILIO_AUTH_TOKEN"`
	From       string `envconfig:"CASATIENDA_TWILIO_WHATSAPP_FROM"`
	Recipient  string `envconfig:"CASATIENDA_ORDER_NOTIFY_WHATSAPP_TO"`
	BaseURL    string `envconfig:"CASATIENDA_TWILIO_BASE_URL" default:"https://api.twilio.com"`

	Timeout time.Duration `envconfig:"CASATIENDA_TWILIO_TIMEOUT" default:"10s"`
}

// Enabled reports whether outbound order notifications are configured.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccountSID != "" && w.AuthToken != "" && w.From != "" && w.Recipient != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CASATIENDA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CASATIENDA_AUTO_MIGRATE" default:"false"`
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
