package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Admin         AdminConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SOLEHAUS_APP_ENV" required:"true"`
	Port         string `envconfig:"SOLEHAUS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SOLEHAUS_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SOLEHAUS_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SOLEHAUS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN string `envconfig:"SOLEHAUS_DB_DSN"`

	LegacyHost     string `envconfig:"SOLEHAUS_DB_HOST"`
	LegacyPort     int    `envconfig:"SOLEHAUS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SOLEHAUS_DB_USER"`
	LegacyPassword string `envconfig:"SOLEHAUS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SOLEHAUS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SOLEHAUS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOLEHAUS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOLEHAUS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOLEHAUS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOLEHAUS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOLEHAUS_REDIS_URL"`
	Address      string        `envconfig:"SOLEHAUS_REDIS_ADDR"`
	Password     string        `envconfig:"SOLEHAUS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOLEHAUS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOLEHAUS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOLEHAUS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOLEHAUS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOLEHAUS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOLEHAUS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint is configured. Rate limiting is skipped without one.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// SessionConfig holds the signing secrets and lifetimes for the admin and buyer session cookies.
// Secrets are read once at start-up and never reloaded.
type SessionConfig struct {
	AdminSecret  string        `envconfig:"SOLEHAUS_ADMIN_SESSION_SECRET" required:"true"`
	BuyerSecret  string        `envconfig:"SOLEHAUS_BUYER_SESSION_SECRET" required:"true"`
	AdminMaxAge  time.Duration `envconfig:"SOLEHAUS_ADMIN_SESSION_MAX_AGE" default:"168h"`
	BuyerMaxAge  time.Duration `envconfig:"SOLEHAUS_BUYER_SESSION_MAX_AGE" default:"720h"`
	CookieSecure *bool         `envconfig:"SOLEHAUS_SESSION_COOKIE_SECURE"`
}

// SecureCookies resolves the cookie Secure flag, defaulting to on in production.
func (s SessionConfig) SecureCookies(app AppConfig) bool {
	if s.CookieSecure != nil {
		return *s.CookieSecure
	}
	return app.IsProd()
}

func (s SessionConfig) validate() error {
	if strings.TrimSpace(s.AdminSecret) == "" {
		return fmt.Errorf("%s is required", EnvAdminSessionSecret)
	}
	if strings.TrimSpace(s.BuyerSecret) == "" {
		return fmt.Errorf("%s is required", EnvBuyerSessionSecret)
	}
	if s.AdminSecret == s.BuyerSecret {
		return fmt.Errorf("%s and %s must differ", EnvAdminSessionSecret, EnvBuyerSessionSecret)
	}
	if s.AdminMaxAge <= 0 {
		return fmt.Errorf("%s must be positive", EnvAdminSessionMaxAge)
	}
	if s.BuyerMaxAge <= 0 {
		return fmt.Errorf("%s must be positive", EnvBuyerSessionMaxAge)
	}
	return nil
}

type AdminConfig struct {
	PasswordHash string `envconfig:"SOLEHAUS_ADMIN_PASSWORD_HASH"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SOLEHAUS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SOLEHAUS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SOLEHAUS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SOLEHAUS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SOLEHAUS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"SOLEHAUS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"SOLEHAUS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"SOLEHAUS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SOLEHAUS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SOLEHAUS_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SOLEHAUS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
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
