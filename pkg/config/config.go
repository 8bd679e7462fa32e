package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Email        EmailConfig
	SMTP         SMTPConfig
	Sendgrid     SendgridConfig
	Catalog      CatalogConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARPENTER_APP_ENV" required:"true"`
	Port         string `envconfig:"CARPENTER_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CARPENTER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARPENTER_LOG_WARN_STACK" default:"false"`
	PublicURL    string `envconfig:"CARPENTER_PUBLIC_URL" default:"http://localhost:8080"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"CARPENTER_DB_DSN"`
	Driver string `envconfig:"CARPENTER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CARPENTER_DB_HOST"`
	LegacyPort     int    `envconfig:"CARPENTER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CARPENTER_DB_USER"`
	LegacyPassword string `envconfig:"CARPENTER_DB_PASSWORD"`
	LegacyName     string `envconfig:"CARPENTER_DB_NAME"`
	LegacySSLMode  string `envconfig:"CARPENTER_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"CARPENTER_SQLITE_PATH" default:"carpenter.db"`

	MaxOpenConns    int           `envconfig:"CARPENTER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARPENTER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARPENTER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARPENTER_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"CARPENTER_DB_SLOW_QUERY" default:"200ms"`
}

// RedisConfig is optional. With neither URL nor Address set the API runs
// without rate limiting or idempotency and keeps quotation carts in memory.
type RedisConfig struct {
	URL          string        `envconfig:"CARPENTER_REDIS_URL"`
	Address      string        `envconfig:"CARPENTER_REDIS_ADDR"`
	Password     string        `envconfig:"CARPENTER_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARPENTER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARPENTER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARPENTER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARPENTER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARPENTER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARPENTER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"CARPENTER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CARPENTER_JWT_ISSUER" default:"carpenter"`
	ExpirationMinutes int    `envconfig:"CARPENTER_JWT_EXPIRATION_MINUTES" default:"120"`
}

func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CARPENTER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CARPENTER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CARPENTER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CARPENTER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CARPENTER_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	SubmissionWindow  time.Duration `envconfig:"CARPENTER_RATE_LIMIT_SUBMISSION_WINDOW" default:"10m"`
	SubmissionIPLimit int           `envconfig:"CARPENTER_RATE_LIMIT_SUBMISSION_IP_LIMIT" default:"10"`
	LoginWindow       time.Duration `envconfig:"CARPENTER_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit   int           `envconfig:"CARPENTER_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit      int           `envconfig:"CARPENTER_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	IdempotencyTTL    time.Duration `envconfig:"CARPENTER_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CARPENTER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CARPENTER_AUTO_MIGRATE" default:"false"`
}

// EmailConfig selects the outbound mail transport. In dev an unconfigured
// transport falls back to logging messages instead of sending them.
type EmailConfig struct {
	Transport string `envconfig:"CARPENTER_EMAIL_TRANSPORT" default:"smtp"`
	From      string `envconfig:"CARPENTER_EMAIL_FROM"`
	FromName  string `envconfig:"CARPENTER_EMAIL_FROM_NAME" default:"The Carpenter"`
	To        string `envconfig:"CARPENTER_EMAIL_TO"`
}

type SMTPConfig struct {
	Host     string        `envconfig:"CARPENTER_SMTP_HOST"`
	Port     int           `envconfig:"CARPENTER_SMTP_PORT" default:"587"`
	User     string        `envconfig:"CARPENTER_SMTP_USER"`
	Password string        `envconfig:"CARPENTER_SMTP_PASSWORD"`
	Timeout  time.Duration `envconfig:"CARPENTER_SMTP_TIMEOUT" default:"15s"`
}

type SendgridConfig struct {
	APIKey string `envconfig:"CARPENTER_SENDGRID_API_KEY"`
}

type CatalogConfig struct {
	DefaultPageSize int `envconfig:"CARPENTER_CATALOG_PAGE_SIZE" default:"12"`
	MaxPageSize     int `envconfig:"CARPENTER_CATALOG_MAX_PAGE_SIZE" default:"100"`
	DefaultDepth    int `envconfig:"CARPENTER_CATALOG_DEFAULT_DEPTH" default:"2"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CARPENTER_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// ValidateEmail reports every variable the selected transport is missing.
func (c *Config) ValidateEmail() error {
	var err error
	if strings.TrimSpace(c.Email.From) == "" {
		err = multierr.Append(err, fmt.Errorf("%s is required", EnvEmailFrom))
	}
	if strings.TrimSpace(c.Email.To) == "" {
		err = multierr.Append(err, fmt.Errorf("%s is required", EnvEmailTo))
	}

	switch strings.ToLower(strings.TrimSpace(c.Email.Transport)) {
	case EmailTransportSMTP:
		if strings.TrimSpace(c.SMTP.Host) == "" {
			err = multierr.Append(err, fmt.Errorf("%s is required", EnvSMTPHost))
		}
		if strings.TrimSpace(c.SMTP.User) == "" {
			err = multierr.Append(err, fmt.Errorf("%s is required", EnvSMTPUser))
		}
		if c.SMTP.Password == "" {
			err = multierr.Append(err, fmt.Errorf("%s is required", EnvSMTPPassword))
		}
	case EmailTransportSendgrid:
		if strings.TrimSpace(c.Sendgrid.APIKey) == "" {
			err = multierr.Append(err, fmt.Errorf("%s is required", EnvSendgridAPIKey))
		}
	case EmailTransportLog:
	default:
		err = multierr.Append(err, fmt.Errorf("%s must be one of smtp, sendgrid, log (got %q)", EnvEmailTransport, c.Email.Transport))
	}
	return err
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
