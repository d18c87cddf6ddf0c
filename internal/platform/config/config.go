package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures process-level configuration. Every field comes from the
// environment; defaults are tuned for local development.
type Server struct {
	Addr          string        `env:"PEOPLEHUB_ADDR" envDefault:":8080"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	JWTSigningKey string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`

	// PhoneEmailDomain is the domain of placeholder emails synthesized for
	// accounts created by a phone sign-in.
	PhoneEmailDomain string `env:"PHONE_EMAIL_DOMAIN" envDefault:"phone.peoplehub.local"`

	Bootstrap BootstrapConfig
	Database  Database
	Redis     RedisConfig
	Audit     AuditConfig
	OAuth     OAuthConfig
	Phone     PhoneConfig
	Tracing   TracingConfig
}

// BootstrapConfig seeds the first admin account at startup when both fields are set.
type BootstrapConfig struct {
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// Database configures the document store. An empty URL selects in-memory stores.
type Database struct {
	URL          string        `env:"DATABASE_URL"`
	MaxOpenConns int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLife  time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// RedisConfig configures the cache store. An empty URL selects the in-memory cache.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"2s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"500ms"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"500ms"`
}

// AuditConfig configures the audit stream. No brokers selects the in-memory sink.
type AuditConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"AUDIT_TOPIC" envDefault:"peoplehub.audit"`
}

// OAuthConfig holds a single OAuth provider (Google-compatible endpoints).
type OAuthConfig struct {
	ProviderName string `env:"OAUTH_PROVIDER_NAME" envDefault:"google"`
	ClientID     string `env:"OAUTH_GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"OAUTH_GOOGLE_CLIENT_SECRET"`
	RedirectURI  string `env:"OAUTH_GOOGLE_REDIRECT_URI"`
	TokenURL     string `env:"OAUTH_GOOGLE_TOKEN_URL" envDefault:"https://oauth2.googleapis.com/token"`
	UserInfoURL  string `env:"OAUTH_GOOGLE_USERINFO_URL" envDefault:"https://openidconnect.googleapis.com/v1/userinfo"`
}

// PhoneConfig points at the one-time-code assertion verifier.
type PhoneConfig struct {
	VerifyURL string `env:"PHONE_VERIFY_URL"`
	APIKey    string `env:"PHONE_VERIFY_API_KEY"`
}

// TracingConfig enables OTLP trace export when Endpoint is set.
type TracingConfig struct {
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	ServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"peoplehub"`
	SampleRatio float64 `env:"OTEL_TRACES_SAMPLE_RATIO" envDefault:"1"`
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
