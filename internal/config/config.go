package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort   string `env:"PORT" envDefault:"3000"`
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	StaticDir string `env:"STATIC_DIR" envDefault:"dist"`

	Upstreams Upstreams
	OTP       OTPConfig
	Notify    NotifyConfig
	AWS       AWSConfig
	SMTP      SMTPConfig
	Log       LogConfig

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","` // CORS allowed origins
}

// Upstreams holds the proxy targets and how they are reached.
type Upstreams struct {
	TokenURL    string        `env:"TOKEN_UPSTREAM_URL" envDefault:"https://acme-dcunited-connector-app-58a61db33e61.herokuapp.com"`
	CommerceURL string        `env:"COMMERCE_UPSTREAM_URL" envDefault:"https://mnrw0zbyh0yt0mldmmytqzrxg0.c360a.salesforce.com"`
	Timeout     time.Duration `env:"PROXY_TIMEOUT" envDefault:"30s"`
	// InsecureSkipVerify disables upstream certificate checks. Dev only.
	InsecureSkipVerify bool `env:"PROXY_INSECURE_SKIP_VERIFY" envDefault:"false"`
}

type OTPConfig struct {
	TTL time.Duration `env:"OTP_TTL" envDefault:"5m"`
}

// NotifyConfig configures the primary notification sinks. An empty webhook
// URL and topic ARN leave only the diagnostic log fallback.
type NotifyConfig struct {
	Timeout     time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`
	WebhookURL  string        `env:"NOTIFY_WEBHOOK_URL"`
	SNSTopicARN string        `env:"SNS_TOPIC_ARN"`
}

type AWSConfig struct {
	Region      string `env:"AWS_REGION" envDefault:"us-east-1"`
	EndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	SecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"1025"`
	From     string `env:"SMTP_FROM" envDefault:"noreply@example.com"`
	To       string `env:"SMTP_TO"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	TLS      bool   `env:"SMTP_TLS" envDefault:"false"`
}

// Enabled reports whether the e-mail sink has somewhere to send.
func (c SMTPConfig) Enabled() bool { return c.Host != "" && c.To != "" }

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads all configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.OTP.TTL <= 0 {
		return nil, fmt.Errorf("OTP_TTL must be positive, got %s", cfg.OTP.TTL)
	}
	if cfg.Notify.Timeout <= 0 {
		return nil, fmt.Errorf("NOTIFY_TIMEOUT must be positive, got %s", cfg.Notify.Timeout)
	}
	if cfg.Upstreams.Timeout <= 0 {
		return nil, fmt.Errorf("PROXY_TIMEOUT must be positive, got %s", cfg.Upstreams.Timeout)
	}
	return cfg, nil
}
