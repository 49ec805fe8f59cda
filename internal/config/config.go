package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
	StorePgx       = "pgx"
	StoreSQLite    = "sqlite"

	RelayModeTelegram = "telegram"
	RelayModeDisabled = "disabled"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Store    StoreConfig
	Relay    RelayConfig
	Telegram TelegramConfig
	Queue    QueueConfig
	Mail     MailConfig

	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	Timezone           string        `env:"TIMEZONE" envDefault:"Europe/Minsk"`
}

type StoreConfig struct {
	Driver     string `env:"STORE_DRIVER" envDefault:"firestore"`
	Collection string `env:"STORE_COLLECTION" envDefault:"unic"`

	FirestoreProjectID       string `env:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string `env:"FIRESTORE_CREDENTIALS_FILE"`

	DatabaseURL string `env:"DATABASE_URL"`
}

type RelayConfig struct {
	URL     string        `env:"RELAY_URL" envDefault:"http://localhost:8080/relay/applications"`
	Timeout time.Duration `env:"RELAY_TIMEOUT" envDefault:"10s"`
	Mode    string        `env:"RELAY_MODE" envDefault:"telegram"`
}

type TelegramConfig struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `env:"TELEGRAM_CHAT_ID"`
}

func (t TelegramConfig) Configured() bool {
	return t.BotToken != "" && t.ChatID != ""
}

type QueueConfig struct {
	AMQPURL string `env:"AMQP_URL"`
}

func (q QueueConfig) Enabled() bool {
	return q.AMQPURL != ""
}

type MailConfig struct {
	Host     string `env:"MAIL_HOST"`
	Port     int    `env:"MAIL_PORT" envDefault:"587"`
	User     string `env:"MAIL_USER"`
	Password string `env:"MAIL_PASS"`
	From     string `env:"MAIL_FROM" envDefault:"nao-responda@unic.by"`
	To       string `env:"MAIL_TO"`
}

func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.To != ""
}

// Load reads .env (if present) and the process environment. It does not
// validate; callers pick the Validate* checks their command needs.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%w: parse env: %v", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// ValidateServer fails fast on settings the HTTP server cannot run without.
func (c *Config) ValidateServer() error {
	var problems []string

	switch c.Store.Driver {
	case StoreFirestore:
		if c.Store.FirestoreProjectID == "" {
			problems = append(problems, "FIRESTORE_PROJECT_ID is required for the firestore store")
		}
	case StorePostgres, StorePgx:
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required for the "+c.Store.Driver+" store")
		}
	case StoreSQLite:
	default:
		problems = append(problems, fmt.Sprintf("unknown STORE_DRIVER %q", c.Store.Driver))
	}
	if strings.TrimSpace(c.Store.Collection) == "" {
		problems = append(problems, "STORE_COLLECTION must not be empty")
	}

	if u, err := url.Parse(c.Relay.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("RELAY_URL %q must be an absolute http(s) URL", c.Relay.URL))
	}
	if c.Relay.Timeout <= 0 {
		problems = append(problems, "RELAY_TIMEOUT must be positive")
	}

	switch c.Relay.Mode {
	case RelayModeTelegram:
		if c.Telegram.BotToken == "" {
			problems = append(problems, "TELEGRAM_BOT_TOKEN is required when RELAY_MODE=telegram")
		}
		if c.Telegram.ChatID == "" {
			problems = append(problems, "TELEGRAM_CHAT_ID is required when RELAY_MODE=telegram")
		}
	case RelayModeDisabled:
	default:
		problems = append(problems, fmt.Sprintf("unknown RELAY_MODE %q", c.Relay.Mode))
	}

	if c.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}

	return joinProblems(problems)
}

// ValidateWorker checks what the e-mail worker needs.
func (c *Config) ValidateWorker() error {
	var problems []string
	if !c.Queue.Enabled() {
		problems = append(problems, "AMQP_URL is required for the worker")
	}
	if !c.Mail.Enabled() {
		problems = append(problems, "MAIL_HOST and MAIL_TO are required for the worker")
	}
	return joinProblems(problems)
}

// Location returns the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func joinProblems(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}
