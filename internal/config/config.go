package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	STORAGE_POSTGRES = "postgres"
	STORAGE_MONGODB  = "mongodb"
)

type Config struct {
	Port           uint16   `env:"PORT" envDefault:"9090"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	LogDevelopment bool     `env:"LOG_DEVELOPMENT" envDefault:"false"`

	Storage         string `env:"STORAGE" envDefault:"postgres"`
	PostgresqlURL   string `env:"POSTGRESQL_URL"`
	MigrateOnStart  bool   `env:"MIGRATE_ON_START" envDefault:"true"`
	MongodbURL      string `env:"MONGODB_URL"`
	MongodbDatabase string `env:"MONGODB_DATABASE" envDefault:"sliderapp"`
	RedisURL        string `env:"REDIS_URL,notEmpty"`

	RabbitmqURL                 string `env:"RABBITMQ_URL,notEmpty"`
	RabbitmqExchange            string `env:"RABBITMQ_EXCHANGE" envDefault:"sliderapp"`
	RabbitmqRunReportRoutingKey string `env:"RABBITMQ_RUN_REPORT_ROUTING_KEY" envDefault:"scheduler.run_report"`
	RabbitmqRunRequestQueue     string `env:"RABBITMQ_RUN_REQUEST_QUEUE" envDefault:"scheduler.run_request"`

	SchedulerPeriod   time.Duration `env:"SCHEDULER_PERIOD" envDefault:"1m"`
	SchedulerLockKey  string        `env:"SCHEDULER_LOCK_KEY" envDefault:"scheduler"`
	SchedulerLockTTL  time.Duration `env:"SCHEDULER_LOCK_TTL" envDefault:"5m"`
	SchedulerLockWait time.Duration `env:"SCHEDULER_LOCK_WAIT" envDefault:"0s"`

	DispatchConcurrency int           `env:"DISPATCH_CONCURRENCY" envDefault:"10"`
	DispatchTimeout     time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"10s"`

	VapidPublicKey  string        `env:"VAPID_PUBLIC_KEY"`
	VapidPrivateKey string        `env:"VAPID_PRIVATE_KEY"`
	VapidSubscriber string        `env:"VAPID_SUBSCRIBER" envDefault:"mailto:admin@example.com"`
	WebPushTTL      time.Duration `env:"WEBPUSH_TTL" envDefault:"24h"`

	AwsRegion                string `env:"AWS_REGION"`
	AwsAccessKey             string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey             string `env:"AWS_SECRET_KEY"`
	AwsEmailSender           string `env:"AWS_EMAIL_SENDER"`
	AwsEmailReminderTemplate string `env:"AWS_EMAIL_REMINDER_TEMPLATE" envDefault:"reminder"`

	TelegramBaseURL        url.URL       `env:"TELEGRAM_BASE_URL" envDefault:"https://api.telegram.org"`
	TelegramBotToken       string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramRequestTimeout time.Duration `env:"TELEGRAM_REQUEST_TIMEOUT" envDefault:"5s"`

	RateLimitPerMinute uint16 `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`
}

func (c *Config) IsWebPushEnabled() bool {
	return c.VapidPublicKey != "" && c.VapidPrivateKey != ""
}

func (c *Config) IsAwsEnabled() bool {
	return c.AwsRegion != "" && c.AwsAccessKey != "" && c.AwsSecretKey != ""
}

func (c *Config) IsEmailEnabled() bool {
	return c.IsAwsEnabled() && c.AwsEmailSender != ""
}

func (c *Config) IsTelegramEnabled() bool {
	return c.TelegramBotToken != ""
}

func (c *Config) Validate() error {
	switch c.Storage {
	case STORAGE_POSTGRES:
		if c.PostgresqlURL == "" {
			return fmt.Errorf("POSTGRESQL_URL must be set for %s storage", STORAGE_POSTGRES)
		}
	case STORAGE_MONGODB:
		if c.MongodbURL == "" {
			return fmt.Errorf("MONGODB_URL must be set for %s storage", STORAGE_MONGODB)
		}
	default:
		return fmt.Errorf("unknown STORAGE value %q", c.Storage)
	}
	if c.SchedulerPeriod <= 0 {
		return fmt.Errorf("SCHEDULER_PERIOD must be positive")
	}
	if c.SchedulerLockTTL <= 0 {
		return fmt.Errorf("SCHEDULER_LOCK_TTL must be positive")
	}
	if c.SchedulerLockKey == "" {
		return fmt.Errorf("SCHEDULER_LOCK_KEY must not be empty")
	}
	if c.RateLimitPerMinute == 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

// Load reads an optional .env file and then the process environment.
// Variables that are already set take precedence over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not read %s: %w", file, err)
		}
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
