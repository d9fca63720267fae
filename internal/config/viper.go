// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BANKIMPORT_LOG_LEVEL.
const EnvPrefix = "BANKIMPORT"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Database struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"database" yaml:"database"`

	Import struct {
		MaxFileBytes int64 `mapstructure:"max_file_bytes" yaml:"max_file_bytes"`
		NotifyLimit  int   `mapstructure:"notify_limit" yaml:"notify_limit"`
		Parallelism  int   `mapstructure:"parallelism" yaml:"parallelism"`
	} `mapstructure:"import" yaml:"import"`

	Anomaly struct {
		Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
		MinAmount float64 `mapstructure:"min_amount" yaml:"min_amount"`
	} `mapstructure:"anomaly" yaml:"anomaly"`

	Budget struct {
		MaxSuggestions int `mapstructure:"max_suggestions" yaml:"max_suggestions"`
		Months         int `mapstructure:"months" yaml:"months"`
	} `mapstructure:"budget" yaml:"budget"`

	Forecast struct {
		Months int `mapstructure:"months" yaml:"months"`
	} `mapstructure:"forecast" yaml:"forecast"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`

	Jobs struct {
		Workers  int           `mapstructure:"workers" yaml:"workers"`
		Capacity int           `mapstructure:"capacity" yaml:"capacity"`
		Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	} `mapstructure:"jobs" yaml:"jobs"`

	Throttle struct {
		Limit  int           `mapstructure:"limit" yaml:"limit"`
		Window time.Duration `mapstructure:"window" yaml:"window"`
	} `mapstructure:"throttle" yaml:"throttle"`

	FX struct {
		TTL          time.Duration `mapstructure:"ttl" yaml:"ttl"`
		FallbackRate string        `mapstructure:"fallback_rate" yaml:"fallback_rate"`
		BaseURL      string        `mapstructure:"base_url" yaml:"base_url"`
	} `mapstructure:"fx" yaml:"fx"`

	Server struct {
		Addr           string   `mapstructure:"addr" yaml:"addr"`
		RatePerSecond  float64  `mapstructure:"rate_per_second" yaml:"rate_per_second"`
		Burst          int      `mapstructure:"burst" yaml:"burst"`
		AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
		AlertSchedule  string   `mapstructure:"alert_schedule" yaml:"alert_schedule"`
	} `mapstructure:"server" yaml:"server"`

	Mailgun struct {
		Domain    string `mapstructure:"domain" yaml:"domain"`
		APIKey    string `mapstructure:"api_key" yaml:"-"`
		Sender    string `mapstructure:"sender" yaml:"sender"`
		Recipient string `mapstructure:"recipient" yaml:"recipient"`
	} `mapstructure:"mailgun" yaml:"mailgun"`

	AI struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Model   string `mapstructure:"model" yaml:"model"`
		APIKey  string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`
}

// MailgunEnabled reports whether email notifications are configured.
func (c *Config) MailgunEnabled() bool {
	return c.Mailgun.Domain != "" && c.Mailgun.APIKey != ""
}

// InitializeConfig loads configuration with hierarchical precedence: defaults,
// then the config file, then BANKIMPORT_* environment variables. An explicit
// configFile must exist; otherwise the standard locations are searched.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.bank-import")
		v.AddConfigPath(".bank-import")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// The Gemini key is commonly exported unprefixed.
	if err := v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind ai.api_key: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// Env values arrive as a single comma-separated string.
	config.Server.AllowedOrigins = splitList(config.Server.AllowedOrigins)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("database.path", "bank-import.db")

	v.SetDefault("import.max_file_bytes", 10<<20)
	v.SetDefault("import.notify_limit", 5)
	v.SetDefault("import.parallelism", 4)

	v.SetDefault("anomaly.threshold", 2.0)
	v.SetDefault("anomaly.min_amount", 50.0)

	v.SetDefault("budget.max_suggestions", 8)
	v.SetDefault("budget.months", 3)
	v.SetDefault("forecast.months", 6)

	v.SetDefault("categories.file", "categories.yaml")

	v.SetDefault("jobs.workers", 2)
	v.SetDefault("jobs.capacity", 64)
	v.SetDefault("jobs.timeout", 30*time.Second)

	v.SetDefault("throttle.limit", 30)
	v.SetDefault("throttle.window", time.Minute)

	v.SetDefault("fx.ttl", 6*time.Hour)
	v.SetDefault("fx.fallback_rate", "")
	v.SetDefault("fx.base_url", "https://api.frankfurter.app")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_per_second", 20.0)
	v.SetDefault("server.burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.alert_schedule", "0 7 * * *")

	v.SetDefault("mailgun.domain", "")
	v.SetDefault("mailgun.api_key", "")
	v.SetDefault("mailgun.sender", "")
	v.SetDefault("mailgun.recipient", "")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.api_key", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	if config.Import.MaxFileBytes <= 0 {
		return fmt.Errorf("import.max_file_bytes must be positive, got: %d", config.Import.MaxFileBytes)
	}
	if config.Import.NotifyLimit < 0 {
		return fmt.Errorf("import.notify_limit must not be negative, got: %d", config.Import.NotifyLimit)
	}
	if config.Import.Parallelism < 1 {
		return fmt.Errorf("import.parallelism must be at least 1, got: %d", config.Import.Parallelism)
	}

	if config.Anomaly.Threshold <= 1.0 {
		return fmt.Errorf("anomaly.threshold must be greater than 1.0, got: %f", config.Anomaly.Threshold)
	}
	if config.Anomaly.MinAmount < 0 {
		return fmt.Errorf("anomaly.min_amount must not be negative, got: %f", config.Anomaly.MinAmount)
	}

	if config.Budget.MaxSuggestions < 1 {
		return fmt.Errorf("budget.max_suggestions must be at least 1, got: %d", config.Budget.MaxSuggestions)
	}
	if config.Budget.Months < 2 {
		return fmt.Errorf("budget.months must be at least 2, got: %d", config.Budget.Months)
	}
	if config.Forecast.Months < 1 {
		return fmt.Errorf("forecast.months must be at least 1, got: %d", config.Forecast.Months)
	}

	if config.Jobs.Workers < 1 || config.Jobs.Capacity < 1 {
		return fmt.Errorf("jobs.workers and jobs.capacity must be at least 1")
	}

	if config.Throttle.Limit < 1 {
		return fmt.Errorf("throttle.limit must be at least 1, got: %d", config.Throttle.Limit)
	}
	if config.Throttle.Window <= 0 {
		return fmt.Errorf("throttle.window must be positive, got: %s", config.Throttle.Window)
	}

	if config.FX.TTL <= 0 {
		return fmt.Errorf("fx.ttl must be positive, got: %s", config.FX.TTL)
	}

	if config.Server.RatePerSecond <= 0 || config.Server.Burst < 1 {
		return fmt.Errorf("server.rate_per_second and server.burst must be positive")
	}
	if config.Server.AlertSchedule != "" {
		if _, err := cron.ParseStandard(config.Server.AlertSchedule); err != nil {
			return fmt.Errorf("invalid server.alert_schedule %q: %w", config.Server.AlertSchedule, err)
		}
	}

	if config.Mailgun.Domain != "" || config.Mailgun.APIKey != "" {
		if config.Mailgun.Domain == "" || config.Mailgun.APIKey == "" || config.Mailgun.Sender == "" || config.Mailgun.Recipient == "" {
			return fmt.Errorf("mailgun requires domain, api_key, sender and recipient")
		}
	}

	if config.AI.Enabled && config.AI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
	}

	return nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
