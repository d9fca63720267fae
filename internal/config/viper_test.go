package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"BANKIMPORT_LOG_LEVEL", "BANKIMPORT_LOG_FORMAT", "BANKIMPORT_DATABASE_PATH",
	"BANKIMPORT_IMPORT_NOTIFY_LIMIT", "BANKIMPORT_ANOMALY_THRESHOLD", "BANKIMPORT_THROTTLE_WINDOW",
	"BANKIMPORT_SERVER_ALLOWED_ORIGINS", "BANKIMPORT_AI_ENABLED", "BANKIMPORT_AI_API_KEY",
	"BANKIMPORT_MAILGUN_DOMAIN", "BANKIMPORT_MAILGUN_API_KEY", "GEMINI_API_KEY",
}

// clearTestEnvVars blanks variables that would leak into the config under test.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range testEnvVars {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	clearTestEnvVars(t)
	config, err := InitializeConfig(writeConfig(t, "log:\n  level: info\n"))
	require.NoError(t, err)
	return config
}

func TestInitializeConfig_Defaults(t *testing.T) {
	config := defaultConfig(t)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "bank-import.db", config.Database.Path)
	assert.Equal(t, int64(10<<20), config.Import.MaxFileBytes)
	assert.Equal(t, 5, config.Import.NotifyLimit)
	assert.Equal(t, 2.0, config.Anomaly.Threshold)
	assert.Equal(t, 50.0, config.Anomaly.MinAmount)
	assert.Equal(t, 8, config.Budget.MaxSuggestions)
	assert.Equal(t, 3, config.Budget.Months)
	assert.Equal(t, 6, config.Forecast.Months)
	assert.Equal(t, time.Minute, config.Throttle.Window)
	assert.Equal(t, 6*time.Hour, config.FX.TTL)
	assert.Equal(t, []string{"*"}, config.Server.AllowedOrigins)
	assert.Equal(t, "0 7 * * *", config.Server.AlertSchedule)
	assert.False(t, config.AI.Enabled)
	assert.False(t, config.MailgunEnabled())
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	path := writeConfig(t, `
log:
  level: "warn"
  format: "json"
database:
  path: "/var/lib/bank-import/data.db"
anomaly:
  threshold: 3
throttle:
  limit: 5
  window: 30s
server:
  allowed_origins: ["https://app.example.com"]
`)

	config, err := InitializeConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "/var/lib/bank-import/data.db", config.Database.Path)
	assert.Equal(t, 3.0, config.Anomaly.Threshold)
	assert.Equal(t, 5, config.Throttle.Limit)
	assert.Equal(t, 30*time.Second, config.Throttle.Window)
	assert.Equal(t, []string{"https://app.example.com"}, config.Server.AllowedOrigins)
	assert.Equal(t, 8, config.Budget.MaxSuggestions, "unset keys keep defaults")
}

func TestInitializeConfig_ZeroMinAmount(t *testing.T) {
	clearTestEnvVars(t)
	path := writeConfig(t, "anomaly:\n  min_amount: 0\n")

	config, err := InitializeConfig(path)
	require.NoError(t, err)
	assert.Zero(t, config.Anomaly.MinAmount, "an explicit zero disables the anomaly floor")
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	path := writeConfig(t, `
log:
  level: "warn"
import:
  notify_limit: 3
`)

	t.Setenv("BANKIMPORT_LOG_LEVEL", "error")
	t.Setenv("BANKIMPORT_THROTTLE_WINDOW", "2m")
	t.Setenv("BANKIMPORT_SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("BANKIMPORT_AI_ENABLED", "true")
	t.Setenv("GEMINI_API_KEY", "env-api-key")

	config, err := InitializeConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, 3, config.Import.NotifyLimit)
	assert.Equal(t, 2*time.Minute, config.Throttle.Window)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, config.Server.AllowedOrigins)
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, "env-api-key", config.AI.APIKey)
}

func TestInitializeConfig_MissingExplicitFile(t *testing.T) {
	clearTestEnvVars(t)
	_, err := InitializeConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{name: "invalid log level", modifyConfig: func(c *Config) { c.Log.Level = "loud" }, expectError: "invalid log level"},
		{name: "invalid log format", modifyConfig: func(c *Config) { c.Log.Format = "xml" }, expectError: "invalid log format"},
		{name: "empty database path", modifyConfig: func(c *Config) { c.Database.Path = "" }, expectError: "database.path"},
		{name: "zero max file size", modifyConfig: func(c *Config) { c.Import.MaxFileBytes = 0 }, expectError: "import.max_file_bytes"},
		{name: "threshold not above one", modifyConfig: func(c *Config) { c.Anomaly.Threshold = 1 }, expectError: "anomaly.threshold"},
		{name: "single budget month", modifyConfig: func(c *Config) { c.Budget.Months = 1 }, expectError: "budget.months"},
		{name: "zero throttle window", modifyConfig: func(c *Config) { c.Throttle.Window = 0 }, expectError: "throttle.window"},
		{name: "bad alert schedule", modifyConfig: func(c *Config) { c.Server.AlertSchedule = "every day" }, expectError: "server.alert_schedule"},
		{
			name: "partial mailgun settings",
			modifyConfig: func(c *Config) {
				c.Mailgun.Domain = "mg.example.com"
				c.Mailgun.APIKey = "key"
			},
			expectError: "mailgun requires",
		},
		{
			name: "AI enabled without API key",
			modifyConfig: func(c *Config) {
				c.AI.Enabled = true
				c.AI.APIKey = ""
			},
			expectError: "GEMINI_API_KEY required when AI is enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := defaultConfig(t)
			tt.modifyConfig(config)

			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestValidateConfig_CompleteMailgun(t *testing.T) {
	config := defaultConfig(t)
	config.Mailgun.Domain = "mg.example.com"
	config.Mailgun.APIKey = "key"
	config.Mailgun.Sender = "alerts@example.com"
	config.Mailgun.Recipient = "me@example.com"

	assert.NoError(t, validateConfig(config))
	assert.True(t, config.MailgunEnabled())
}

func TestLoadEnv(t *testing.T) {
	clearTestEnvVars(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BANKIMPORT_DATABASE_PATH=from-dotenv.db\n"), 0600))
	// godotenv does not override variables that are already set, even to "".
	require.NoError(t, os.Unsetenv("BANKIMPORT_DATABASE_PATH"))
	t.Cleanup(func() { _ = os.Unsetenv("BANKIMPORT_DATABASE_PATH") })

	loaded, err := LoadEnv(filepath.Join(dir, "missing.env"), envFile)
	require.NoError(t, err)
	assert.Equal(t, envFile, loaded)

	config, err := InitializeConfig(writeConfig(t, "log:\n  level: info\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", config.Database.Path)
}

func TestLoadEnv_NoFile(t *testing.T) {
	loaded, err := LoadEnv(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestNewLogger(t *testing.T) {
	config := defaultConfig(t)
	assert.NotNil(t, NewLogger(config))
}
