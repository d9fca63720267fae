// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fintrack/bank-import/internal/config"
	"fintrack/bank-import/internal/container"
	"fintrack/bank-import/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to all commands
type CommonFlags struct {
	ConfigFile string
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.NewLogrusAdapter("info", "text")

	// AppConfig is loaded before any subcommand runs.
	AppConfig *config.Config

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bank-import",
		Short: "Import bank statements and analyse spending.",
		Long: `bank-import recognises statements from French, British and other banks
(CSV, Excel, PDF, CAMT.053), stores categorized transactions and reports on
unusual expenses, budgets and spending trends.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	initOnce sync.Once
)

// Init registers the persistent flags. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default: config.yaml in $HOME/.bank-import, .bank-import or .)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Override the configured log level")
	})
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		level := strings.ToLower(SharedFlags.LogLevel)
		if _, err := logrus.ParseLevel(level); err != nil {
			return fmt.Errorf("invalid --log-level %q", SharedFlags.LogLevel)
		}
		cfg.Log.Level = level
	}
	AppConfig = cfg
	Log = config.NewLogger(cfg)
	Log.Debug("Configuration loaded", logging.Field{Key: logging.FieldOperation, Value: cmd.Name()})
	return nil
}

// NewContainer wires the application from AppConfig.
func NewContainer(ctx context.Context) (*container.Container, error) {
	if AppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return container.NewContainer(ctx, AppConfig)
}
