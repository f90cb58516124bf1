package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrintel/internal/config"
	"hrintel/internal/errors"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}
type vaultKeyType struct{}

var (
	configKey = configKeyType{}
	loggerKey = loggerKeyType{}
	vaultKey  = vaultKeyType{}
)

var configFile string

// configFlags maps a command to the config keys its flags override.
var configFlags = map[*cobra.Command]map[string]string{}

var rootCmd = &cobra.Command{
	Use:   "hrintel",
	Short: "Prepare technical interviews from job descriptions",
	Long: `hrintel reads a job description, detects the skills it asks for,
suggests the role and generates targeted interview questions for the chosen
seniority level. Interview scores can be recorded and ranked.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadApplication,
}

// Execute runs the root command. Configuration and logging are set up once
// the subcommand is known.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadApplication loads config, creates the logger, applies Vault secrets
// and stores them in the command context.
func loadApplication(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile, flagBinder(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := errors.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	// stdout carries reports and the MCP protocol
	logger := errors.NewLoggerWithWriter(os.Stderr, level)

	vault, err := config.ApplyVaultSecrets(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to apply vault secrets: %w", err)
	}

	logger.Debug("Starting hrintel",
		"version", Version,
		"command", cmd.Name(),
		"log_level", cfg.App.LogLevel,
		"ai_enabled", cfg.AI.Enabled)

	ctx := context.WithValue(cmd.Context(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	ctx = context.WithValue(ctx, vaultKey, vault)
	cmd.SetContext(ctx)
	return nil
}

// bindConfigFlag lets flag override config key when cmd runs.
func bindConfigFlag(cmd *cobra.Command, key, flag string) {
	if configFlags[cmd] == nil {
		configFlags[cmd] = map[string]string{}
	}
	configFlags[cmd][key] = flag
}

func flagBinder(cmd *cobra.Command) config.Binder {
	return func(v *viper.Viper) error {
		for key, flag := range configFlags[cmd] {
			if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return fmt.Errorf("flag --%s: %w", flag, err)
			}
		}
		return nil
	}
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context")
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context")
}

// getVaultFromContext returns nil when Vault is disabled.
func getVaultFromContext(ctx context.Context) *config.VaultClient {
	vault, _ := ctx.Value(vaultKey).(*config.VaultClient)
	return vault
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: config.yaml in /etc/hrintel, $HOME/.hrintel or .)")

	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
