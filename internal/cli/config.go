// Package cli provides utility functions for the command line interface.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// InitViperConfig loads the configuration file passed with the config flag into vip, if any.
// Only an explicitly given file is read: there are no default search paths and no environment variables.
func InitViperConfig(cmd *cobra.Command, vip *viper.Viper) error {
	f := cmd.Flag("config")
	if f == nil || f.Value.String() == "" {
		slog.Debug("No configuration file, only using defaults and flags")
		return nil
	}

	vip.SetConfigFile(f.Value.String())
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("invalid configuration file: %w", err)
	}
	slog.Info("Using configuration file", "file", vip.ConfigFileUsed())

	return nil
}

// InstallConfigFlag adds a config flag to the command.
func InstallConfigFlag(cmd *cobra.Command) *string {
	s := cmd.PersistentFlags().String("config", "", "use a specific configuration file (yaml, toml or json)")
	if err := cmd.MarkPersistentFlagFilename("config", "yaml", "yml", "toml", "json"); err != nil {
		panic(fmt.Sprintf("failed to mark config flag as filename: %v", err))
	}
	return s
}
