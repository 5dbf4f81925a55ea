// Package commands is the command line interface of apicommand.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/apicommand/apicommand/internal/cli"
	"github.com/apicommand/apicommand/internal/constants"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config appConfig
}

// appConfig holds the configuration for the application.
type appConfig struct {
	APIKey       string `mapstructure:"api_key"`
	APIRoot      string `mapstructure:"api_root"`
	DatabasePath string `mapstructure:"database_path"`

	Verbosity int  `mapstructure:"verbose"`
	Quiet     bool `mapstructure:"quiet"`
	JSONLogs  bool `mapstructure:"json-logs"`

	ConfigPath string `mapstructure:"config"`
}

// New creates a new App instance with default values.
func New() (*App, error) {
	a := App{}

	a.cmd = &cobra.Command{
		Use:   constants.CmdName,
		Short: "Send read-only API requests and record their responses",
		Long: `Send parameterized read-only requests to the API and record every successful response
in a local SQLite database for later inspection.

The resolved URL of the response is printed on success.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Flag groups are only checked by cobra after this hook, which would report them as runtime errors.
			if err := cmd.ValidateFlagGroups(); err != nil {
				return err
			}

			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetSlog(a.config.Verbosity, a.config.Quiet, a.config.JSONLogs) // Set verbosity before loading config
			if err := cli.InitViperConfig(a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config, func(dc *mapstructure.DecoderConfig) {
				dc.ErrorUnused = true
			}); err != nil {
				return fmt.Errorf("unable to strictly decode configuration into struct: %w", err)
			}

			cli.SetSlog(a.config.Verbosity, a.config.Quiet, a.config.JSONLogs) // Update logging after loading config if necessary
			slog.Debug("Got app config", "api_root", a.config.APIRoot, "database_path", a.config.DatabasePath, "api_key_set", a.config.APIKey != "")
			return nil
		},
	}
	a.viper = viper.New()
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}

	installFetchCmds(&a)
	installHistoryCmd(&a)
	a.installVersion()

	return &a, nil
}

func installRootCmd(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().StringVarP(&app.config.APIKey, "api_key", "k", "", "optional API authentication key, sent as the "+constants.APIKeyHeader+" header")
	cmd.PersistentFlags().StringVarP(&app.config.APIRoot, "api_root", "r", constants.DefaultAPIRoot, "api root for requests")
	cmd.PersistentFlags().StringVarP(&app.config.DatabasePath, "database_path", "d", constants.DefaultDatabasePath, "database path")

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbose", "v", "issue INFO (-v), DEBUG (-vv)")
	cmd.PersistentFlags().BoolVarP(&app.config.Quiet, "quiet", "q", false, "only print errors")
	cmd.PersistentFlags().BoolVar(&app.config.JSONLogs, "json-logs", false, "enable JSON formatted logs")

	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	if err := cmd.MarkPersistentFlagFilename("database_path", "sqlite3", "sqlite", "db"); err != nil {
		panic(fmt.Sprintf("failed to mark database_path flag as filename: %v", err))
	}
}

// Run executes the command and associated process, returning an error if any.
func (a App) Run() error {
	return a.cmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// RootCmd returns the root command.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}
