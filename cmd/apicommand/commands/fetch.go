package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apicommand/apicommand/internal/client"
	"github.com/apicommand/apicommand/internal/config"
	"github.com/apicommand/apicommand/internal/recorder"
	"github.com/spf13/cobra"
)

type operation func(ctx context.Context, r recorder.Recorder, args []string) (client.Response, error)

func installFetchCmds(app *App) {
	app.cmd.AddCommand(
		app.newFetchCmd(&cobra.Command{
			Use:     "get <brand_id>",
			Aliases: []string{"g"},
			Short:   "get API request",
			Long:    "Fetch and record the data of a brand.",
			Args:    cobra.ExactArgs(1),
		}, func(ctx context.Context, r recorder.Recorder, args []string) (client.Response, error) {
			return r.Get(ctx, args[0])
		}),

		app.newFetchCmd(&cobra.Command{
			Use:     "last_run <brand_id> <location_id>",
			Aliases: []string{"l"},
			Short:   "last run API request",
			Long:    "Fetch and record the last run of a brand at a location.",
			Args:    cobra.ExactArgs(2),
		}, func(ctx context.Context, r recorder.Recorder, args []string) (client.Response, error) {
			return r.LastRun(ctx, args[0], args[1])
		}),

		app.newFetchCmd(&cobra.Command{
			Use:     "run <brand_id> <location_id>",
			Aliases: []string{"r"},
			Short:   "run API request",
			Long:    "Fetch and record the runs of a brand at a location.",
			Args:    cobra.ExactArgs(2),
		}, func(ctx context.Context, r recorder.Recorder, args []string) (client.Response, error) {
			return r.Run(ctx, args[0], args[1])
		}),

		app.newFetchCmd(&cobra.Command{
			Use:     "specific <brand_id> <location_id> <from_date> <to_date>",
			Aliases: []string{"s"},
			Short:   "specific API request",
			Long: `Fetch and record the runs of a brand at a location between two dates.

Dates are Unix timestamps in milliseconds, and to_date can't be before from_date.`,
			Args: cobra.ExactArgs(4),
		}, func(ctx context.Context, r recorder.Recorder, args []string) (client.Response, error) {
			return r.Specific(ctx, args[0], args[1], args[2], args[3])
		}),
	)
}

// newFetchCmd completes cmd so that it runs op and prints the resolved URL of the response.
func (a *App) newFetchCmd(cmd *cobra.Command, op operation) *cobra.Command {
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		slog.Info("Running command", "command", cmd.Name())
		return a.fetchRun(cmd, args, op)
	}
	return cmd
}

func (a App) fetchRun(cmd *cobra.Command, args []string, op operation) error {
	cfg, err := config.New(a.config.APIRoot, a.config.APIKey, a.config.DatabasePath)
	if err != nil {
		return err
	}

	r, err := recorder.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create recorder: %w", err)
	}

	resp, err := op(cmd.Context(), r, args)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), resp.URL)
	return err
}
