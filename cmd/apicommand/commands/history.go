package commands

import (
	"fmt"

	"github.com/apicommand/apicommand/internal/constants"
	"github.com/apicommand/apicommand/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func installHistoryCmd(app *App) {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the most recently recorded responses",
		Long: `Print the most recently recorded responses, newest first, as YAML.

Nothing is sent to the API and no response is recorded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.historyRun(cmd, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", constants.DefaultHistoryLimit, "maximum number of responses to print, 0 for all of them")

	app.cmd.AddCommand(cmd)
}

func (a App) historyRun(cmd *cobra.Command, limit int) error {
	s, err := store.New(a.config.DatabasePath)
	if err != nil {
		return err
	}

	rows, err := s.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	defer enc.Close()
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode responses: %v", err)
	}
	return nil
}
