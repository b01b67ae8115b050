package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently saved configurations",
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().IntVar(&recentLimit, "limit", 10, "maximum number of configurations")
}

func runRecent(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	gw, closeFn, err := newGateway(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	var recent []models.RecentConfig
	err = logger.WithSpinner("Fetching recent configs...", func() error {
		var err error
		recent, err = gw.Recent(ctx, recentLimit)
		return err
	})
	if err != nil {
		return err
	}

	if len(recent) == 0 {
		logger.Info("No saved configurations")
		return nil
	}

	table := logger.NewTable("ID", "NAME", "PARAMETERS", "DESCRIPTION")
	for _, r := range recent {
		table.AddRow(r.ID, r.Config.Name, fmt.Sprint(len(r.Config.Parameters)), r.Config.Description)
	}
	table.Print(cmd.OutOrStdout())
	return nil
}
