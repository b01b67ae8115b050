package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/picogrid/param-sweep/pkg/history"
	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage locally recorded configurations",
	Long: `Saved and loaded configurations are recorded locally, newest first.
Recording an ID that is already present replaces it.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded configurations",
	RunE:  listHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a recorded configuration",
	Args:  cobra.ExactArgs(1),
	RunE:  showHistory,
}

var historyRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Remove a recorded configuration",
	Args:    cobra.ExactArgs(1),
	RunE:    removeHistory,
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum number of entries (0 for all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRemoveCmd)
}

// openHistoryStore opens the store regardless of --no-history.
func openHistoryStore() (*history.Store, error) {
	path, err := historyPath()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		logger.Info("History is empty")
		return nil
	}

	table := logger.NewTable("ID", "NAME", "PARAMETERS", "UPDATED")
	for _, e := range entries {
		table.AddRow(e.Config.ID, e.Config.Name, fmt.Sprint(len(e.Config.Parameters)), e.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	table.Print(cmd.OutOrStdout())
	return nil
}

func showHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, ok, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("config %s is not in history", args[0])
	}

	data, err := models.EncodeDocument(&entry.Config)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), "", data)
}

func removeHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Delete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("config %s is not in history", args[0])
	}
	logger.Successf("Removed %s from history", args[0])
	return nil
}
