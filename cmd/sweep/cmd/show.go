package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/picogrid/param-sweep/pkg/models"
)

var showID string

var showCmd = &cobra.Command{
	Use:   "show [file|-]",
	Short: "Print a configuration as JSON",
	Long: `Print the JSON preview of a configuration document, of a saved
configuration (--id) or, with no arguments, of the most recent history entry.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showID, "id", "", "fetch the configuration with this ID from the backend")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	var cfg *models.Configuration
	switch {
	case len(args) == 1:
		doc, err := readDocument(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		cfg = doc
	case showID != "":
		c, err := newClient(ctx)
		if err != nil {
			return err
		}
		if cfg, err = c.GetConfig(ctx, showID); err != nil {
			return err
		}
	default:
		store, err := openHistory()
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("no configuration given and history is disabled")
		}
		defer store.Close()

		entry, ok, err := store.Latest(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no configuration given and history is empty")
		}
		cfg = &entry.Config
	}

	data, err := models.EncodeDocument(cfg)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), "", data)
}
