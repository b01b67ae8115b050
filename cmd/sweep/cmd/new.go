package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/picogrid/param-sweep/pkg/form"
	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
	"github.com/picogrid/param-sweep/pkg/utils"
)

var (
	newFrom   string
	newOut    string
	newNoSave bool
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a configuration interactively",
	Long: `Walk through the configuration form: name, description and one or more
parameters whose values are typed in or generated from a range or formula.
The result is saved to the backend unless --no-save is given.`,
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVar(&newFrom, "from", "", "start from an existing JSON or YAML document")
	newCmd.Flags().StringVarP(&newOut, "out", "o", "", "also write the configuration to this file")
	newCmd.Flags().BoolVar(&newNoSave, "no-save", false, "do not save to the backend")
}

func runNew(cmd *cobra.Command, args []string) error {
	if !logger.IsTerminal(os.Stdin) {
		return errors.New("new requires an interactive terminal; use save with a document instead")
	}

	f := form.New()
	if newFrom != "" {
		doc, err := utils.LoadDocument(newFrom)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", newFrom, err)
		}
		f = form.FromConfig(&doc.Config)
	}

	logger.LogSection("New Configuration")
	if err := utils.PromptForm(f); err != nil {
		if errors.Is(err, utils.ErrCancelled) {
			logger.Info("Cancelled")
			return nil
		}
		return err
	}

	cfg, err := f.Build()
	if err != nil {
		return err
	}

	if !newNoSave {
		ctx, cancel := signalContext()
		defer cancel()

		gw, closeFn, err := newGateway(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		if cfg, err = f.Save(ctx, gw); err != nil {
			return err
		}
	}

	if newOut != "" {
		if err := writeDocument(newOut, cfg); err != nil {
			return err
		}
		logger.Successf("Wrote %s", newOut)
	}
	return nil
}

func writeDocument(path string, cfg *models.Configuration) error {
	data, err := models.EncodeDocument(cfg)
	if err != nil {
		return err
	}
	return writeOutput(nil, path, data)
}
