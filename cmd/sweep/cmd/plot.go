package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
	"github.com/picogrid/param-sweep/pkg/plot"
	"github.com/picogrid/param-sweep/pkg/utils"
)

var (
	plotFile      string
	plotID        string
	plotX         string
	plotY         string
	plotIndex     bool
	plotObjective string
	plotFormat    string
	plotOut       string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot one parameter against another",
	Long: `Project a configuration onto x, y and an objective computed from x and y,
then render it as an HTML chart, a PNG image or a terminal table.

The configuration comes from --file, --id or the most recent history entry.`,
	RunE: runPlot,
}

func init() {
	plotCmd.Flags().StringVarP(&plotFile, "file", "f", "", "configuration document to plot")
	plotCmd.Flags().StringVar(&plotID, "id", "", "saved configuration ID to plot")
	plotCmd.Flags().StringVarP(&plotX, "x", "x", "", "parameter key for the x-axis")
	plotCmd.Flags().StringVarP(&plotY, "y", "y", "", "parameter key for the y-axis")
	plotCmd.Flags().BoolVar(&plotIndex, "index", false, "use the row index for the x-axis")
	plotCmd.Flags().StringVar(&plotObjective, "objective", "y", "objective function of x and y")
	plotCmd.Flags().StringVar(&plotFormat, "format", "table", "output format ("+strings.Join(plot.DefaultRegistry.List(), ", ")+")")
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "", "output file (default stdout for table, plot.<ext> otherwise)")
}

func runPlot(cmd *cobra.Command, args []string) error {
	renderer, err := plot.DefaultRegistry.Get(plotFormat)
	if err != nil {
		return err
	}

	cfg, err := plotSource(cmd)
	if err != nil {
		return err
	}

	sel := plot.Selection{X: plotX, Y: plotY, UseIndex: plotIndex, Objective: plotObjective}
	if (sel.Y == "" || (sel.X == "" && !sel.UseIndex)) && logger.IsTerminal(os.Stdin) {
		if sel, err = utils.PromptSelection(cfg, sel); err != nil {
			return err
		}
	}
	if sel.Y == "" || (sel.X == "" && !sel.UseIndex) {
		return errors.New("select parameters with -x/--index and -y")
	}

	proj, err := plot.Project(cfg, sel)
	if err != nil {
		return err
	}
	if proj.EvalError != "" {
		logger.Warn(proj.EvalError)
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, proj); err != nil {
		return fmt.Errorf("failed to render %s: %w", renderer.Name(), err)
	}

	out := plotOut
	if out == "" && renderer.Name() != "table" {
		out = "plot" + renderer.Extension()
	}
	if err := writeOutput(cmd.OutOrStdout(), out, buf.Bytes()); err != nil {
		return err
	}
	if out != "" {
		logger.Successf("Wrote %s (%d points)", out, len(proj.Points))
	}
	return nil
}

// plotSource loads the configuration to plot.
func plotSource(cmd *cobra.Command) (*models.Configuration, error) {
	ctx, cancel := signalContext()
	defer cancel()

	switch {
	case plotFile != "":
		return readDocument(plotFile, cmd.InOrStdin())
	case plotID != "":
		c, err := newClient(ctx)
		if err != nil {
			return nil, err
		}
		return c.GetConfig(ctx, plotID)
	}

	store, err := openHistory()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("no configuration given and history is disabled")
	}
	defer store.Close()

	entry, ok, err := store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("no configuration available. Add or load a config")
	}
	logger.Infof("Plotting %s", entry.Config.DisplayName())
	return &entry.Config, nil
}
