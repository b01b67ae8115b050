package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
)

var (
	loadOutput string
	loadOut    string
)

var loadCmd = &cobra.Command{
	Use:   "load <id>[,<id>...]",
	Short: "Load saved configurations by ID",
	Long: `Fetch saved configurations from the backend. IDs may be given as
separate arguments or as one comma-separated list. The first failing ID
aborts the load.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadOutput, "output", "table", "output format (table, json)")
	loadCmd.Flags().StringVarP(&loadOut, "out", "o", "", "write JSON to this file instead of stdout")
}

func runLoad(cmd *cobra.Command, args []string) error {
	if loadOutput != "table" && loadOutput != "json" {
		return fmt.Errorf("unknown output format %q", loadOutput)
	}

	ctx, cancel := signalContext()
	defer cancel()

	gw, closeFn, err := newGateway(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	cfgs, err := gw.Load(ctx, strings.Join(args, ","))
	if err != nil {
		return err
	}

	if loadOutput == "json" || loadOut != "" {
		data, err := encodeDocuments(cfgs)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), loadOut, data)
	}

	for i := range cfgs {
		printConfig(cmd, &cfgs[i])
	}
	return nil
}

// printConfig shows a configuration as a header plus a parameter table.
func printConfig(cmd *cobra.Command, cfg *models.Configuration) {
	logger.LogSubSection(cfg.DisplayName())
	if cfg.ID != "" {
		logger.LogKeyValue("ID", cfg.ID)
	}
	logger.LogKeyValue("Description", cfg.Description)

	table := logger.NewTable("KEY", "TYPE", "COUNT", "VALUES")
	for _, p := range cfg.Parameters {
		table.AddRow(p.Key, string(p.Type), fmt.Sprint(len(p.Values)), models.FormatValues(p.Values))
	}
	table.Print(cmd.OutOrStdout())
}
