package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/picogrid/param-sweep/pkg/gateway"
	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
	"github.com/picogrid/param-sweep/pkg/utils"
)

var saveDryRun bool

var saveCmd = &cobra.Command{
	Use:   "save <file|dir|->",
	Short: "Save configuration documents to the backend",
	Long: `Save one or more JSON or YAML configuration documents. A directory is
scanned recursively; "-" reads a single document from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	saveCmd.Flags().BoolVar(&saveDryRun, "dry-run", false, "validate documents without saving")
}

func runSave(cmd *cobra.Command, args []string) error {
	cfgs, err := collectDocuments(cmd, args[0])
	if err != nil {
		return err
	}
	if len(cfgs) == 0 {
		logger.Warn("No configuration documents found")
		return nil
	}

	if saveDryRun {
		for i := range cfgs {
			if err := gateway.Validate(&cfgs[i]); err != nil {
				return fmt.Errorf("%s: %w", cfgs[i].DisplayName(), err)
			}
			logger.Successf("%s is valid (%d parameters)", cfgs[i].DisplayName(), len(cfgs[i].Parameters))
		}
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	gw, closeFn, err := newGateway(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	table := logger.NewTable("ID", "NAME", "PARAMETERS")
	for i := range cfgs {
		logger.Progressf("Saving %s (%d/%d)...", cfgs[i].DisplayName(), i+1, len(cfgs))
		saved, err := gw.Save(ctx, &cfgs[i])
		if err != nil {
			return err
		}
		table.AddRow(saved.ID, saved.Name, fmt.Sprint(len(saved.Parameters)))
	}
	if table.Len() > 1 {
		table.Print(cmd.OutOrStdout())
	}
	return nil
}

func collectDocuments(cmd *cobra.Command, path string) ([]models.Configuration, error) {
	if path == "-" {
		cfg, err := readDocument(path, cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		return []models.Configuration{*cfg}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", path, err)
	}
	if !info.IsDir() {
		cfg, err := readDocument(path, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return []models.Configuration{*cfg}, nil
	}

	docs, err := utils.DiscoverDocuments(path)
	if err != nil {
		return nil, err
	}
	cfgs := make([]models.Configuration, len(docs))
	for i, doc := range docs {
		logger.Debugf("Found %s", doc.Path)
		cfgs[i] = doc.Config
	}
	return cfgs, nil
}
