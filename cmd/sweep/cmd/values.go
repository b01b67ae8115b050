package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
	"github.com/picogrid/param-sweep/pkg/sweep"
)

var (
	valuesType    string
	valuesStart   string
	valuesEnd     string
	valuesStep    string
	valuesFormula string
)

var valuesCmd = &cobra.Command{
	Use:   "values",
	Short: "Parse or generate parameter values",
}

var valuesParseCmd = &cobra.Command{
	Use:   "parse <values>",
	Short: "Validate a comma-separated value list",
	Args:  cobra.ExactArgs(1),
	RunE:  runValuesParse,
}

var valuesGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate values from a range or a function of x",
	Long: `Generate an inclusive arithmetic sequence from --start to --end by --step,
or, with --fn, sample the function of x across [start, end]. Function
results that are not finite are skipped.`,
	RunE: runValuesGen,
}

func init() {
	valuesParseCmd.Flags().StringVarP(&valuesType, "type", "t", string(models.ParamFloat), "value type (float, int, enum)")

	valuesGenCmd.Flags().StringVar(&valuesStart, "start", "", "range start")
	valuesGenCmd.Flags().StringVar(&valuesEnd, "end", "", "range end (inclusive)")
	valuesGenCmd.Flags().StringVar(&valuesStep, "step", "", "step size (optional with --fn)")
	valuesGenCmd.Flags().StringVar(&valuesFormula, "fn", "", "function of x, e.g. sin(x) or x**2")
	_ = valuesGenCmd.MarkFlagRequired("start")
	_ = valuesGenCmd.MarkFlagRequired("end")

	valuesCmd.AddCommand(valuesParseCmd)
	valuesCmd.AddCommand(valuesGenCmd)
}

func runValuesParse(cmd *cobra.Command, args []string) error {
	values, err := sweep.ParseValues(args[0], models.ParamType(valuesType))
	if err != nil {
		var perr *sweep.ParseError
		if errors.As(err, &perr) {
			logger.Debug(perr.Detail())
		}
		return err
	}

	logger.Successf("%d %s value(s)", len(values), valuesType)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), models.FormatValues(values))
	return err
}

func runValuesGen(cmd *cobra.Command, args []string) error {
	r := sweep.ParseRange(valuesStart, valuesEnd, valuesStep, valuesFormula)
	list, err := sweep.Generate(r)
	if err != nil {
		return err
	}

	logger.Successf("Generated %d values", len(list))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), sweep.JoinFloats(list))
	return err
}
