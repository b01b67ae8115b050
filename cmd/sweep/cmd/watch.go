package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/picogrid/param-sweep/pkg/gateway"
	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/progress"
)

var watchCmd = &cobra.Command{
	Use:   "watch <id>[,<id>...]",
	Short: "Follow execution progress of saved configurations",
	Long: `Open one progress stream per ID and print every snapshot until the
streams close or the command is interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ids := gateway.ParseIDList(strings.Join(args, ","))
	if len(ids) == 0 {
		return errors.New(gateway.MsgIDsRequired)
	}

	ep, err := resolveEndpoint()
	if err != nil {
		return err
	}
	mirror, err := progress.NewMirror(ep.WS)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	display := progress.NewDisplay(os.Stdout, ids)
	defer display.Close()

	logger.Networkf("Connecting to %s", ep.WS)
	logger.LogList("Watching", ids)
	return mirror.WatchAll(ctx, ids, display.Update)
}
