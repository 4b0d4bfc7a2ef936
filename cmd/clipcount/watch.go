package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipcount/internal/history"
)

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream copies from the running monitor",
		Long: `Prints one line per copy captured by a running clipcount until
interrupted. With --json each line is a JSON record.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runWatch(cmd, v) },
	}

	f := cmd.Flags()
	f.Bool("json", false, "output one JSON record per line")
	addSocketFlag(cmd)
	addCommonFlags(cmd, false)

	return cmd
}

func runWatch(cmd *cobra.Command, v *viper.Viper) error {
	c, err := dialMonitor(v)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	jsonOut := v.GetBool("json")
	enc := json.NewEncoder(out)
	return c.Watch(ctx, func(rec history.Record) {
		if jsonOut {
			_ = enc.Encode(rec)
			return
		}
		fmt.Fprintf(out, "%s  %-12s  %s\n", rec.Time, rec.Measurement, rec.Preview)
	})
}
