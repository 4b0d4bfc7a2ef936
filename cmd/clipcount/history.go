package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipcount/internal/control"
	"go.klb.dev/clipcount/internal/history"
	"go.klb.dev/clipcount/internal/ipc"
)

const requestTimeout = 5 * time.Second

func newHistoryCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the copy history of the running monitor",
		Long: `Prints the last copies recorded by a running clipcount, newest first.

The monitor is reached over its local control socket
($XDG_RUNTIME_DIR/clipcount.sock, or \\.\pipe\clipcount on Windows).
Set CLIPCOUNT_SOCKET or --socket to use another path.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runHistory(cmd, v) },
	}

	f := cmd.Flags()
	f.Bool("json", false, "output raw JSON")
	addSocketFlag(cmd)
	addCommonFlags(cmd, false)

	return cmd
}

func addSocketFlag(cmd *cobra.Command) {
	cmd.Flags().String("socket", ipc.SocketPath(), "control socket of the running monitor")
}

// dialMonitor connects to the monitor at the configured socket, failing
// fast with a readable error when none is running.
func dialMonitor(v *viper.Viper) (*control.Client, error) {
	path := v.GetString("socket")
	if !ipc.IsRunning(path) {
		return nil, fmt.Errorf("no clipcount monitor listening on %s", path)
	}
	return control.Dial(path)
}

func runHistory(cmd *cobra.Command, v *viper.Viper) error {
	c, err := dialMonitor(v)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	records, err := c.List(ctx)
	if err != nil {
		return err
	}

	if v.GetBool("json") {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	printHistory(cmd.OutOrStdout(), records)
	return nil
}

func printHistory(w io.Writer, records []history.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No copies recorded yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "TIME\tCHARS/SIZE\tPREVIEW\n")
	_, _ = fmt.Fprintf(tw, "----\t----------\t-------\n")
	for _, rec := range records {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.Time, rec.Measurement, rec.Preview)
	}
	_ = tw.Flush()
}
