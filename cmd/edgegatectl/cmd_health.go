package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func newHealthCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show gateway status and uptime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := newClient(cmd).Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health: %w", err)
			}
			if jsonOutput(cmd) {
				return writeJSON(stdout, status)
			}
			fmt.Fprintf(stdout, "%s  uptime %ss  %s\n",
				styleOK.Render(status.Status),
				strconv.FormatFloat(status.UptimeS, 'f', 2, 64),
				styleDim.Render(status.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")),
			)
			return nil
		},
	}
}
