package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/HatiCode/edgegate/pkg/gateway"
)

func newHistoryCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recent inferences, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := newClient(cmd).History(cmd.Context())
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			if jsonOutput(cmd) {
				return writeJSON(stdout, gateway.HistoryResponse{History: records})
			}
			if len(records) == 0 {
				fmt.Fprintln(stdout, styleDim.Render("no inferences yet"))
				return nil
			}
			fmt.Fprintln(stdout, styleBold.Render(fmt.Sprintf("%d recent inferences:", len(records))))
			for _, rec := range records {
				printRecord(stdout, rec)
			}
			return nil
		},
	}
}
