package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newInferCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infer",
		Short: "Run one inference",
		Long: `Run one inference on the gateway.

Without --sample the gateway applies its default sample.

Examples:
  edgegatectl infer
  edgegatectl infer --sample frame-0042 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sample, _ := cmd.Flags().GetString("sample")
			rec, err := newClient(cmd).Infer(cmd.Context(), sample)
			if err != nil {
				return fmt.Errorf("infer: %w", err)
			}
			if jsonOutput(cmd) {
				return writeJSON(stdout, rec)
			}
			printRecord(stdout, *rec)
			return nil
		},
	}
	cmd.Flags().String("sample", "", "Sample identifier to run inference on")
	return cmd
}
