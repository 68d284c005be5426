// edgegatectl is a command-line client for the edgegate gateway.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/HatiCode/edgegate/pkg/client"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errExit signals a non-zero exit after the command already reported its error.
var errExit = errors.New("exit")

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errExit) {
			fmt.Fprintf(stderr, "edgegatectl: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "edgegatectl",
		Short:         "Query an edgegate inference gateway",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			fmt.Fprintf(stderr, "edgegatectl: unknown command %q\n", args[0])
			return errExit
		},
	}
	root.PersistentFlags().String("url", envOr("EDGEGATE_URL", "http://localhost:5000"), "Gateway base URL (env: EDGEGATE_URL)")
	root.PersistentFlags().StringP("output", "o", "text", "Output format: text, json")
	root.PersistentFlags().Duration("timeout", 5*time.Second, "Request timeout")
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		output, _ := cmd.Flags().GetString("output")
		switch output {
		case "text", "json":
			return nil
		default:
			return fmt.Errorf("invalid --output value %q: must be text or json", output)
		}
	}
	root.AddCommand(
		newHealthCmd(stdout),
		newHistoryCmd(stdout),
		newInferCmd(stdout),
	)
	return root
}

func newClient(cmd *cobra.Command) *client.GatewayClient {
	url, _ := cmd.Flags().GetString("url")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return client.NewGatewayClientWithTimeout(url, timeout)
}

func jsonOutput(cmd *cobra.Command) bool {
	output, _ := cmd.Flags().GetString("output")
	return output == "json"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
