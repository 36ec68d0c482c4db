package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/misfitdev/spotr-mcp/pkg/inspector"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "inspect -- <command> [args...]",
		Short: "Launch an MCP server and print what it declares as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			report, err := inspector.Inspect(ctx, args[0], args[1:]...)
			if err != nil {
				return fmt.Errorf("inspection failed: %w", err)
			}

			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "timeout for the inspection")
	return cmd
}
