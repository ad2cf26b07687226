package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(a app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available serial ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ports, err := a.listPorts()
			if err != nil {
				return fmt.Errorf("failed to list serial ports: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(ports) == 0 {
				fmt.Fprintln(out, "No serial ports found.")
				return nil
			}
			fmt.Fprintln(out, "Available serial ports:")
			for _, p := range ports {
				fmt.Fprintf(out, "%s: %s\n", p.Description, p.Device)
			}
			return nil
		},
	}
}
