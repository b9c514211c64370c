package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/minihttpd/pkg/arith/mathlib"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the minihttpd version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "minihttpd %s (mathlib: %s)\n", version, mathlib.Implementation)
			return err
		},
	}
}
