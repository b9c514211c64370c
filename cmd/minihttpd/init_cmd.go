package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/minihttpd/pkg/config"
)

func newInitCommand() *cobra.Command {
	var force bool
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				written string
				err     error
			)
			if path != "" {
				written, err = config.InitConfigAt(path, force)
			} else {
				written, err = config.InitConfig(force)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", written)
			return err
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	cmd.Flags().StringVarP(&path, "config", "c", "", "write to this path instead of the default location")
	return cmd
}
