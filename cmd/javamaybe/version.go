package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"javamaybe/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		colored, err := useColor(cmd)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), version.Info(colored))
		return nil
	},
}
