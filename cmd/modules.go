package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brandsignal/foresight/core/module"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List registered prediction components",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range module.DefaultRegistry().Components() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}
