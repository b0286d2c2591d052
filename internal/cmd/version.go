package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embedx/targetman/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(version.GetInfo().String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
