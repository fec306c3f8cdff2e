package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of mrd-engine",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mrd-engine %s (commit %s, built %s)\n", version, commit, date)
		fmt.Printf("  %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
