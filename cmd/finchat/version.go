package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finchat/finchat"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of finchat",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("finchat version %s\n", finchat.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
