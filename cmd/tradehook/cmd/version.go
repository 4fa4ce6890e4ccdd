package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rksahai/tradehook/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradehook CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tradehook version %s\n", server.Version)
		fmt.Println("Webhook-driven options trading service for NSE index options")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
