package cmd

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "catalogsync",
	Short: "Catalog and media sync toolkit",
	Long:  "Imports the Shopify catalog and Google Drive media folders into the local database and object storage.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if os.Getenv("NO_BANNER") == "" {
			figure.NewFigure("catalogsync", "", true).Print()
			fmt.Println()
		}
	},
}

// Execute runs the CLI. Registered extension commands are applied first.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
