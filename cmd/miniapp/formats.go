package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/miniapp/pkg/core"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported formats and merge strategies",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		data, err := openContext(cfg)
		if err != nil {
			fatal("Error initializing context", err)
		}

		for _, format := range data.SupportedFormats() {
			fmt.Println(format)
		}
		if verbose {
			fmt.Printf("strategies: %v\n", core.StrategyNames())
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
