package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect [path]",
	Short: "Print the detected format of a file",
	Long: `Detect guesses the format of a file from its extension, falling back to
its first bytes when the extension is unknown.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := openContext(cfg)
		if err != nil {
			fatal("Error initializing context", err)
		}

		format, err := formatOf(data, args[0], "")
		if err != nil {
			fatal("Error detecting format", err)
		}
		fmt.Println(format)
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
