package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/miniapp"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of miniapp",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("miniapp version %s\n", strings.TrimSpace(miniapp.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
