package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	validateFormat string
)

var validateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Check that files hold well-formed content",
	Long: `Validate parses each file with the adapter of its format (detected or
given with --format). It exits non-zero when any file is invalid.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := openContext(cfg)
		if err != nil {
			fatal("Error initializing context", err)
		}

		invalid := 0
		for _, path := range args {
			format, err := formatOf(data, path, validateFormat)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				invalid++
				continue
			}
			if !data.Validate(path, format) {
				fmt.Printf("%s: invalid %s\n", path, format)
				invalid++
				continue
			}
			fmt.Printf("%s: ok (%s)\n", path, format)
		}

		if invalid > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "", "format to validate against (default: detected)")
}
