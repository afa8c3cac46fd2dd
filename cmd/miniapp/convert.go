package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/miniapp/pkg/core"
)

var (
	convertTo   string
	convertFrom string
	convertDry  bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [pattern]",
	Short: "Convert every matching file to another format",
	Long: `Convert imports each file under the base directory matching a glob pattern
(e.g. "**/*.csv") and exports it next to the original with the extension of
the target format.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := openContext(cfg)
		if err != nil {
			fatal("Error initializing context", err)
		}

		to := core.NormalizeFormat(convertTo)
		if !data.SupportsFormat(to) {
			fatal("Error converting", fmt.Errorf("%w: %q (supported: %v)", core.ErrUnsupportedFormat, to, data.SupportedFormats()))
		}

		matches, err := doublestar.Glob(os.DirFS(data.BaseDir()), args[0], doublestar.WithFilesOnly())
		if err != nil {
			fatal("Error matching pattern", err)
		}
		if len(matches) == 0 {
			slog.Info("no files matched", "pattern", args[0], "base_dir", data.BaseDir())
			return
		}

		converted := 0
		for _, match := range matches {
			dest, err := convertFile(data, filepath.FromSlash(match), to)
			if err != nil {
				fatal("Error converting "+match, err)
			}
			if dest == "" {
				continue
			}
			fmt.Printf("%s -> %s\n", match, filepath.ToSlash(dest))
			converted++
		}
		slog.Debug("conversion finished", "matched", len(matches), "converted", converted)
	},
}

// convertFile re-encodes path (relative to the base dir) into format to and
// returns the written path. Files already in the target format are skipped.
func convertFile(data *core.Context[core.Fields], path, to string) (string, error) {
	from, err := formatOf(data, path, convertFrom)
	if err != nil {
		return "", err
	}
	if from == to {
		slog.Debug("skipping file already in target format", "path", path)
		return "", nil
	}

	dest := strings.TrimSuffix(path, filepath.Ext(path)) + "." + to
	if convertDry {
		return dest, nil
	}

	if err := data.Import(path, from, core.Replace[core.Fields]()); err != nil {
		return "", err
	}
	if err := data.Export(dest, to); err != nil {
		return "", err
	}
	return dest, nil
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "", "target format")
	convertCmd.Flags().StringVarP(&convertFrom, "from", "f", "", "source format (default: detected per file)")
	convertCmd.Flags().BoolVar(&convertDry, "dry-run", false, "print conversions without writing")
	_ = convertCmd.MarkFlagRequired("to")
}
