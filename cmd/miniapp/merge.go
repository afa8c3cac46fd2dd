package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/miniapp/pkg/core"
)

var (
	mergeStrategy string
	mergeByID     string
	mergeOut      string
	mergeFormat   string
)

var mergeCmd = &cobra.Command{
	Use:   "merge [target] [source]",
	Short: "Merge the records of source into target",
	Long: `Merge loads target, imports source on top of it with a merge strategy and
writes the result back to target (or --out).

A missing target starts empty. --by-id KEY selects the merge-by-id strategy
keyed on the KEY field.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		target, source := args[0], args[1]

		data, err := openContext(cfg)
		if err != nil {
			fatal("Error initializing context", err)
		}

		strategy, err := mergeStrategyFor(mergeStrategy, mergeByID)
		if err != nil {
			fatal("Error selecting strategy", err)
		}

		if err := loadTarget(data, target); err != nil {
			fatal("Error reading target", err)
		}

		sourceFormat, err := formatOf(data, source, "")
		if err != nil {
			fatal("Error reading source", err)
		}
		before := data.Len()
		if err := data.Import(source, sourceFormat, strategy); err != nil {
			fatal("Error merging source", err)
		}
		if warning := data.LastWarning(); warning != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", warning)
		}

		out := target
		if mergeOut != "" {
			out = mergeOut
		}
		outFormat, err := formatOf(data, out, mergeFormat)
		if err != nil {
			fatal("Error writing result", err)
		}
		if err := data.Export(out, outFormat); err != nil {
			fatal("Error writing result", err)
		}

		slog.Debug("merge finished", "strategy", strategy.Name(), "before", before, "after", data.Len())
		fmt.Printf("%s: %d records (%s)\n", out, data.Len(), strategy.Name())
	},
}

// mergeStrategyFor resolves the strategy flags. An id key wins over a name.
func mergeStrategyFor(name, idKey string) (core.Strategy[core.Fields], error) {
	if idKey != "" {
		return core.MergeByID(core.FieldID(idKey)), nil
	}
	if name == core.StrategyMergeByID {
		return nil, fmt.Errorf("%w: %s needs --by-id", core.ErrValidation, name)
	}
	return core.StrategyByName[core.Fields](name)
}

// loadTarget replaces the collection with the content of target.
// A target that does not exist yet leaves the collection empty.
func loadTarget(data *core.Context[core.Fields], target string) error {
	format, err := formatOf(data, target, "")
	if err != nil {
		return err
	}
	err = data.Import(target, format, core.Replace[core.Fields]())
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("target does not exist, starting empty", "path", target)
		data.ClearData()
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().StringVarP(&mergeStrategy, "strategy", "s", core.StrategyReplace, fmt.Sprintf("merge strategy %v", core.StrategyNames()))
	mergeCmd.Flags().StringVar(&mergeByID, "by-id", "", "merge records sharing this id field")
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", "", "output path (default: target)")
	mergeCmd.Flags().StringVarP(&mergeFormat, "format", "f", "", "output format (default: detected from the output path)")
}
