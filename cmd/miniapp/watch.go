package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/miniapp/pkg/adapters/fs"
	"github.com/aretw0/miniapp/pkg/adapters/lifecycle"
	"github.com/aretw0/miniapp/pkg/core"
)

var (
	watchFormat string
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Reload a file whenever it changes",
	Long: `Watch imports a file, then re-imports it on every change and reports the
record count. It runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		data, err := openContext(cfg)
		if err != nil {
			fatal("Error initializing context", err)
		}
		format, err := formatOf(data, path, watchFormat)
		if err != nil {
			fatal("Error detecting format", err)
		}
		resolved, err := data.ResolvePath(path)
		if err != nil {
			fatal("Error resolving path", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		changes, err := fs.Watch(ctx, resolved, fs.WatchConfig{Logger: slog.Default()})
		if err != nil {
			fatal("Error starting watcher", err)
		}

		out := cmd.OutOrStdout()
		reload(out, data, path, format)
		slog.Info("watching", "path", resolved, "format", format)

		if err := follow(ctx, out, data, path, format, changes); err != nil {
			fatal("Error starting watcher", err)
		}
	},
}

// follow re-imports path on every change until changes closes or ctx ends.
// A removed file keeps the last records.
func follow(ctx context.Context, out io.Writer, data *core.Context[core.Fields], path, format string, changes <-chan fs.Change) error {
	source := lifecycle.NewSource(changes)
	if err := source.Start(ctx); err != nil {
		return err
	}

	for event := range source.Events() {
		change, ok := event.(fs.Change)
		if !ok {
			continue
		}
		if change.Type == fs.ChangeRemoved {
			slog.Warn("file removed, keeping last records", "path", change.Path, "records", data.Len())
			continue
		}
		reload(out, data, path, format)
	}
	return nil
}

// reload replaces the records with the file content. Failures are reported
// and leave the previous records in place.
func reload(out io.Writer, data *core.Context[core.Fields], path, format string) {
	if err := data.Import(path, format, core.Replace[core.Fields]()); err != nil {
		slog.Error("reload failed", "error", err)
		return
	}
	fmt.Fprintf(out, "%s: %d records\n", path, data.Len())
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "file format (default: detected)")
}
