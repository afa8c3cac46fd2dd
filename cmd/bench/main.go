package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/miniapp"
	"github.com/aretw0/miniapp/pkg/core"
)

func main() {
	count := flag.Int("count", 10000, "Number of records to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	// 1. Setup
	benchDir, err := os.MkdirTemp("", "miniapp_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	data, err := miniapp.NewFields("Bench",
		miniapp.WithBaseDir(benchDir),
		miniapp.WithLogger(logger),
		miniapp.WithFormats("json", "yaml", "csv"),
		miniapp.WithColumns("id", "title", "date", "tags"),
	)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Generating %d records...\n", *count)
	records := make([]core.Fields, *count)
	for i := range records {
		records[i] = core.Fields{
			"id":    i,
			"title": fmt.Sprintf("Record %d", i),
			"date":  time.Now().Format("2006-01-02"),
			"tags":  []any{"benchmark", "test"},
		}
	}

	// 2. Export / Import per format
	for _, format := range data.SupportedFormats() {
		data.SetData(records)

		start := time.Now()
		if err := data.Export("", format); err != nil {
			panic(err)
		}
		exportTook := time.Since(start)

		data.ClearData()
		start = time.Now()
		if err := data.Import("", format, nil); err != nil {
			panic(err)
		}
		importTook := time.Since(start)

		info, _ := os.Stat(filepath.Join(benchDir, data.DefaultPath(format)))
		size := int64(0)
		if info != nil {
			size = info.Size()
		}
		fmt.Printf("%-5s export: %-12v import: %-12v size: %d bytes (%d records)\n", format, exportTook, importTook, size, data.Len())
	}

	// 3. Merge cost
	data.SetData(records)
	start := time.Now()
	if err := data.Import("", "json", miniapp.MergeByID(core.FieldID("id"))); err != nil {
		panic(err)
	}
	fmt.Printf("merge-by-id over %d records: %v (%d records)\n", *count, time.Since(start), data.Len())
}
