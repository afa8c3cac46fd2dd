package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/miniapp"
	"github.com/aretw0/miniapp/pkg/adapters/formats"
	"github.com/aretw0/miniapp/pkg/core"
)

var (
	cfgFile string
	verbose bool
	cfg     config
)

// config is the merged view of miniapp.yaml, environment and flags.
type config struct {
	App       string   `mapstructure:"app"`
	BaseDir   string   `mapstructure:"base_dir"`
	Columns   []string `mapstructure:"columns"`
	Delimiter string   `mapstructure:"delimiter"`
	Strict    bool     `mapstructure:"strict"`
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "miniapp",
	Short: "Move application records between JSON, YAML and CSV files",
	Long: `miniapp loads record collections from files, merges them with a strategy
and writes them back in any registered format.

Settings are read from miniapp.yaml (searched upwards from the working
directory), MINIAPP_* environment variables and flags, in increasing priority.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		return loadConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: miniapp.yaml in the project root)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("app", "", "application id (names default files)")
	rootCmd.PersistentFlags().String("base-dir", "", "base directory relative paths resolve against")
	rootCmd.PersistentFlags().StringSlice("columns", nil, "csv columns, in order")
	rootCmd.PersistentFlags().String("delimiter", "", "csv field separator (default \",\")")
	rootCmd.PersistentFlags().Bool("strict", false, "keep large numbers exact")

	_ = viper.BindPFlag("app", rootCmd.PersistentFlags().Lookup("app"))
	_ = viper.BindPFlag("base_dir", rootCmd.PersistentFlags().Lookup("base-dir"))
	_ = viper.BindPFlag("columns", rootCmd.PersistentFlags().Lookup("columns"))
	_ = viper.BindPFlag("delimiter", rootCmd.PersistentFlags().Lookup("delimiter"))
	_ = viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
}

// loadConfig fills cfg for cmd. Flags set on cmd take precedence.
func loadConfig(cmd *cobra.Command) error {
	viper.SetDefault("app", "miniapp")
	viper.SetDefault("base_dir", ".")
	viper.SetEnvPrefix("MINIAPP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root := ""
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		root = filepath.Dir(cfgFile)
	} else if wd, err := os.Getwd(); err == nil {
		if found, err := miniapp.FindRoot(wd); err == nil {
			viper.SetConfigFile(filepath.Join(found, miniapp.ConfigFileName))
			root = found
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A .miniapp marker without miniapp.yaml is fine too.
		if cfgFile != "" || (!errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist)) {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		slog.Debug("config loaded", "file", viper.ConfigFileUsed())
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	// Relative base dirs in a config file are relative to that file.
	if root != "" && !filepath.IsAbs(cfg.BaseDir) && !cmd.Flags().Changed("base-dir") {
		cfg.BaseDir = filepath.Join(root, cfg.BaseDir)
	}
	return nil
}

// openContext builds a Context over schemaless records from cfg.
// csv is registered only when columns are configured.
func openContext(c config) (*core.Context[core.Fields], error) {
	names := []string{formats.FormatJSON, formats.FormatYAML}
	if len(c.Columns) > 0 {
		names = append(names, formats.FormatCSV)
	}

	opts := []miniapp.Option{
		miniapp.WithBaseDir(c.BaseDir),
		miniapp.WithLogger(slog.Default()),
		miniapp.WithFormats(names...),
		miniapp.WithColumns(c.Columns...),
		miniapp.WithStrict(c.Strict),
	}
	if c.Delimiter != "" {
		delim, size := utf8.DecodeRuneInString(c.Delimiter)
		if size != len(c.Delimiter) {
			return nil, fmt.Errorf("%w: delimiter must be a single character, got %q", core.ErrValidation, c.Delimiter)
		}
		opts = append(opts, miniapp.WithDelimiter(delim))
	}

	return miniapp.NewFields(c.App, opts...)
}

// formatOf returns explicit when set, otherwise the detected format of path.
func formatOf(data *core.Context[core.Fields], path, explicit string) (string, error) {
	if explicit != "" {
		return core.NormalizeFormat(explicit), nil
	}
	format, ok := data.DetectFormat(path)
	if !ok {
		return "", fmt.Errorf("%w: cannot detect format of %q (supported: %v)", core.ErrUnsupportedFormat, path, data.SupportedFormats())
	}
	return format, nil
}
