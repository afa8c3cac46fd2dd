package platform

import (
	"fmt"

	"github.com/aretw0/miniapp/pkg/adapters/formats"
	"github.com/aretw0/miniapp/pkg/adapters/fs"
	"github.com/aretw0/miniapp/pkg/core"
)

// New wires a Context for appID: it resolves the base directory, builds the
// adapters named by WithFormats, appends the explicit adapters and picks the
// default strategy.
//
//	ctx, err := miniapp.New[Item]("TodoList", []core.Adapter[Item]{formats.NewJSON[Item](false)},
//		miniapp.WithBaseDir("data"),
//	)
func New[T any](appID string, adapters []core.Adapter[T], opts ...Option) (*core.Context[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	strict, _ := o.config["strict"].(bool)
	delimiter, _ := o.config["delimiter"].(rune)
	tempDir, _ := o.config["temp_dir"].(bool)
	devSafety, _ := o.config["dev_safety"].(bool)
	readOnly, _ := o.config["read_only"].(bool)

	// Safety & Path Resolution
	useTemp := tempDir || (devSafety && IsDevRun())
	baseDir := ResolveBaseDir(o.baseDir, useTemp)
	if o.logger != nil && useTemp {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", o.baseDir, "resolved_path", baseDir)
	}

	storage := o.storage
	if storage == nil {
		storage = fs.NewStorage(fs.Config{ReadOnly: readOnly, Logger: o.logger})
	}

	builtin, err := formats.Build(factoriesFor[T](), o.formats, formats.Options{
		Strict:    strict,
		Columns:   o.columns,
		Delimiter: delimiter,
	})
	if err != nil {
		return nil, fmt.Errorf("configure formats: %w", err)
	}

	strategy, err := core.StrategyByName[T](o.strategy)
	if err != nil {
		return nil, fmt.Errorf("configure strategy: %w", err)
	}

	return core.New(core.Config[T]{
		AppID:    appID,
		BaseDir:  baseDir,
		Adapters: append(builtin, adapters...),
		Strategy: strategy,
		Storage:  storage,
		Logger:   o.logger,
	})
}

// factoriesFor returns the built-in factory table for T. Schemaless records
// get the csv factory on top of the generic json and yaml ones.
func factoriesFor[T any]() map[string]formats.Factory[T] {
	if table, ok := any(formats.FieldsFactories()).(map[string]formats.Factory[T]); ok {
		return table
	}
	return formats.Factories[T]()
}
