// Package miniapp is the Composition Root for miniapp.
//
// It connects the persistence engine (pkg/core) with the built-in format
// adapters (pkg/adapters/formats) and the filesystem storage
// (pkg/adapters/fs).
//
// A Context holds the in-memory records of one application and moves them
// to and from files. Formats are pluggable adapters registered per
// application; imports combine loaded records with the current ones through
// a merge strategy (replace, append, skip-existing, merge-by-id).
//
// Usage:
//
//	type Item struct {
//		ID   int    `json:"id"`
//		Name string `json:"name"`
//	}
//
//	data, err := miniapp.New[Item]("TodoList", nil,
//		miniapp.WithFormats("json", "yaml"),
//		miniapp.WithBaseDir("resources"),
//	)
//
//	// Load resources/TodoList.json
//	err = data.Import("", "json", nil)
//
//	// Save a copy as YAML
//	err = data.Export("backup.yaml", "yaml")
package miniapp
