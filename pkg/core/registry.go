package core

import (
	"fmt"
	"sort"
)

// Registry indexes adapters by owning application and format name.
//
// A Registry is populated during configuration and read during a run.
// It has no internal locking: registration must finish before any import or
// export starts.
type Registry[T any] struct {
	adapters map[string]map[string]Adapter[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{adapters: make(map[string]map[string]Adapter[T])}
}

// Register indexes a under appID and its lower-cased FormatName.
// Registering the same (appID, format) pair again replaces the prior adapter.
func (r *Registry[T]) Register(appID string, a Adapter[T]) error {
	if a == nil {
		return fmt.Errorf("%w: adapter cannot be nil", ErrValidation)
	}
	format := NormalizeFormat(a.FormatName())
	if format == "" {
		return fmt.Errorf("%w: adapter %T has an empty format name", ErrValidation, a)
	}

	byFormat, ok := r.adapters[appID]
	if !ok {
		byFormat = make(map[string]Adapter[T])
		r.adapters[appID] = byFormat
	}
	byFormat[format] = a
	return nil
}

// Lookup returns the adapter registered for (appID, format).
// The format is matched case-insensitively.
func (r *Registry[T]) Lookup(appID, format string) (Adapter[T], bool) {
	a, ok := r.adapters[appID][NormalizeFormat(format)]
	return a, ok
}

// Supports reports whether an adapter exists for (appID, format).
func (r *Registry[T]) Supports(appID, format string) bool {
	_, ok := r.Lookup(appID, format)
	return ok
}

// SupportedFormats lists the formats registered for appID in sorted order.
func (r *Registry[T]) SupportedFormats(appID string) []string {
	byFormat := r.adapters[appID]
	formats := make([]string, 0, len(byFormat))
	for f := range byFormat {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Apps lists every application with at least one adapter, sorted.
func (r *Registry[T]) Apps() []string {
	apps := make([]string, 0, len(r.adapters))
	for app := range r.adapters {
		apps = append(apps, app)
	}
	sort.Strings(apps)
	return apps
}

// Clear drops every adapter registered for appID.
func (r *Registry[T]) Clear(appID string) {
	delete(r.adapters, appID)
}

// ClearAll drops every registration.
func (r *Registry[T]) ClearAll() {
	clear(r.adapters)
}
