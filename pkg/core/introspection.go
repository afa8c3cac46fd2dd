package core

import (
	"github.com/aretw0/introspection"
)

// ContextState exposes internal state for observability.
type ContextState struct {
	App             string   `json:"app"`
	BaseDir         string   `json:"base_dir"`
	Records         int      `json:"records"`
	Formats         []string `json:"formats"`
	DefaultStrategy string   `json:"default_strategy"`
	LastWarning     string   `json:"last_warning,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Context[T]) State() any {
	state := ContextState{
		App:             c.appID,
		BaseDir:         c.baseDir,
		Records:         len(c.data),
		Formats:         c.SupportedFormats(),
		DefaultStrategy: c.strategy.Name(),
	}
	if c.lastWarning != nil {
		state.LastWarning = c.lastWarning.Error()
	}
	return state
}

// ComponentType implements introspection.Component.
func (c *Context[T]) ComponentType() string {
	return "context"
}

var _ introspection.Introspectable = (*Context[Fields])(nil)
var _ introspection.Component = (*Context[Fields])(nil)
