// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"github.com/ezrec/pstream/registry"
)

type config struct {
	registry *registry.Registry
}

// Option configures a wrapper.
type Option func(*config)

func newConfig(opts []Option) (cfg config) {
	cfg.registry = registry.Default
	for _, opt := range opts {
		opt(&cfg)
	}
	return
}

// WithRegistry binds the wrapper to reg instead of registry.Default.
// Wrappers only serialize against wrappers of the same registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(cfg *config) {
		if reg != nil {
			cfg.registry = reg
		}
	}
}
