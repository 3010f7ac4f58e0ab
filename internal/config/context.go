package config

import "context"

type contextKey struct{}

// NewContext returns a context carrying cfg. Components read the site title,
// tagline and theme settings from it while rendering.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext returns the config stored in ctx. When none is present it
// returns an empty Config so rendering never dereferences nil.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(contextKey{}).(*Config); ok && cfg != nil {
			return cfg
		}
	}
	return &Config{}
}
