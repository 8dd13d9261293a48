package engine

import "go.uber.org/zap"

// ============================================================================
// ENGINE OPTIONS -- Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger         *zap.Logger
	DefaultMeasure string // measure to aggregate when QuerySpec.Measure is empty
}

// WithLogger routes Execute's debug logging to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithDefaultMeasure sets the measure to aggregate when QuerySpec.Measure is empty.
func WithDefaultMeasure(measure string) Option {
	return func(c *config) {
		c.DefaultMeasure = measure
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger:         zap.NewNop(),
		DefaultMeasure: "GPA",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
