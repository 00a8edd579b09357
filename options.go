package rng

import "go.uber.org/zap"

// BuilderOption configures pattern construction and compilation.
type BuilderOption interface{ apply(*builderOptions) }

type builderOptions struct {
	logger          *zap.Logger
	maxPatternNodes int
}

type builderOptionFunc func(*builderOptions)

func (f builderOptionFunc) apply(cfg *builderOptions) {
	if cfg == nil {
		return
	}
	f(cfg)
}

// WithLogger sets the logger used for schema compile diagnostics. The
// default is a no-op logger; nothing logs on the validation hot path.
func WithLogger(l *zap.Logger) BuilderOption {
	return builderOptionFunc(func(cfg *builderOptions) {
		cfg.logger = l
	})
}

// WithMaxPatternNodes bounds the number of pattern nodes a schema may
// require. Zero means no limit.
func WithMaxPatternNodes(n int) BuilderOption {
	return builderOptionFunc(func(cfg *builderOptions) {
		cfg.maxPatternNodes = n
	})
}

func applyBuilderOptions(opts []BuilderOption) builderOptions {
	var cfg builderOptions
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return cfg
}
