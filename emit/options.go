package emit

import (
	"runtime"

	"github.com/rs/zerolog"
)

// Option describes a function used to configure emission.
type Option func(*config)

type config struct {
	checked       bool
	unsafe        bool
	fixup         bool
	shortBranches bool
	filename      string
	concurrency   int
	logger        zerolog.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{
		fixup:         true,
		shortBranches: true,
		concurrency:   runtime.GOMAXPROCS(0),
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}
	return cfg
}

// WithChecked makes overflow-checked arithmetic the default context for
// every method. Unchecked regions still override it.
func WithChecked(enabled bool) Option {
	return func(cfg *config) {
		cfg.checked = enabled
	}
}

// WithUnsafe permits pointer arithmetic in every method.
func WithUnsafe(enabled bool) Option {
	return func(cfg *config) {
		cfg.unsafe = enabled
	}
}

// WithoutFixup returns bodies whose branches still reference symbolic
// labels, leaving the fix-up pass to the caller.
func WithoutFixup() Option {
	return func(cfg *config) {
		cfg.fixup = false
	}
}

// WithShortBranches controls whether the fix-up pass rewrites branches to
// their one-byte forms where the offset fits. Enabled by default.
func WithShortBranches(enabled bool) Option {
	return func(cfg *config) {
		cfg.shortBranches = enabled
	}
}

// WithFilename sets the source filename reported in error locations.
func WithFilename(name string) Option {
	return func(cfg *config) {
		cfg.filename = name
	}
}

// WithConcurrency limits the number of methods EmitModule emits at once.
func WithConcurrency(n int) Option {
	return func(cfg *config) {
		cfg.concurrency = n
	}
}

// WithLogger sets the logger used for emission diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
