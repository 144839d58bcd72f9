package lockstep

import "time"

// runnerConfig is the resolved configuration behind a Runner, built up by
// applying every Option in order. Modeled on the teacher's
// eventloop.LoopOption/resolveLoopOptions pattern: options are opaque
// closures over this unexported struct, defaults are resolved once in
// NewRunner, and a nil Option is simply skipped rather than panicking.
type runnerConfig struct {
	strategy   Strategy
	iterations int
	timeout    time.Duration
	logger     Logger
	runID      string
}

// Option configures a Runner constructed by NewRunner.
type Option func(*runnerConfig)

// WithStrategy sets the schedule strategy a Runner drives each iteration
// with. Defaults to Random(0) if never set.
func WithStrategy(s Strategy) Option {
	return func(c *runnerConfig) { c.strategy = s }
}

// WithIterations sets how many times a Runner repeats its scenario.
// Meaningful only in combination with a Reseedable strategy (Random);
// values <= 1 (including the default) run the scenario exactly once.
func WithIterations(n int) Option {
	return func(c *runnerConfig) { c.iterations = n }
}

// WithTimeout bounds each iteration's wall-clock budget. Exceeding it
// yields a TimeoutError carrying the partial trace. The zero value (the
// default) means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *runnerConfig) { c.timeout = d }
}

// WithLogger attaches a structured-logging sink. Defaults to NopLogger().
func WithLogger(l Logger) Option {
	return func(c *runnerConfig) { c.logger = l }
}

// WithRunID overrides the generated run-correlation identifier (normally
// a random uuid v4) with a caller-supplied one, for reproducible test
// output.
func WithRunID(id string) Option {
	return func(c *runnerConfig) { c.runID = id }
}

func resolveRunnerOptions(opts []Option) runnerConfig {
	cfg := runnerConfig{
		iterations: 1,
		logger:     NopLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.strategy == nil {
		cfg.strategy = Random(0)
	}
	if cfg.iterations < 1 {
		cfg.iterations = 1
	}
	if cfg.logger == nil {
		cfg.logger = NopLogger()
	}
	return cfg
}
