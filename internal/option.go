package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	targets []string
	dryRun  bool
	out     io.Writer
	logOut  io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithTargets limits a run to the named targets. None means all.
func WithTargets(targets ...string) Option {
	return func(a *application) {
		a.targets = targets
	}
}

// WithDryRun reports what would change without writing.
func WithDryRun(dryRun bool) Option {
	return func(a *application) {
		a.dryRun = dryRun
	}
}

// WithOutput sets where the run report is printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithLogOutput sets where logs are written. Defaults to stderr.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}
