package internal

import (
	"io"
	"time"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	dir    string
	stdout io.Writer
	stderr io.Writer
	clock  func() time.Time
	newID  func() string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithDir sets the vault directory.
func WithDir(dir string) Option {
	return func(a *application) {
		a.dir = dir
	}
}

// WithOutput sets where user-facing output and logs are written.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *application) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// WithClock overrides time.Now for every operation.
func WithClock(clock func() time.Time) Option {
	return func(a *application) {
		a.clock = clock
	}
}

// WithIDGenerator overrides the zettel identifier generator.
func WithIDGenerator(newID func() string) Option {
	return func(a *application) {
		a.newID = newID
	}
}
