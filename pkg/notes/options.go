package notes

import (
	"log/slog"
	"time"

	"github.com/aretw0/notey/pkg/core"
)

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the time source used for lastModified stamps.
func WithClock(clock core.Clock) Option {
	return func(r *Repository) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(gen core.IDGenerator) Option {
	return func(r *Repository) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// WithLogger sets the logger for the repository.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func defaultClock() time.Time {
	return time.Now()
}
