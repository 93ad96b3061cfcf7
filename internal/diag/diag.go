// Package diag carries recoverable filesystem failures out of the core
// components. Listing and path validation never return these as errors; they
// report them here and carry on.
package diag

import (
	"log/slog"
	"sync"
)

type Kind string

const (
	// metadata of a single directory child could not be read
	ListingEntryError Kind = "listing_entry_error"
	// the directory itself could not be enumerated
	ListingDirectoryError Kind = "listing_directory_error"
	// a candidate source or destination path was not readable and writable
	PathValidationError Kind = "path_validation_error"
)

type Event struct {
	Kind Kind
	Path string
	Err  error
}

func (e Event) message() string {
	switch e.Kind {
	case ListingEntryError:
		return "entry stat failed, dropped from listing"
	case ListingDirectoryError:
		return "directory read failed, listing is empty"
	case PathValidationError:
		return "path rejected"
	default:
		return string(e.Kind)
	}
}

// Sink receives diagnostic events. Implementations must be safe for
// concurrent use.
type Sink interface {
	Emit(Event)
}

// SlogSink writes every event as a warning.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger.With("component", "diag")}
}

func (s *SlogSink) Emit(ev Event) {
	s.logger.Warn(ev.message(), "kind", ev.Kind, "path", ev.Path, "error", ev.Err)
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

type discard struct{}

func (discard) Emit(Event) {}

// Discard drops every event.
var Discard Sink = discard{}
