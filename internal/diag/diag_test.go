package diag

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogSink_WritesWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	NewSlogSink(logger).Emit(Event{
		Kind: ListingEntryError,
		Path: "/data/broken-link",
		Err:  errors.New("no such file or directory"),
	})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "kind=listing_entry_error")
	assert.Contains(t, out, "path=/data/broken-link")
	assert.Contains(t, out, "component=diag")
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Emit(Event{Kind: ListingEntryError, Path: "a"})
	r.Emit(Event{Kind: ListingEntryError, Path: "b"})
	r.Emit(Event{Kind: PathValidationError, Path: "c"})

	assert.Len(t, r.Events(), 3)
	assert.Equal(t, 2, r.Count(ListingEntryError))
	assert.Equal(t, 1, r.Count(PathValidationError))
	assert.Equal(t, 0, r.Count(ListingDirectoryError))

	events := r.Events()
	events[0].Path = "mutated"
	assert.Equal(t, "a", r.Events()[0].Path)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard.Emit(Event{Kind: ListingDirectoryError})
	})
}
