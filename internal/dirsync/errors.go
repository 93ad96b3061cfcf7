package dirsync

import (
	"errors"
	"fmt"
)

var (
	ErrSourceNotDirectory      = errors.New("source is not a directory")
	ErrDestinationInsideSource = errors.New("destination is inside the source directory")
	ErrSourceEqualsDestination = errors.New("source and destination are the same directory")
)

// SyncError is the single failure a sync reports. Op names the step that
// failed: "stat source", "access source", "validate", "ensure destination"
// or "copy".
type SyncError struct {
	Op   string
	Path string
	Err  error
}

func (e *SyncError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
