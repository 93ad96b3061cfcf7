package handlers

import "github.com/tallysync/tallysync/internal/session"

// StatusResponse is the current browsing and sync state.
type StatusResponse struct {
	Path        string           `json:"path"`        // directory being browsed.
	Source      string           `json:"source"`      // sync source; same as path.
	Destination string           `json:"destination"` // sync destination.
	Syncing     bool             `json:"syncing"`     // a sync is running.
	LastSync    *session.Outcome `json:"lastSync"`    // most recent sync, null before the first.
}
