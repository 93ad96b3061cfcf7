package main

import (
	"github.com/tallysync/tallysync/internal/config"
	"github.com/tallysync/tallysync/internal/fsport"
	"github.com/tallysync/tallysync/internal/picker"
	"github.com/tallysync/tallysync/internal/session"
)

func newSession(cfg *config.Config, p picker.DirectoryPicker) *session.Session {
	return session.New(fsport.NewOS(), session.Options{
		Source:      cfg.Source,
		Destination: cfg.Destination,
		Exclude:     cfg.Exclude,
		LockPath:    lockPath(cfg),
		Picker:      p,
	})
}
