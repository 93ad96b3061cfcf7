// Package dirsync copies a source tree onto a destination directory. Every
// run copies every file; existing files at the destination are overwritten.
package dirsync

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/tallysync/tallysync/internal/fsport"
	"github.com/tallysync/tallysync/internal/utils"
)

type Options struct {
	// Exclude holds gitignore style patterns matched against paths relative
	// to the source. Empty means copy everything.
	Exclude []string
}

type Result struct {
	Source      string        `json:"source"`
	Destination string        `json:"destination"`
	Files       int           `json:"files"`
	Dirs        int           `json:"dirs"`
	Symlinks    int           `json:"symlinks"`
	Bytes       int64         `json:"bytes"`
	Elapsed     time.Duration `json:"elapsed"`
}

type Syncer struct {
	fs     fsport.FS
	ignore *gitignore.GitIgnore
}

func New(fs fsport.FS, opts Options) *Syncer {
	s := &Syncer{fs: fs}

	patterns := make([]string, 0, len(opts.Exclude))
	for _, p := range opts.Exclude {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) > 0 {
		s.ignore = gitignore.CompileIgnoreLines(patterns...)
	}
	return s
}

// Sync makes dst contain a copy of everything in src. dst and its parents are
// created when missing. The first failure aborts the run and is returned as a
// *SyncError; files copied before the failure stay in place.
func (s *Syncer) Sync(ctx context.Context, src, dst string) (*Result, error) {
	start := time.Now()
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)

	info, err := s.fs.Stat(src)
	if err != nil {
		return nil, &SyncError{Op: "stat source", Path: src, Err: err}
	}
	if !info.IsDir() {
		return nil, &SyncError{Op: "stat source", Path: src, Err: ErrSourceNotDirectory}
	}
	if err := s.fs.Access(src, fsport.Read); err != nil {
		return nil, &SyncError{Op: "access source", Path: src, Err: err}
	}

	if err := checkNesting(src, dst); err != nil {
		return nil, &SyncError{Op: "validate", Path: dst, Err: err}
	}

	if err := s.fs.EnsureDir(dst); err != nil {
		return nil, &SyncError{Op: "ensure destination", Path: dst, Err: err}
	}

	slog.Info("sync start", "source", src, "destination", dst)
	stats, err := s.fs.CopyTree(ctx, src, dst, fsport.CopyOptions{Skip: s.skip})
	if err != nil {
		slog.Error("sync failed", "source", src, "destination", dst, "error", err)
		return nil, &SyncError{Op: "copy", Path: src, Err: err}
	}

	res := &Result{
		Source:      src,
		Destination: dst,
		Files:       stats.Files,
		Dirs:        stats.Dirs,
		Symlinks:    stats.Symlinks,
		Bytes:       stats.Bytes,
		Elapsed:     time.Since(start),
	}
	slog.Info("sync done", "files", res.Files, "dirs", res.Dirs, "bytes", res.Bytes, "elapsed", res.Elapsed)
	return res, nil
}

func (s *Syncer) skip(rel string, isDir bool) bool {
	if s.ignore == nil {
		return false
	}
	if isDir {
		rel += "/"
	}
	return s.ignore.MatchesPath(rel)
}

func checkNesting(src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if absSrc == absDst {
		return ErrSourceEqualsDestination
	}
	if utils.IsSubPath(absSrc, absDst) {
		return ErrDestinationInsideSource
	}
	return nil
}
