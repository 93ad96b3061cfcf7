// Package session holds the browsing state and the sync configuration that
// the views mutate: the current directory (which doubles as the sync source)
// and the destination directory.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/tallysync/tallysync/internal/browser"
	"github.com/tallysync/tallysync/internal/diag"
	"github.com/tallysync/tallysync/internal/dirsync"
	"github.com/tallysync/tallysync/internal/fsport"
	"github.com/tallysync/tallysync/internal/picker"
	"github.com/tallysync/tallysync/internal/utils"
)

const (
	MsgSyncSuccess   = "Data synced successfully."
	msgSyncErrPrefix = "Error syncing data: "

	TitlePickSource      = "Select source path"
	TitlePickDestination = "Select destination path"
)

var (
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrPathRejected   = errors.New("path rejected")
	ErrLocked         = errors.New("another tallysync process is syncing")
	ErrPickCanceled   = errors.New("directory selection canceled")
)

type Options struct {
	Source      string
	Destination string
	Exclude     []string
	// LockPath is an optional lock file shared by every tallysync process.
	LockPath string
	Picker   picker.DirectoryPicker
	Sink     diag.Sink
}

// Outcome is what a sync reports back to the user.
type Outcome struct {
	Message  string          `json:"message"`
	Err      error           `json:"-"`
	Result   *dirsync.Result `json:"result,omitempty"`
	Finished time.Time       `json:"finished"`
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

type Session struct {
	fs     fsport.FS
	lister *browser.Lister
	syncer *dirsync.Syncer
	picker picker.DirectoryPicker
	sink   diag.Sink
	lock   *flock.Flock

	mu          sync.RWMutex
	path        string
	destination string
	last        *Outcome

	syncing atomic.Bool
}

// New builds a session. Defaults are adopted as given, without validation:
// the destination usually does not exist until the first sync creates it.
func New(fs fsport.FS, opts Options) *Session {
	sink := opts.Sink
	if sink == nil {
		sink = diag.NewSlogSink(nil)
	}

	s := &Session{
		fs:          fs,
		lister:      browser.NewLister(fs, sink),
		syncer:      dirsync.New(fs, dirsync.Options{Exclude: opts.Exclude}),
		picker:      opts.Picker,
		sink:        sink,
		path:        opts.Source,
		destination: opts.Destination,
	}
	if opts.LockPath != "" {
		s.lock = flock.New(opts.LockPath)
	}
	return s
}

// Path is the directory being browsed, which is also the sync source.
func (s *Session) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

func (s *Session) Destination() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.destination
}

func (s *Session) Syncing() bool {
	return s.syncing.Load()
}

// LastSync returns the outcome of the most recent sync, or nil.
func (s *Session) LastSync() *Outcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	o := *s.last
	return &o
}

// Entries lists the current directory.
func (s *Session) Entries() []browser.Entry {
	return s.lister.List(s.Path())
}

// Filtered lists the current directory keeping names that start with query.
func (s *Session) Filtered(query string) []browser.Entry {
	return browser.Filter(s.Entries(), query)
}

// Up moves to the parent directory and returns the new path.
func (s *Session) Up() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = browser.NavigateUp(s.path)
	return s.path
}

// Into moves to the child directory name and returns the new path.
func (s *Session) Into(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = browser.NavigateInto(s.path, name)
	return s.path
}

// SetSource adopts path as the browsed directory and sync source when it is
// readable and writable. On rejection the previous path is kept.
func (s *Session) SetSource(path string) error {
	resolved, err := s.validate(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.path = resolved
	s.mu.Unlock()
	slog.Info("source path set", "path", resolved)
	return nil
}

// SetDestination adopts path as the sync destination when it is readable and
// writable. On rejection the previous destination is kept.
func (s *Session) SetDestination(path string) error {
	resolved, err := s.validate(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.destination = resolved
	s.mu.Unlock()
	slog.Info("destination path set", "path", resolved)
	return nil
}

// PickSource asks the picker for a new source. Returns ErrPickCanceled when
// the user backs out.
func (s *Session) PickSource(ctx context.Context) error {
	path, err := s.pick(ctx, TitlePickSource)
	if err != nil {
		return err
	}
	return s.SetSource(path)
}

func (s *Session) PickDestination(ctx context.Context) error {
	path, err := s.pick(ctx, TitlePickDestination)
	if err != nil {
		return err
	}
	return s.SetDestination(path)
}

func (s *Session) pick(ctx context.Context, title string) (string, error) {
	if s.picker == nil {
		return "", errors.New("no directory picker configured")
	}
	path, ok, err := s.picker.PickDirectory(ctx, title)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrPickCanceled
	}
	return path, nil
}

func (s *Session) validate(path string) (string, error) {
	resolved, err := ValidatePath(s.fs, path)
	if err != nil {
		s.sink.Emit(diag.Event{Kind: diag.PathValidationError, Path: path, Err: err})
		return "", fmt.Errorf("%w: %s: %w", ErrPathRejected, path, err)
	}
	return resolved, nil
}

// ValidatePath resolves path and checks that it exists and is both readable
// and writable.
func ValidatePath(fs fsport.FS, path string) (string, error) {
	resolved, err := utils.ResolvePath(path)
	if err != nil {
		return "", err
	}
	if err := fs.Access(resolved, fsport.ReadWrite); err != nil {
		return "", err
	}
	return resolved, nil
}

// Sync copies the current source onto the destination. Only one sync runs
// at a time; a call made while another is in flight fails immediately with
// ErrSyncInProgress. When no source is set the picker is asked for one.
func (s *Session) Sync(ctx context.Context) Outcome {
	if !s.syncing.CompareAndSwap(false, true) {
		return failed(ErrSyncInProgress)
	}
	defer s.syncing.Store(false)

	src := s.Path()
	if src == "" {
		picked, err := s.pick(ctx, TitlePickSource)
		if errors.Is(err, ErrPickCanceled) {
			slog.Warn("user canceled path selection")
			return Outcome{Err: err, Finished: time.Now()}
		}
		if err != nil {
			return s.record(failed(err))
		}
		resolved, err := s.validate(picked)
		if err != nil {
			return s.record(failed(err))
		}
		s.mu.Lock()
		s.path = resolved
		s.mu.Unlock()
		slog.Info("source path set", "path", resolved)
		src = resolved
	}
	dst := s.Destination()

	if s.lock != nil {
		if err := utils.EnsureParent(s.lock.Path()); err != nil {
			return s.record(failed(err))
		}
		locked, err := s.lock.TryLock()
		if err != nil {
			return s.record(failed(fmt.Errorf("acquire sync lock: %w", err)))
		}
		if !locked {
			return s.record(failed(ErrLocked))
		}
		defer func() {
			if err := s.lock.Unlock(); err != nil {
				slog.Warn("release sync lock", "error", err)
			}
		}()
	}

	res, err := s.syncer.Sync(ctx, src, dst)
	if err != nil {
		return s.record(failed(err))
	}
	return s.record(Outcome{Message: MsgSyncSuccess, Result: res, Finished: time.Now()})
}

func (s *Session) record(o Outcome) Outcome {
	s.mu.Lock()
	s.last = &o
	s.mu.Unlock()
	return o
}

func failed(err error) Outcome {
	return Outcome{Message: msgSyncErrPrefix + err.Error(), Err: err, Finished: time.Now()}
}
