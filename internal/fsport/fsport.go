// Package fsport is the filesystem boundary of tallysync. The browser, the
// sync engine and the session talk to an FS instead of the os package so they
// can run against an in-memory tree in tests.
package fsport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

type AccessMode uint8

const (
	Read AccessMode = 1 << iota
	Write

	ReadWrite = Read | Write
)

var (
	ErrNotDirectory = errors.New("not a directory")
	ErrIsDirectory  = errors.New("is a directory")
)

// CopyOptions tunes CopyTree.
type CopyOptions struct {
	// Skip is called with the slash separated path relative to the source root.
	// Returning true leaves the entry (and for directories, everything below
	// it) out of the copy.
	Skip func(rel string, isDir bool) bool
}

type CopyStats struct {
	Files    int
	Dirs     int
	Symlinks int
	Bytes    int64
}

type FS interface {
	// ListChildren returns the names of the immediate children of dir.
	ListChildren(dir string) ([]string, error)
	// Stat follows symlinks.
	Stat(path string) (fs.FileInfo, error)
	// EnsureDir creates path and any missing parents. No-op when it exists.
	EnsureDir(path string) error
	// CopyTree copies everything below src into dst, overwriting files.
	CopyTree(ctx context.Context, src, dst string, opts CopyOptions) (*CopyStats, error)
	// Access checks that path exists and allows the requested operations.
	Access(path string, mode AccessMode) error
}

// AferoFS implements FS on top of an afero filesystem.
type AferoFS struct {
	fs     afero.Fs
	access func(path string, mode AccessMode) error
}

// NewOS returns an FS backed by the host filesystem. Access checks ask the
// operating system, so ACLs and read-only mounts are honoured.
func NewOS() *AferoFS {
	return &AferoFS{fs: afero.NewOsFs(), access: osAccess}
}

// New wraps an arbitrary afero filesystem. Access checks look at the owner
// permission bits.
func New(afs afero.Fs) *AferoFS {
	a := &AferoFS{fs: afs}
	a.access = a.modeAccess
	return a
}

// NewMem returns an empty in-memory FS.
func NewMem() *AferoFS {
	return New(afero.NewMemMapFs())
}

// Afero exposes the underlying filesystem, mostly for test setup.
func (a *AferoFS) Afero() afero.Fs {
	return a.fs
}

func (a *AferoFS) ListChildren(dir string) ([]string, error) {
	f, err := a.fs.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (a *AferoFS) Stat(path string) (fs.FileInfo, error) {
	return a.fs.Stat(path)
}

func (a *AferoFS) EnsureDir(path string) error {
	info, err := a.fs.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return &fs.PathError{Op: "mkdir", Path: path, Err: ErrNotDirectory}
		}
		return nil
	}
	return a.fs.MkdirAll(path, 0o755)
}

func (a *AferoFS) Access(path string, mode AccessMode) error {
	return a.access(path, mode)
}

func (a *AferoFS) modeAccess(path string, mode AccessMode) error {
	info, err := a.fs.Stat(path)
	if err != nil {
		return err
	}
	perm := info.Mode().Perm()
	if mode&Read != 0 && perm&0o400 == 0 {
		return &fs.PathError{Op: "access", Path: path, Err: fs.ErrPermission}
	}
	if mode&Write != 0 && perm&0o200 == 0 {
		return &fs.PathError{Op: "access", Path: path, Err: fs.ErrPermission}
	}
	return nil
}

func (a *AferoFS) CopyTree(ctx context.Context, src, dst string, opts CopyOptions) (*CopyStats, error) {
	root, err := a.resolveRoot(src)
	if err != nil {
		return nil, err
	}

	stats := &CopyStats{}
	err = afero.Walk(a.fs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if opts.Skip != nil && opts.Skip(filepath.ToSlash(rel), info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)
		mode := info.Mode()
		switch {
		case mode.IsDir():
			if err := a.clearNonDir(target); err != nil {
				return err
			}
			if err := a.fs.MkdirAll(target, mode.Perm()|0o700); err != nil {
				return err
			}
			stats.Dirs++
		case mode&fs.ModeSymlink != 0:
			n, linked, err := a.copySymlink(path, target)
			if err != nil {
				return err
			}
			if linked {
				stats.Symlinks++
			} else {
				stats.Files++
				stats.Bytes += n
			}
		case mode.IsRegular():
			n, err := a.copyFile(path, target, mode.Perm())
			if err != nil {
				return err
			}
			stats.Files++
			stats.Bytes += n
		default:
			slog.Debug("copy skip irregular file", "path", path, "mode", mode.String())
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	return stats, nil
}

// resolveRoot makes sure a symlinked source directory is walked through
// instead of being copied as a single link.
func (a *AferoFS) resolveRoot(src string) (string, error) {
	if _, ok := a.fs.(*afero.OsFs); ok {
		return filepath.EvalSymlinks(src)
	}
	return src, nil
}

func (a *AferoFS) copyFile(src, dst string, perm fs.FileMode) (int64, error) {
	in, err := a.fs.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := a.clearTarget(dst); err != nil {
		return 0, err
	}

	out, err := a.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("copy %s: %w", src, err)
	}

	// umask may have masked perm on create
	if err := a.fs.Chmod(dst, perm); err != nil {
		return n, err
	}
	return n, nil
}

// clearTarget unlinks whatever non-directory sits at dst so the copy never
// writes through a symlink or into a read-only file left by an earlier run.
func (a *AferoFS) clearTarget(dst string) error {
	info, err := a.lstat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "copy", Path: dst, Err: ErrIsDirectory}
	}
	return a.fs.Remove(dst)
}

// clearNonDir unlinks a file or symlink sitting where a directory is about to
// be created. Existing directories are kept.
func (a *AferoFS) clearNonDir(dst string) error {
	info, err := a.lstat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil || info.IsDir() {
		return err
	}
	return a.fs.Remove(dst)
}

func (a *AferoFS) lstat(path string) (fs.FileInfo, error) {
	if lstater, ok := a.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return a.fs.Stat(path)
}

// copySymlink recreates the link at dst when the filesystem supports links,
// otherwise it copies the file the link points to.
func (a *AferoFS) copySymlink(src, dst string) (int64, bool, error) {
	linker, ok := a.fs.(afero.Symlinker)
	if !ok {
		info, err := a.fs.Stat(src)
		if err != nil {
			return 0, false, err
		}
		n, err := a.copyFile(src, dst, info.Mode().Perm())
		return n, false, err
	}

	target, err := linker.ReadlinkIfPossible(src)
	if err != nil {
		return 0, false, err
	}
	if err := a.fs.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, false, err
	}
	if err := linker.SymlinkIfPossible(target, dst); err != nil {
		return 0, false, err
	}
	return 0, true, nil
}
