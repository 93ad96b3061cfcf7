// Package browser lists a single directory level and provides the pure
// helpers the browsing views are built from.
package browser

import (
	"path/filepath"

	"github.com/tallysync/tallysync/internal/diag"
	"github.com/tallysync/tallysync/internal/fsport"
)

type Lister struct {
	fs   fsport.FS
	sink diag.Sink
}

func NewLister(fs fsport.FS, sink diag.Sink) *Lister {
	if sink == nil {
		sink = diag.Discard
	}
	return &Lister{fs: fs, sink: sink}
}

// List returns the immediate children of dir sorted by name. It never fails:
// an unreadable directory yields an empty listing and children whose metadata
// cannot be read are left out. Both cases are reported to the diag sink.
func (l *Lister) List(dir string) []Entry {
	names, err := l.fs.ListChildren(dir)
	if err != nil {
		l.sink.Emit(diag.Event{Kind: diag.ListingDirectoryError, Path: dir, Err: err})
		return []Entry{}
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		childPath := filepath.Join(dir, name)
		info, err := l.fs.Stat(childPath)
		if err != nil {
			l.sink.Emit(diag.Event{Kind: diag.ListingEntryError, Path: childPath, Err: err})
			continue
		}

		entry := Entry{
			Name:      name,
			Directory: info.IsDir(),
			ModTime:   info.ModTime(),
		}
		if !entry.Directory {
			size := FormatSize(info.Size())
			entry.Size = &size
			entry.Bytes = info.Size()
		}
		entries = append(entries, entry)
	}
	return entries
}
