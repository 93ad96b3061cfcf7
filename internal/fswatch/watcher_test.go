package fswatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsChangesInWatchedDir(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, w.Watch(dirA))
	require.NoError(t, w.Watch(dirA))
	assert.Equal(t, dirA, w.Dir())

	require.NoError(t, os.WriteFile(filepath.Join(dirA, "new.txt"), []byte("x"), 0o644))
	select {
	case path := <-w.Changes:
		assert.Equal(t, dirA, filepath.Dir(path))
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	require.NoError(t, w.Watch(dirB))
	assert.Equal(t, dirB, w.Dir())

	// drain anything still queued from dirA
	time.Sleep(100 * time.Millisecond)
	select {
	case <-w.Changes:
	default:
	}

	require.NoError(t, os.WriteFile(filepath.Join(dirB, "b.txt"), []byte("x"), 0o644))
	select {
	case path := <-w.Changes:
		assert.Equal(t, dirB, filepath.Dir(path))
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported after switching directory")
	}
}

func TestWatcher_Closed(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.Watch(t.TempDir()), ErrWatcherClosed)
	assert.ErrorIs(t, w.Close(), ErrWatcherClosed)

	_, ok := <-w.Changes
	assert.False(t, ok)
	assert.NotPanics(t, func() { w.notify("late") })
}

func TestWatcher_MissingDir(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "missing")))
	assert.Empty(t, w.Dir())
}
