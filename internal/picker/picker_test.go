package picker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	path, ok, err := Static("/data").PickDirectory(context.Background(), "pick")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/data", path)

	_, ok, err = Static("").PickDirectory(context.Background(), "pick")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFunc(t *testing.T) {
	var gotTitle string
	p := Func(func(ctx context.Context, title string) (string, bool, error) {
		gotTitle = title
		return "/x", true, nil
	})

	path, ok, err := p.PickDirectory(context.Background(), "Select source path")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/x", path)
	assert.Equal(t, "Select source path", gotTitle)
}

func TestPromptModel_AcceptsDirectory(t *testing.T) {
	dir := t.TempDir()
	m := newPromptModel("Select", dir)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pm := next.(promptModel)

	assert.Equal(t, dir, pm.chosen)
	assert.Empty(t, pm.errMsg)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPromptModel_RejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	next, cmd := newPromptModel("Select", file).Update(tea.KeyMsg{Type: tea.KeyEnter})
	pm := next.(promptModel)

	assert.Empty(t, pm.chosen)
	assert.Contains(t, pm.errMsg, "not a directory")
	assert.Nil(t, cmd)
	assert.Contains(t, pm.View(), "not a directory")

	// typing clears the error
	next, _ = pm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Empty(t, next.(promptModel).errMsg)
}

func TestPromptModel_Escape(t *testing.T) {
	next, cmd := newPromptModel("Select", "/").Update(tea.KeyMsg{Type: tea.KeyEsc})
	pm := next.(promptModel)

	assert.True(t, pm.canceled)
	assert.Empty(t, pm.chosen)
	require.NotNil(t, cmd)
}
