package browser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigateRoundTrip(t *testing.T) {
	sep := string(filepath.Separator)
	paths := []string{
		sep,
		filepath.Join(sep, "home"),
		filepath.Join(sep, "home", "user", "data"),
	}

	for _, p := range paths {
		assert.Equal(t, p, NavigateUp(NavigateInto(p, "child")), "round trip from %s", p)
	}
}

func TestNavigateUp_RootIsFixedPoint(t *testing.T) {
	root := string(filepath.Separator)
	assert.Equal(t, root, NavigateUp(root))
	assert.Equal(t, root, NavigateUp(NavigateUp(NavigateUp(root))))
}

func TestNavigateUp_TrailingSeparator(t *testing.T) {
	p := filepath.Join(string(filepath.Separator), "a", "b") + string(filepath.Separator)
	assert.Equal(t, filepath.Join(string(filepath.Separator), "a"), NavigateUp(p))
}
