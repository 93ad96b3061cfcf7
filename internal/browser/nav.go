package browser

import "path/filepath"

// NavigateUp returns the parent of path. The root is its own parent.
func NavigateUp(path string) string {
	return filepath.Dir(filepath.Clean(path))
}

// NavigateInto joins child onto path. It does not check that child is a
// directory; callers only offer directory entries.
func NavigateInto(path, child string) string {
	return filepath.Join(path, child)
}
