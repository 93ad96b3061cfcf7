// Package picker asks the user for a directory. It stands in for the native
// folder dialog of a desktop shell.
package picker

import "context"

type DirectoryPicker interface {
	// PickDirectory returns the chosen absolute path. ok is false when the
	// user canceled.
	PickDirectory(ctx context.Context, title string) (path string, ok bool, err error)
}

// Func adapts a plain function to DirectoryPicker.
type Func func(ctx context.Context, title string) (string, bool, error)

func (f Func) PickDirectory(ctx context.Context, title string) (string, bool, error) {
	return f(ctx, title)
}

// Static always answers with the same path; an empty path means canceled.
type Static string

func (s Static) PickDirectory(ctx context.Context, title string) (string, bool, error) {
	if s == "" {
		return "", false, nil
	}
	return string(s), true, nil
}
