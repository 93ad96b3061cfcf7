//go:build !unix

package fsport

import (
	"io/fs"
	"os"
)

func osAccess(path string, mode AccessMode) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode&Write != 0 && info.Mode().Perm()&0o200 == 0 {
		return &fs.PathError{Op: "access", Path: path, Err: fs.ErrPermission}
	}
	return nil
}
