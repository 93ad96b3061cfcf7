//go:build unix

package fsport

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

func osAccess(path string, mode AccessMode) error {
	var flags uint32
	if mode&Read != 0 {
		flags |= unix.R_OK
	}
	if mode&Write != 0 {
		flags |= unix.W_OK
	}
	if flags == 0 {
		flags = unix.F_OK
	}
	if err := unix.Access(path, flags); err != nil {
		return &fs.PathError{Op: "access", Path: path, Err: err}
	}
	return nil
}
