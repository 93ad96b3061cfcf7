package browser

import "time"

// Entry is one immediate child of a listed directory. Size is set iff the
// entry is not a directory.
type Entry struct {
	Name      string  `json:"name"`
	Size      *string `json:"size"`
	Directory bool    `json:"directory"`

	Bytes   int64     `json:"-"`
	ModTime time.Time `json:"-"`
}

func (e Entry) SizeString() string {
	if e.Size == nil {
		return ""
	}
	return *e.Size
}
