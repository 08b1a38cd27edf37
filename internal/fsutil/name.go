package fsutil

import "errors"

// ErrInvalidName is returned for entry names that cannot safely be
// joined onto a directory path.
var ErrInvalidName = errors.New("invalid name")

// ValidName checks a single path component used for mkdir and rename.
// Names with separators or control bytes are rejected, as are the
// dot entries and anything longer than a typical filesystem allows.
func ValidName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if len(name) > 255 {
		return ErrInvalidName
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '/' || c == '\\' || c < 0x20 || c == 0x7f {
			return ErrInvalidName
		}
	}
	return nil
}
