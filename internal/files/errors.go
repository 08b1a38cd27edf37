package files

import (
	"errors"

	"github.com/skbidisigma1/backpackpi/internal/fsutil"
)

var (
	// ErrNotFound is returned when the target path does not exist.
	// Deleting an absent path is an error here, not an idempotent
	// success; callers rely on the 404 to notice racing operations.
	ErrNotFound = errors.New("not found")

	// ErrNotADirectory is returned when a directory operation hits a file.
	ErrNotADirectory = errors.New("not a directory")

	// ErrIsDirectory is returned when a file operation hits a directory.
	ErrIsDirectory = errors.New("is a directory")

	// ErrTooLarge is returned when content exceeds MaxEditSize.
	ErrTooLarge = errors.New("content too large")

	// ErrExists is returned when the destination already exists.
	ErrExists = errors.New("already exists")

	// ErrInvalidName is returned for unusable entry names.
	ErrInvalidName = fsutil.ErrInvalidName
)
