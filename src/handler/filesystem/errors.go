package filesystem

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a path or recycle bin id that does not exist.
	ErrNotFound = errors.New("path not found")

	// ErrIsDirectory indicates an attempt to write file content to a directory.
	ErrIsDirectory = errors.New("cannot write to a directory")

	// ErrDirectoryNotEmpty indicates a non-recursive delete of a directory with children.
	ErrDirectoryNotEmpty = errors.New("directory is not empty")

	// ErrAlreadyExists indicates the target of a restore or rename is occupied.
	ErrAlreadyExists = errors.New("an item already exists at that location")

	// ErrInvalidMove indicates moving a directory into its own subtree.
	ErrInvalidMove = errors.New("cannot move a directory into itself")

	// ErrInvalidName indicates a rename target that is empty or contains a separator.
	ErrInvalidName = errors.New("invalid file name")
)

// Operation names used in Error.
const (
	OpWrite   = "write"
	OpDelete  = "delete"
	OpRecycle = "recycle"
	OpRestore = "restore"
	OpMove    = "move"
	OpCopy    = "copy"
	OpRename  = "rename"
	OpList    = "list"
)

// Error wraps a filesystem error with the operation and path it concerns.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}

// IsConflict reports whether err is one of the structural precondition
// failures: writing into a directory, deleting a non-empty directory, or
// restoring/moving onto an occupied path.
func IsConflict(err error) bool {
	return errors.Is(err, ErrIsDirectory) ||
		errors.Is(err, ErrDirectoryNotEmpty) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrInvalidMove)
}
