package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSupported is returned when no registered handler resolves a path.
	ErrNotSupported = errors.New("NotSupported")
	// ErrInvalidPath is returned when registering a path that does not start with "/".
	ErrInvalidPath = errors.New("path must start with \"/\"")
)

func notSupported(path string) error {
	return fmt.Errorf("%w: %s", ErrNotSupported, path)
}
