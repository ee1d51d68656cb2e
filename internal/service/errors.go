package service

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks requests rejected before reaching storage.
var ErrInvalidArgument = errors.New("invalid argument")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
