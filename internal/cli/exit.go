package cli

import (
	"errors"

	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/material"
	"github.com/rshade/lcacost/internal/selection"
)

// Process exit codes.
const (
	ExitCodeOK               = 0
	ExitCodeError            = 1
	ExitCodeDataIntegrity    = 2
	ExitCodeInvalidParameter = 3
)

// ExitError carries an explicit exit code to main.
type ExitError struct {
	ExitCode int
	Reason   string
}

func (e *ExitError) Error() string {
	return e.Reason
}

// ExitCodeFor maps an error returned by a command to a process exit code:
// malformed data or an unknown category exits 2, a bad parameter or
// selection exits 3.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitCodeOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	switch {
	case errors.Is(err, selection.ErrUnknownBaseline),
		errors.Is(err, material.ErrDataIntegrity),
		errors.Is(err, material.ErrUnknownCategory),
		errors.Is(err, material.ErrUnsupportedSchema):
		return ExitCodeDataIntegrity
	case errors.Is(err, engine.ErrInvalidParameter),
		errors.Is(err, selection.ErrUnknownMaterial):
		return ExitCodeInvalidParameter
	default:
		return ExitCodeError
	}
}
