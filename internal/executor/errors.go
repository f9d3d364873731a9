package executor

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/VoxDroid/rpkgs/internal/sanitize"
)

// ErrRuntimeUnavailable is returned when no interpreter for the requested
// language is registered with the host. The user has to install or
// configure one; retrying does not help.
var ErrRuntimeUnavailable = errors.New("no R runtime available")

// ErrNoActiveSession is returned when a runtime is registered but no
// session for it is running.
var ErrNoActiveSession = errors.New("no active R console session available; please start one")

// ErrSessionClosed is reported by executions still pending when their
// session exits.
var ErrSessionClosed = errors.New("interpreter session ended")

// ExecutionError is any interpreter-reported failure. Message has ANSI
// escape sequences removed.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string { return e.Message }

// MissingDependencyError reports that code failed because a package it
// relies on (for the query program: jsonlite) is not installed. Callers can
// offer to install Package.
type MissingDependencyError struct {
	Package string
	Message string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("the '%s' package appears to be missing: %s", e.Package, e.Message)
}

var jsonliteRe = regexp.MustCompile(`(?i)jsonlite`)

// Classify turns raw interpreter error text into a typed error.
func Classify(raw string) error {
	msg := sanitize.StripANSI(raw)
	if jsonliteRe.MatchString(msg) {
		return &MissingDependencyError{Package: "jsonlite", Message: msg}
	}
	return &ExecutionError{Message: msg}
}
