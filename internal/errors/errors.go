package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/dsurfergithub/habitorbit/internal/logger"
)

var (
	// ErrValidation marks input rejected before any state was touched
	ErrValidation = stderrors.New("validation failed")
	// ErrHabitNotFound is returned when no habit has the requested id
	ErrHabitNotFound = stderrors.New("habit not found")
	// ErrInvalidImport marks an import document that was rejected as a whole
	ErrInvalidImport = stderrors.New("invalid import document")
	// ErrStorage marks a persistence failure; in-memory state is still authoritative
	ErrStorage = stderrors.New("storage unavailable")
)

// OpError records the operation and resource an error happened on
type OpError struct {
	Op       string
	Resource string
	ID       string
	Err      error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Wrap returns an OpError, or nil when err is nil
func Wrap(op, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Resource: resource, ID: id, Err: err}
}

// Validationf builds an error that matches ErrValidation
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Storage wraps a persistence failure so it matches ErrStorage while keeping the cause
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
