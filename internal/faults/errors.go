package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrConsistency   = errors.New("consistency error")
	ErrIO            = errors.New("i/o error")
	ErrLocked        = errors.New("output locked")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short label for the failure class, used as the ledger run
// status and as a structured log field.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrConsistency):
		return "consistency"
	case errors.Is(err, ErrLocked):
		return "locked"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "failed"
	}
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfiguration):
		return 2
	case errors.Is(err, ErrConsistency):
		return 3
	case errors.Is(err, ErrLocked):
		return 4
	default:
		return 1
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "cassprep failure"
	}
	return strings.Join(parts, ": ")
}
