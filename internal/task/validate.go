package task

import (
	"github.com/nonce-firewall/taskflow/internal/clierr"
)

// ErrEmptyTitle returns a CLIError for a missing or whitespace-only title.
func ErrEmptyTitle() *clierr.Error {
	return clierr.New(clierr.InvalidTitle, "title must not be empty")
}

// ErrInvalidStatus returns a CLIError for a status outside the allowed set.
func ErrInvalidStatus(status string) *clierr.Error {
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", status).
		WithDetails(map[string]any{
			"status":  status,
			"allowed": Statuses(),
		})
}

// ErrInvalidPriority returns a CLIError for a priority outside the allowed set.
func ErrInvalidPriority(priority string) *clierr.Error {
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", priority).
		WithDetails(map[string]any{
			"priority": priority,
			"allowed":  Priorities(),
		})
}

// ErrConflictingDue returns a CLIError for setting and clearing the due date
// in the same update.
func ErrConflictingDue() *clierr.Error {
	return clierr.New(clierr.InvalidInput, "cannot set and clear the due date together")
}

// ErrInvalidDate returns a CLIError for unparseable date input.
func ErrInvalidDate(input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid due date: %v", err).
		WithDetails(map[string]any{"input": input})
}

// ParseStatus validates raw status input from a flag or import record.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", ErrInvalidStatus(s)
	}
	return status, nil
}

// ParsePriority validates raw priority input from a flag or import record.
func ParsePriority(s string) (Priority, error) {
	priority := Priority(s)
	if !priority.Valid() {
		return "", ErrInvalidPriority(s)
	}
	return priority, nil
}
