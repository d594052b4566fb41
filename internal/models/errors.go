// internal/models/errors.go
package models

import "errors"

// Error taxonomy shared across the extraction and repository layers.
// Handlers match with errors.Is and map to HTTP statuses; nothing below the
// handler layer knows about HTTP.
var (
	// ErrMissingTaskName: normalization found no task name after trimming.
	ErrMissingTaskName = errors.New("task name is required")

	// ErrModelUnavailable: the completion capability could not be reached.
	// Never auto-recovered; the extraction engine does not fall back on it.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrUnparsableOutput: the model returned text that is not the expected
	// JSON shape. The only failure that triggers the rule-based fallback.
	ErrUnparsableOutput = errors.New("unparsable model output")

	// ErrExtractionFailed: extraction could not produce a usable result.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrNoTasksFound: a valid transcript yielded zero actionable items.
	// A rejection, not a server fault.
	ErrNoTasksFound = errors.New("no tasks found")

	// ErrNotFound: repository lookup miss.
	ErrNotFound = errors.New("task not found")

	// ErrValidation: malformed caller input at the write boundary.
	ErrValidation = errors.New("validation error")
)
