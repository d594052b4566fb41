// internal/services/normalizer.go
package services

import (
	"strings"
	"time"

	"tasklens/internal/models"
)

// NormalizeFields canonicalizes a raw field bundle. The task name is the
// only hard requirement; everything else defaults to null / P3. Dates and
// times that do not match the wire formats are dropped rather than stored,
// so nothing past this boundary consumes unvalidated model output.
func NormalizeFields(raw models.RawFields) (models.FieldBundle, error) {
	name := strings.TrimSpace(raw.TaskName)
	if name == "" {
		return models.FieldBundle{}, models.ErrMissingTaskName
	}

	bundle := models.FieldBundle{
		TaskName: name,
		Priority: normalizePriority(raw.Priority),
	}
	if a := strings.TrimSpace(raw.Assignee); a != "" {
		bundle.Assignee = &a
	}
	if d := strings.TrimSpace(raw.DueDate); d != "" {
		if _, err := time.Parse("2006-01-02", d); err == nil {
			bundle.DueDate = &d
		}
	}
	if tm := strings.TrimSpace(raw.DueTime); tm != "" {
		if _, err := time.Parse("15:04", tm); err == nil {
			bundle.DueTime = &tm
		}
	}
	return bundle, nil
}

func normalizePriority(s string) models.TaskPriority {
	p := models.TaskPriority(strings.ToUpper(strings.TrimSpace(s)))
	if models.ValidPriority(p) {
		return p
	}
	return models.DefaultPriority
}
