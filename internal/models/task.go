// internal/models/task.go
package models

import "time"

// TaskPriority is the urgency bucket, P1 most urgent.
type TaskPriority string

const (
	PriorityP1 TaskPriority = "P1"
	PriorityP2 TaskPriority = "P2"
	PriorityP3 TaskPriority = "P3"
	PriorityP4 TaskPriority = "P4"

	// DefaultPriority is applied whenever the input carries no usable priority.
	DefaultPriority = PriorityP3
)

// ValidPriority reports whether p is one of the four known buckets.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return true
	}
	return false
}

// TaskSource records where a task came from.
type TaskSource string

const (
	SourceSingle  TaskSource = "single"
	SourceMeeting TaskSource = "meeting"
)

// ValidSource reports whether s is a known provenance tag.
func ValidSource(s TaskSource) bool {
	return s == SourceSingle || s == SourceMeeting
}

// Task is the canonical task record. Due date/time are kept as the wire
// strings ("2006-01-02", "15:04"); nil means "not set".
type Task struct {
	ID            int64        `json:"id"`
	TaskName      string       `json:"task_name"`
	Assignee      *string      `json:"assignee"`
	DueDate       *string      `json:"due_date"`
	DueTime       *string      `json:"due_time"`
	Priority      TaskPriority `json:"priority"`
	Completed     bool         `json:"completed"`
	CompletedAt   *time.Time   `json:"completedAt,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	OriginalInput string       `json:"originalInput"`
	Source        TaskSource   `json:"source"`
	Tags          []string     `json:"tags"`
	Notes         string       `json:"notes"`
}

// DueAt resolves the due instant used for overdue checks: a missing due time
// counts as end of day. Returns false when there is no due date or it does
// not parse.
func (t *Task) DueAt() (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	clock := "23:59"
	if t.DueTime != nil && *t.DueTime != "" {
		clock = *t.DueTime
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", *t.DueDate+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// SortKey resolves the due instant used for ordering: a missing due time
// sorts at start of day.
func (t *Task) SortKey() (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	clock := "00:00"
	if t.DueTime != nil && *t.DueTime != "" {
		clock = *t.DueTime
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", *t.DueDate+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// IsOverdue reports whether the task has a due date, is not completed, and
// that due instant is strictly before now. A task with no due date is never
// overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	at, ok := t.DueAt()
	if !ok {
		return false
	}
	return at.Before(now)
}

// RawFields is the loosely-typed bundle produced by the model or the
// fallback parser, before normalization. Empty string means absent.
type RawFields struct {
	TaskName string `json:"task_name"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"due_date"`
	DueTime  string `json:"due_time"`
	Priority string `json:"priority"`
}

// FieldBundle is the normalized extraction output, the only shape the
// repository accepts for creation.
type FieldBundle struct {
	TaskName string
	Assignee *string
	DueDate  *string
	DueTime  *string
	Priority TaskPriority
}

// TaskUpdate carries a partial update; nil fields are left untouched.
// Assignee/DueDate/DueTime set to an empty string clear the field.
type TaskUpdate struct {
	TaskName *string       `json:"task_name"`
	Assignee *string       `json:"assignee"`
	DueDate  *string       `json:"due_date"`
	DueTime  *string       `json:"due_time"`
	Priority *TaskPriority `json:"priority"`
	Notes    *string       `json:"notes"`
	Tags     *[]string     `json:"tags"`
}

// TaskFilter defines the available query parameters. Filters are ANDed.
type TaskFilter struct {
	Completed *bool
	Source    *TaskSource
	Priority  *TaskPriority
	Assignee  string
	Overdue   *bool
	Search    string
	Page      int
	Limit     int
}

// Pagination describes the window applied to a query result.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// TaskStats is the aggregate snapshot, always computed over the full
// unfiltered set.
type TaskStats struct {
	Total          int                  `json:"total"`
	Completed      int                  `json:"completed"`
	Pending        int                  `json:"pending"`
	Overdue        int                  `json:"overdue"`
	DueToday       int                  `json:"dueToday"`
	DueThisWeek    int                  `json:"dueThisWeek"`
	ByPriority     map[TaskPriority]int `json:"byPriority"`
	BySource       map[TaskSource]int   `json:"bySource"`
	Assignees      []string             `json:"assignees"`
	CreatedToday   int                  `json:"createdToday"`
	CompletedToday int                  `json:"completedToday"`
	UpdatedToday   int                  `json:"updatedToday"`
}

// QueryResult is the filtered, sorted, paginated view plus the stats
// snapshot.
type QueryResult struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
	Stats      TaskStats  `json:"stats"`
}

// BulkActionType enumerates the per-id bulk operations.
type BulkActionType string

const (
	BulkDelete         BulkActionType = "delete"
	BulkComplete       BulkActionType = "complete"
	BulkIncomplete     BulkActionType = "incomplete"
	BulkUpdatePriority BulkActionType = "update_priority"
)

// BulkResult reports partial-success bulk semantics: missing ids are
// collected, not fatal.
type BulkResult struct {
	Affected int     `json:"affected"`
	NotFound []int64 `json:"notFound"`
}

// ExportSnapshot is the portable full-set serialization, the contract for
// any future persistence layer.
type ExportSnapshot struct {
	ExportDate time.Time `json:"exportDate"`
	Version    string    `json:"version"`
	TaskCount  int       `json:"taskCount"`
	Tasks      []Task    `json:"tasks"`
}

// ImportTask is a loosely-typed incoming task; anything missing defaults the
// same way normalization defaults it. Items without a task name are skipped.
type ImportTask struct {
	TaskName      string   `json:"task_name"`
	Assignee      *string  `json:"assignee"`
	DueDate       *string  `json:"due_date"`
	DueTime       *string  `json:"due_time"`
	Priority      string   `json:"priority"`
	Completed     bool     `json:"completed"`
	Source        string   `json:"source"`
	Tags          []string `json:"tags"`
	Notes         string   `json:"notes"`
	OriginalInput string   `json:"originalInput"`
}

// ImportResult summarizes a best-effort import.
type ImportResult struct {
	ImportedCount int `json:"importedCount"`
	SkippedCount  int `json:"skippedCount"`
	TotalTasks    int `json:"totalTasks"`
}
