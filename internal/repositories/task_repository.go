package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"tasklens/internal/models"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// TaskRepository owns the canonical record set. All methods are synchronous
// over in-memory state; every mutation is serialized behind one mutex
// together with the id counter. Returned records are copies: callers never
// hold a reference into the store.
type TaskRepository interface {
	Store(bundle models.FieldBundle, source models.TaskSource, originalInput string) *models.Task
	StoreMany(bundles []models.FieldBundle, source models.TaskSource, originalInput string) []models.Task
	FindByID(id int64) (*models.Task, error)
	Update(id int64, upd models.TaskUpdate) (*models.Task, error)
	ToggleComplete(id int64, completed bool) (*models.Task, error)
	Delete(id int64) (*models.Task, error)
	BulkAction(ids []int64, action models.BulkActionType, priority models.TaskPriority) models.BulkResult
	DeleteBySource(source models.TaskSource) int
	Query(filter models.TaskFilter) models.QueryResult
	Stats() models.TaskStats
	Snapshot() []models.Task
	Restore(t models.Task) *models.Task
	Reset()
}

type taskRepository struct {
	mu     sync.Mutex
	tasks  []*models.Task
	nextID int64
	now    func() time.Time
}

func NewTaskRepository() TaskRepository {
	return &taskRepository{nextID: 1, now: time.Now}
}

func (r *taskRepository) Store(bundle models.FieldBundle, source models.TaskSource, originalInput string) *models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyTask(r.store(bundle, source, originalInput))
}

func (r *taskRepository) StoreMany(bundles []models.FieldBundle, source models.TaskSource, originalInput string) []models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Task, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, *copyTask(r.store(b, source, originalInput)))
	}
	return out
}

// store assigns identity and timestamps; caller holds the lock.
func (r *taskRepository) store(bundle models.FieldBundle, source models.TaskSource, originalInput string) *models.Task {
	now := r.now()
	t := &models.Task{
		ID:            r.nextID,
		TaskName:      bundle.TaskName,
		Assignee:      bundle.Assignee,
		DueDate:       bundle.DueDate,
		DueTime:       bundle.DueTime,
		Priority:      bundle.Priority,
		CreatedAt:     now,
		UpdatedAt:     now,
		OriginalInput: originalInput,
		Source:        source,
		Tags:          []string{},
	}
	if t.Priority == "" {
		t.Priority = models.DefaultPriority
	}
	r.nextID++
	r.tasks = append(r.tasks, t)
	return t
}

func (r *taskRepository) FindByID(id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.find(id)
	if t == nil {
		return nil, models.ErrNotFound
	}
	return copyTask(t), nil
}

func (r *taskRepository) Update(id int64, upd models.TaskUpdate) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.find(id)
	if t == nil {
		return nil, models.ErrNotFound
	}
	if err := applyUpdate(t, upd); err != nil {
		return nil, err
	}
	t.UpdatedAt = r.now()
	return copyTask(t), nil
}

func (r *taskRepository) ToggleComplete(id int64, completed bool) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.find(id)
	if t == nil {
		return nil, models.ErrNotFound
	}
	r.toggle(t, completed)
	return copyTask(t), nil
}

// toggle flips completion; completedAt exists iff completed. Caller holds
// the lock.
func (r *taskRepository) toggle(t *models.Task, completed bool) {
	now := r.now()
	if completed && !t.Completed {
		t.CompletedAt = &now
	}
	if !completed {
		t.CompletedAt = nil
	}
	t.Completed = completed
	t.UpdatedAt = now
}

func (r *taskRepository) Delete(id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return copyTask(t), nil
		}
	}
	return nil, models.ErrNotFound
}

// BulkAction applies one action per id, continuing past missing ids.
// Priority is only consulted for update_priority and has been validated by
// the service layer.
func (r *taskRepository) BulkAction(ids []int64, action models.BulkActionType, priority models.TaskPriority) models.BulkResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := models.BulkResult{NotFound: []int64{}}
	for _, id := range ids {
		t := r.find(id)
		if t == nil {
			res.NotFound = append(res.NotFound, id)
			continue
		}
		switch action {
		case models.BulkDelete:
			for i, cur := range r.tasks {
				if cur.ID == id {
					r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
					break
				}
			}
		case models.BulkComplete:
			r.toggle(t, true)
		case models.BulkIncomplete:
			r.toggle(t, false)
		case models.BulkUpdatePriority:
			t.Priority = priority
			t.UpdatedAt = r.now()
		}
		res.Affected++
	}
	return res
}

func (r *taskRepository) DeleteBySource(source models.TaskSource) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.tasks[:0]
	deleted := 0
	for _, t := range r.tasks {
		if t.Source == source {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	r.tasks = kept
	return deleted
}

func (r *taskRepository) Query(filter models.TaskFilter) models.QueryResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	matched := make([]*models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if matches(t, filter, now) {
			matched = append(matched, t)
		}
	}
	sortTasks(matched)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	total := len(matched)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := make([]models.Task, 0, end-start)
	for _, t := range matched[start:end] {
		items = append(items, *copyTask(t))
	}

	return models.QueryResult{
		Tasks: items,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
		Stats: r.stats(now),
	}
}

func (r *taskRepository) Stats() models.TaskStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats(r.now())
}

func (r *taskRepository) Snapshot() []models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, *copyTask(t))
	}
	return out
}

// Restore inserts an imported record under a fresh id. Zero timestamps are
// stamped with now; the completedAt/completed invariant is enforced.
func (r *taskRepository) Restore(t models.Task) *models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	t.ID = r.nextID
	r.nextID++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.Completed && t.CompletedAt == nil {
		t.CompletedAt = &now
	}
	if !t.Completed {
		t.CompletedAt = nil
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	stored := t
	r.tasks = append(r.tasks, &stored)
	return copyTask(&stored)
}

// Reset drops every record and restarts the id counter. Only import with
// replace uses this.
func (r *taskRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = nil
	r.nextID = 1
}

// ---- internals (caller holds the lock) ----

func (r *taskRepository) find(id int64) *models.Task {
	for _, t := range r.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func applyUpdate(t *models.Task, upd models.TaskUpdate) error {
	if upd.TaskName != nil {
		name := strings.TrimSpace(*upd.TaskName)
		if name == "" {
			return models.ErrValidation
		}
		t.TaskName = name
	}
	if upd.Assignee != nil {
		if *upd.Assignee == "" {
			t.Assignee = nil
		} else {
			a := *upd.Assignee
			t.Assignee = &a
		}
	}
	if upd.DueDate != nil {
		if *upd.DueDate == "" {
			t.DueDate = nil
		} else {
			d := *upd.DueDate
			t.DueDate = &d
		}
	}
	if upd.DueTime != nil {
		if *upd.DueTime == "" {
			t.DueTime = nil
		} else {
			tm := *upd.DueTime
			t.DueTime = &tm
		}
	}
	if upd.Priority != nil {
		if !models.ValidPriority(*upd.Priority) {
			return models.ErrValidation
		}
		t.Priority = *upd.Priority
	}
	if upd.Notes != nil {
		t.Notes = *upd.Notes
	}
	if upd.Tags != nil {
		tags := make([]string, len(*upd.Tags))
		copy(tags, *upd.Tags)
		t.Tags = tags
	}
	return nil
}

func matches(t *models.Task, f models.TaskFilter, now time.Time) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Source != nil && t.Source != *f.Source {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Assignee != "" {
		if t.Assignee == nil || !strings.Contains(strings.ToLower(*t.Assignee), strings.ToLower(f.Assignee)) {
			return false
		}
	}
	if f.Overdue != nil && t.IsOverdue(now) != *f.Overdue {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hit := strings.Contains(strings.ToLower(t.TaskName), q) ||
			(t.Assignee != nil && strings.Contains(strings.ToLower(*t.Assignee), q)) ||
			strings.Contains(strings.ToLower(t.Notes), q)
		if !hit {
			return false
		}
	}
	return true
}

var priorityRank = map[models.TaskPriority]int{
	models.PriorityP1: 1,
	models.PriorityP2: 2,
	models.PriorityP3: 3,
	models.PriorityP4: 4,
}

// sortTasks orders by: incomplete first, then urgency, then earliest due
// instant, then dated before undated, then newest creation. This precedence
// is load-bearing: it surfaces the most urgent unfinished work first.
func sortTasks(tasks []*models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if priorityRank[a.Priority] != priorityRank[b.Priority] {
			return priorityRank[a.Priority] < priorityRank[b.Priority]
		}
		aDue, aOK := a.SortKey()
		bDue, bOK := b.SortKey()
		if aOK && bOK && !aDue.Equal(bDue) {
			return aDue.Before(bDue)
		}
		if aOK != bOK {
			return aOK
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

func (r *taskRepository) stats(now time.Time) models.TaskStats {
	stats := models.TaskStats{
		Total: len(r.tasks),
		ByPriority: map[models.TaskPriority]int{
			models.PriorityP1: 0,
			models.PriorityP2: 0,
			models.PriorityP3: 0,
			models.PriorityP4: 0,
		},
		BySource:  map[models.TaskSource]int{},
		Assignees: []string{},
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today := now.Format("2006-01-02")
	weekEnd := midnight.AddDate(0, 0, 7)
	seen := map[string]bool{}

	for _, t := range r.tasks {
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
			stats.ByPriority[t.Priority]++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
		if !t.Completed && t.DueDate != nil {
			if *t.DueDate == today {
				stats.DueToday++
			}
			if due, ok := t.SortKey(); ok && !due.Before(midnight) && due.Before(weekEnd) {
				stats.DueThisWeek++
			}
		}
		stats.BySource[t.Source]++
		if t.Assignee != nil && !seen[*t.Assignee] {
			seen[*t.Assignee] = true
			stats.Assignees = append(stats.Assignees, *t.Assignee)
		}
		if sameDay(t.CreatedAt, midnight) {
			stats.CreatedToday++
		}
		if t.CompletedAt != nil && sameDay(*t.CompletedAt, midnight) {
			stats.CompletedToday++
		}
		if sameDay(t.UpdatedAt, midnight) {
			stats.UpdatedToday++
		}
	}
	sort.Strings(stats.Assignees)
	return stats
}

func sameDay(ts, midnight time.Time) bool {
	return !ts.Before(midnight) && ts.Before(midnight.AddDate(0, 0, 1))
}

func copyTask(t *models.Task) *models.Task {
	cp := *t
	if t.Tags != nil {
		cp.Tags = make([]string, len(t.Tags))
		copy(cp.Tags, t.Tags)
	}
	return &cp
}
