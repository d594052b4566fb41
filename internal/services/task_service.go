// internal/services/task_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"tasklens/internal/models"
	"tasklens/internal/repositories"
)

const exportVersion = "1.0"

// TaskService defines the task-related business operations exposed to the
// transport layer.
type TaskService interface {
	CreateFromBundle(bundle models.FieldBundle, source models.TaskSource, originalInput string) *models.Task
	CreateFromBundles(bundles []models.FieldBundle, source models.TaskSource, originalInput string) []models.Task
	GetByID(id int64) (*models.Task, error)
	Update(id int64, upd models.TaskUpdate) (*models.Task, error)
	ToggleComplete(id int64, completed bool) (*models.Task, error)
	Delete(id int64) (*models.Task, error)
	BulkAction(ids []int64, action models.BulkActionType, priority models.TaskPriority) (models.BulkResult, error)
	DeleteBySource(source models.TaskSource) int
	Query(filter models.TaskFilter) models.QueryResult
	Stats() models.TaskStats
	Export() models.ExportSnapshot
	Import(items []models.ImportTask, replace bool) models.ImportResult
}

type taskService struct {
	repo repositories.TaskRepository
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repositories.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) CreateFromBundle(bundle models.FieldBundle, source models.TaskSource, originalInput string) *models.Task {
	return s.repo.Store(bundle, source, originalInput)
}

func (s *taskService) CreateFromBundles(bundles []models.FieldBundle, source models.TaskSource, originalInput string) []models.Task {
	return s.repo.StoreMany(bundles, source, originalInput)
}

func (s *taskService) GetByID(id int64) (*models.Task, error) {
	return s.repo.FindByID(id)
}

func (s *taskService) Update(id int64, upd models.TaskUpdate) (*models.Task, error) {
	return s.repo.Update(id, upd)
}

func (s *taskService) ToggleComplete(id int64, completed bool) (*models.Task, error) {
	return s.repo.ToggleComplete(id, completed)
}

func (s *taskService) Delete(id int64) (*models.Task, error) {
	return s.repo.Delete(id)
}

func (s *taskService) BulkAction(ids []int64, action models.BulkActionType, priority models.TaskPriority) (models.BulkResult, error) {
	switch action {
	case models.BulkDelete, models.BulkComplete, models.BulkIncomplete:
	case models.BulkUpdatePriority:
		if !models.ValidPriority(priority) {
			return models.BulkResult{}, fmt.Errorf("%w: priority %q", models.ErrValidation, priority)
		}
	default:
		return models.BulkResult{}, fmt.Errorf("%w: unknown action %q", models.ErrValidation, action)
	}
	return s.repo.BulkAction(ids, action, priority), nil
}

func (s *taskService) DeleteBySource(source models.TaskSource) int {
	return s.repo.DeleteBySource(source)
}

func (s *taskService) Query(filter models.TaskFilter) models.QueryResult {
	return s.repo.Query(filter)
}

func (s *taskService) Stats() models.TaskStats {
	return s.repo.Stats()
}

// Export produces the portable snapshot of every current record.
func (s *taskService) Export() models.ExportSnapshot {
	tasks := s.repo.Snapshot()
	return models.ExportSnapshot{
		ExportDate: time.Now(),
		Version:    exportVersion,
		TaskCount:  len(tasks),
		Tasks:      tasks,
	}
}

// Import is best-effort: items without a task name are skipped and counted,
// every other field defaults exactly as normalization defaults it. With
// replace set the repository is cleared and the id counter reset first.
func (s *taskService) Import(items []models.ImportTask, replace bool) models.ImportResult {
	if replace {
		s.repo.Reset()
	}

	res := models.ImportResult{}
	for _, item := range items {
		name := strings.TrimSpace(item.TaskName)
		if name == "" {
			res.SkippedCount++
			continue
		}

		source := models.TaskSource(item.Source)
		if !models.ValidSource(source) {
			source = models.SourceSingle
		}
		t := models.Task{
			TaskName:      name,
			Priority:      normalizePriority(item.Priority),
			Completed:     item.Completed,
			OriginalInput: item.OriginalInput,
			Source:        source,
			Tags:          item.Tags,
			Notes:         item.Notes,
		}
		if item.Assignee != nil && strings.TrimSpace(*item.Assignee) != "" {
			a := strings.TrimSpace(*item.Assignee)
			t.Assignee = &a
		}
		if item.DueDate != nil && *item.DueDate != "" {
			if _, err := time.Parse("2006-01-02", *item.DueDate); err == nil {
				d := *item.DueDate
				t.DueDate = &d
			}
		}
		if item.DueTime != nil && *item.DueTime != "" {
			if _, err := time.Parse("15:04", *item.DueTime); err == nil {
				tm := *item.DueTime
				t.DueTime = &tm
			}
		}

		s.repo.Restore(t)
		res.ImportedCount++
	}
	res.TotalTasks = len(s.repo.Snapshot())
	return res
}
