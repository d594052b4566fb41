package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklens/internal/models"
	"tasklens/internal/repositories"
)

func seedTask(t *testing.T, svc TaskService, name, assignee string, priority models.TaskPriority, source models.TaskSource) *models.Task {
	t.Helper()
	bundle := models.FieldBundle{TaskName: name, Priority: priority}
	if assignee != "" {
		bundle.Assignee = &assignee
	}
	return svc.CreateFromBundle(bundle, source, name)
}

func TestTaskService_BulkAction(t *testing.T) {
	t.Run("Should reject an unknown action before touching the store", func(t *testing.T) {
		svc := NewTaskService(repositories.NewTaskRepository())
		created := seedTask(t, svc, "a", "", models.PriorityP3, models.SourceSingle)

		_, err := svc.BulkAction([]int64{created.ID}, "archive", "")
		assert.ErrorIs(t, err, models.ErrValidation)

		got, err := svc.GetByID(created.ID)
		require.NoError(t, err)
		assert.False(t, got.Completed)
	})

	t.Run("Should reject update_priority with a bad priority", func(t *testing.T) {
		svc := NewTaskService(repositories.NewTaskRepository())
		created := seedTask(t, svc, "a", "", models.PriorityP3, models.SourceSingle)

		_, err := svc.BulkAction([]int64{created.ID}, models.BulkUpdatePriority, "P9")
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("Should apply a valid action", func(t *testing.T) {
		svc := NewTaskService(repositories.NewTaskRepository())
		created := seedTask(t, svc, "a", "", models.PriorityP3, models.SourceSingle)

		res, err := svc.BulkAction([]int64{created.ID, 99}, models.BulkComplete, "")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Affected)
		assert.Equal(t, []int64{99}, res.NotFound)
	})
}

func TestTaskService_Export(t *testing.T) {
	svc := NewTaskService(repositories.NewTaskRepository())
	seedTask(t, svc, "a", "Aman", models.PriorityP1, models.SourceSingle)
	seedTask(t, svc, "b", "", models.PriorityP3, models.SourceMeeting)

	snap := svc.Export()
	assert.Equal(t, "1.0", snap.Version)
	assert.Equal(t, 2, snap.TaskCount)
	assert.Len(t, snap.Tasks, 2)
	assert.False(t, snap.ExportDate.IsZero())
}

func TestTaskService_Import(t *testing.T) {
	t.Run("Should survive an export/import round trip", func(t *testing.T) {
		src := NewTaskService(repositories.NewTaskRepository())
		seedTask(t, src, "landing page", "Aman", models.PriorityP1, models.SourceMeeting)
		seedTask(t, src, "quarterly report", "", models.PriorityP3, models.SourceSingle)
		snap := src.Export()

		items := make([]models.ImportTask, 0, len(snap.Tasks))
		for _, task := range snap.Tasks {
			items = append(items, models.ImportTask{
				TaskName:      task.TaskName,
				Assignee:      task.Assignee,
				DueDate:       task.DueDate,
				DueTime:       task.DueTime,
				Priority:      string(task.Priority),
				Completed:     task.Completed,
				OriginalInput: task.OriginalInput,
				Source:        string(task.Source),
				Tags:          task.Tags,
				Notes:         task.Notes,
			})
		}

		dst := NewTaskService(repositories.NewTaskRepository())
		res := dst.Import(items, true)
		assert.Equal(t, 2, res.ImportedCount)
		assert.Equal(t, 0, res.SkippedCount)
		assert.Equal(t, 2, res.TotalTasks)

		restored := dst.Export().Tasks
		require.Len(t, restored, 2)

		type tuple struct {
			name, assignee string
			priority       models.TaskPriority
			source         models.TaskSource
		}
		key := func(task models.Task) tuple {
			tp := tuple{name: task.TaskName, priority: task.Priority, source: task.Source}
			if task.Assignee != nil {
				tp.assignee = *task.Assignee
			}
			return tp
		}
		want := map[tuple]bool{}
		for _, task := range snap.Tasks {
			want[key(task)] = true
		}
		for _, task := range restored {
			assert.True(t, want[key(task)], "unexpected task %+v", task)
		}
	})

	t.Run("Should skip items without a task name", func(t *testing.T) {
		svc := NewTaskService(repositories.NewTaskRepository())

		res := svc.Import([]models.ImportTask{
			{TaskName: "keep me"},
			{TaskName: "   "},
			{TaskName: ""},
		}, false)

		assert.Equal(t, 1, res.ImportedCount)
		assert.Equal(t, 2, res.SkippedCount)
		assert.Equal(t, 1, res.TotalTasks)
	})

	t.Run("Should default priority and source on bad values", func(t *testing.T) {
		svc := NewTaskService(repositories.NewTaskRepository())

		res := svc.Import([]models.ImportTask{
			{TaskName: "odd item", Priority: "urgent", Source: "email"},
		}, false)
		require.Equal(t, 1, res.ImportedCount)

		tasks := svc.Export().Tasks
		require.Len(t, tasks, 1)
		assert.Equal(t, models.PriorityP3, tasks[0].Priority)
		assert.Equal(t, models.SourceSingle, tasks[0].Source)
	})

	t.Run("Should drop malformed dates and times", func(t *testing.T) {
		svc := NewTaskService(repositories.NewTaskRepository())

		badDate := "20th June"
		badTime := "11pm"
		goodDate := "2030-06-20"
		res := svc.Import([]models.ImportTask{
			{TaskName: "odd dates", DueDate: &badDate, DueTime: &badTime},
			{TaskName: "good date", DueDate: &goodDate},
		}, false)
		require.Equal(t, 2, res.ImportedCount)

		tasks := svc.Export().Tasks
		require.Len(t, tasks, 2)
		byName := map[string]models.Task{}
		for _, task := range tasks {
			byName[task.TaskName] = task
		}
		assert.Nil(t, byName["odd dates"].DueDate)
		assert.Nil(t, byName["odd dates"].DueTime)
		require.NotNil(t, byName["good date"].DueDate)
		assert.Equal(t, goodDate, *byName["good date"].DueDate)
	})

	t.Run("Should reset ids when replace is set", func(t *testing.T) {
		svc := NewTaskService(repositories.NewTaskRepository())
		seedTask(t, svc, "old one", "", models.PriorityP3, models.SourceSingle)
		seedTask(t, svc, "old two", "", models.PriorityP3, models.SourceSingle)

		res := svc.Import([]models.ImportTask{{TaskName: "fresh"}}, true)
		assert.Equal(t, 1, res.TotalTasks)

		tasks := svc.Export().Tasks
		require.Len(t, tasks, 1)
		assert.Equal(t, int64(1), tasks[0].ID)
		assert.Equal(t, "fresh", tasks[0].TaskName)
	})

	t.Run("Should append without replace", func(t *testing.T) {
		svc := NewTaskService(repositories.NewTaskRepository())
		seedTask(t, svc, "existing", "", models.PriorityP3, models.SourceSingle)

		res := svc.Import([]models.ImportTask{{TaskName: "added"}}, false)
		assert.Equal(t, 2, res.TotalTasks)
	})
}
