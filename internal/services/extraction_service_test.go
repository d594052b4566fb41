package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklens/internal/models"
)

type fakeLLM struct {
	out   string
	err   error
	calls int
}

func (f *fakeLLM) Complete(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.out, f.err
}

func TestExtractOne(t *testing.T) {
	ctx := context.Background()

	t.Run("Should normalize a valid model response", func(t *testing.T) {
		svc := NewExtractionService(&fakeLLM{
			out: `{"task_name":"Call client","assignee":"Rajeev","due_date":"2024-05-30","due_time":"17:00","priority":"P3"}`,
		})

		bundle, err := svc.ExtractOne(ctx, "Call client Rajeev tomorrow 5pm")
		require.NoError(t, err)
		assert.Equal(t, "Call client", bundle.TaskName)
		require.NotNil(t, bundle.Assignee)
		assert.Equal(t, "Rajeev", *bundle.Assignee)
		require.NotNil(t, bundle.DueDate)
		assert.Equal(t, "2024-05-30", *bundle.DueDate)
	})

	t.Run("Should default priority when the model omits it", func(t *testing.T) {
		svc := NewExtractionService(&fakeLLM{out: `{"task_name":"Submit report"}`})

		bundle, err := svc.ExtractOne(ctx, "Submit report by end of week")
		require.NoError(t, err)
		assert.Equal(t, models.PriorityP3, bundle.Priority)
	})

	t.Run("Should accept fenced JSON", func(t *testing.T) {
		svc := NewExtractionService(&fakeLLM{out: "```json\n{\"task_name\":\"x\"}\n```"})

		bundle, err := svc.ExtractOne(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, "x", bundle.TaskName)
	})

	t.Run("Should match the fallback parser exactly on malformed output", func(t *testing.T) {
		text := "Finish landing page for Aman P1"
		svc := NewExtractionService(&fakeLLM{out: "I could not parse that, sorry!"})

		got, err := svc.ExtractOne(ctx, text)
		require.NoError(t, err)

		want, err := NormalizeFields(FallbackSingle(text))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Should fall back when the model omits the task name", func(t *testing.T) {
		svc := NewExtractionService(&fakeLLM{out: `{"assignee":"Aman"}`})

		bundle, err := svc.ExtractOne(ctx, "Review proposal")
		require.NoError(t, err)
		assert.Equal(t, "Review proposal", bundle.TaskName)
	})

	t.Run("Should propagate model outage without falling back", func(t *testing.T) {
		fake := &fakeLLM{err: models.ErrModelUnavailable}
		svc := NewExtractionService(fake)

		_, err := svc.ExtractOne(ctx, "anything")
		assert.ErrorIs(t, err, models.ErrExtractionFailed)
		assert.ErrorIs(t, err, models.ErrModelUnavailable)
		assert.Equal(t, 1, fake.calls)
	})
}

func TestExtractMany(t *testing.T) {
	ctx := context.Background()

	t.Run("Should normalize every assigned item", func(t *testing.T) {
		svc := NewExtractionService(&fakeLLM{
			out: `[{"task_name":"Landing page","assignee":"Aman","priority":"P2"},` +
				`{"task_name":"Client follow-up","assignee":"Rajeev"}]`,
		})

		res, err := svc.ExtractMany(ctx, "some transcript")
		require.NoError(t, err)
		require.Len(t, res.Bundles, 2)
		assert.False(t, res.Placeholder)
		assert.Equal(t, models.PriorityP2, res.Bundles[0].Priority)
	})

	t.Run("Should drop items without an assignee", func(t *testing.T) {
		svc := NewExtractionService(&fakeLLM{
			out: `[{"task_name":"Landing page","assignee":"Aman"},{"task_name":"Orphan item"}]`,
		})

		res, err := svc.ExtractMany(ctx, "some transcript")
		require.NoError(t, err)
		require.Len(t, res.Bundles, 1)
		assert.Equal(t, "Landing page", res.Bundles[0].TaskName)
	})

	t.Run("Should report NoTasksFound for a valid empty extraction", func(t *testing.T) {
		svc := NewExtractionService(&fakeLLM{out: `[]`})

		_, err := svc.ExtractMany(ctx, "nothing actionable here")
		assert.ErrorIs(t, err, models.ErrNoTasksFound)
	})

	t.Run("Should fall back to the rule scan on malformed output", func(t *testing.T) {
		svc := NewExtractionService(&fakeLLM{out: "definitely not json"})

		res, err := svc.ExtractMany(ctx, "Aman you take the landing page. Shreya please review the deck.")
		require.NoError(t, err)
		require.Len(t, res.Bundles, 2)
		assert.False(t, res.Placeholder)
		require.NotNil(t, res.Bundles[0].Assignee)
		assert.Equal(t, "Aman", *res.Bundles[0].Assignee)
	})

	t.Run("Should return exactly the placeholder when both paths find nothing", func(t *testing.T) {
		svc := NewExtractionService(&fakeLLM{out: "definitely not json"})

		res, err := svc.ExtractMany(ctx, "the weather was discussed at length")
		require.NoError(t, err)
		require.Len(t, res.Bundles, 1)
		assert.True(t, res.Placeholder)
		assert.Equal(t, PlaceholderTaskName, res.Bundles[0].TaskName)
		assert.Nil(t, res.Bundles[0].Assignee)
	})

	t.Run("Should propagate model outage without falling back", func(t *testing.T) {
		fake := &fakeLLM{err: models.ErrModelUnavailable}
		svc := NewExtractionService(fake)

		_, err := svc.ExtractMany(ctx, "anything")
		assert.ErrorIs(t, err, models.ErrExtractionFailed)
		assert.ErrorIs(t, err, models.ErrModelUnavailable)
	})
}
