package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackSingle(t *testing.T) {
	t.Run("Should cut the task name at the first preposition marker", func(t *testing.T) {
		raw := FallbackSingle("Finish landing page by Friday")
		assert.Equal(t, "Finish landing page", raw.TaskName)
	})

	t.Run("Should use the whole text when no marker is present", func(t *testing.T) {
		raw := FallbackSingle("  Review the quarterly numbers  ")
		assert.Equal(t, "Review the quarterly numbers", raw.TaskName)
	})

	t.Run("Should pick the assignee after for/with/to", func(t *testing.T) {
		raw := FallbackSingle("Finish landing page for Aman P1")
		assert.Equal(t, "Aman", raw.Assignee)
		assert.Equal(t, "P1", raw.Priority)
	})

	t.Run("Should pick the assignee after assigned to", func(t *testing.T) {
		raw := FallbackSingle("Prepare the deck assigned to Shreya")
		assert.Equal(t, "Shreya", raw.Assignee)
	})

	t.Run("Should normalize the spelled-out priority form", func(t *testing.T) {
		raw := FallbackSingle("Submit report priority 2")
		assert.Equal(t, "P2", raw.Priority)
	})

	t.Run("Should never attempt dates or times", func(t *testing.T) {
		raw := FallbackSingle("Call client tomorrow 5pm")
		assert.Empty(t, raw.DueDate)
		assert.Empty(t, raw.DueTime)
	})
}

func TestFallbackMany(t *testing.T) {
	t.Run("Should produce one candidate per assignment span", func(t *testing.T) {
		transcript := "Aman you take the landing page by 10pm tomorrow. " +
			"Rajeev you handle client follow-up by Wednesday. " +
			"Shreya please review the marketing deck tonight."

		raws := FallbackMany(transcript)
		require.Len(t, raws, 3)

		assert.Equal(t, "Aman", raws[0].Assignee)
		assert.Equal(t, "take the landing page by 10pm tomorrow", raws[0].TaskName)
		assert.Equal(t, "Rajeev", raws[1].Assignee)
		assert.Equal(t, "Shreya", raws[2].Assignee)
		assert.Equal(t, "review the marketing deck tonight", raws[2].TaskName)
	})

	t.Run("Should return the single placeholder when nothing matches", func(t *testing.T) {
		raws := FallbackMany("the weather was discussed at length")
		require.Len(t, raws, 1)
		assert.Equal(t, PlaceholderTaskName, raws[0].TaskName)
		assert.Empty(t, raws[0].Assignee)
	})
}
