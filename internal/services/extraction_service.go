// internal/services/extraction_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tasklens/internal/llm"
	"tasklens/internal/models"
)

const singleInstructions = `You are a task parser that extracts structured information from natural language task descriptions.

Extract the following fields:
- task_name: The main action or task to be performed
- assignee: Person assigned to the task (if mentioned, otherwise null)
- due_date: Date in YYYY-MM-DD format (if mentioned, otherwise null)
- due_time: Time in HH:MM format using 24-hour notation (if mentioned, otherwise null)
- priority: P1 (urgent), P2 (high), P3 (normal), or P4 (low) - default to P3 if not specified

Today is %s. Handle relative dates against that date:
- "tomorrow" = the next day
- "today" or "tonight" = today ("tonight" implies 18:00 when no time is given)
- "next week" = 7 to 14 days from today
- "Monday", "Tuesday", etc. = the next future occurrence of that weekday
- "end of week" = the upcoming Friday

Examples:
Input: "Finish landing page Aman by 11pm 20th June"
Output: {"task_name": "Finish landing page", "assignee": "Aman", "due_date": "2024-06-20", "due_time": "23:00", "priority": "P3"}

Input: "High priority P1 meeting with John next Monday 2pm"
Output: {"task_name": "Meeting", "assignee": "John", "due_date": "2024-06-03", "due_time": "14:00", "priority": "P1"}

Return ONLY a valid JSON object. No additional text or formatting.`

const meetingInstructions = `You are a task parser that extracts every action item from a meeting transcript.

Return a JSON array of objects, one per task, each with the fields:
- task_name: The action to be performed
- assignee: The person the task was assigned to (required; omit items with no identifiable assignee)
- due_date: Date in YYYY-MM-DD format (if mentioned, otherwise null)
- due_time: Time in HH:MM format using 24-hour notation (if mentioned, otherwise null)
- priority: P1, P2, P3 or P4 - default to P3 if not specified

Today is %s. Handle relative dates against that date:
- "tomorrow" = the next day
- "today" or "tonight" = today ("tonight" implies 18:00 when no time is given)
- "next week" = 7 to 14 days from today
- "Monday", "Tuesday", etc. = the next future occurrence of that weekday
- "end of week" = the upcoming Friday

Return ONLY a valid JSON array. No additional text or formatting. Return [] if the transcript contains no action items.`

// ExtractManyResult is the transcript extraction outcome. Placeholder is set
// when neither the model nor the rule scan found an assignable span and the
// single synthetic item was produced instead; callers should surface that as
// a failed extraction, not a real task.
type ExtractManyResult struct {
	Bundles     []models.FieldBundle
	Placeholder bool
}

// ExtractionService turns free text into normalized field bundles, using
// the model path first and the rule-based fallback when the model output is
// unparsable. Callers never learn which path ran.
type ExtractionService interface {
	ExtractOne(ctx context.Context, text string) (models.FieldBundle, error)
	ExtractMany(ctx context.Context, transcript string) (ExtractManyResult, error)
}

type extractionService struct {
	client llm.Client
	now    func() time.Time
}

// NewExtractionService creates the extraction engine on top of a completion
// client.
func NewExtractionService(client llm.Client) ExtractionService {
	return &extractionService{client: client, now: time.Now}
}

func (s *extractionService) ExtractOne(ctx context.Context, text string) (models.FieldBundle, error) {
	raw, err := s.modelSingle(ctx, text)
	if err != nil {
		if !errors.Is(err, models.ErrUnparsableOutput) {
			return models.FieldBundle{}, fmt.Errorf("%w: %w", models.ErrExtractionFailed, err)
		}
		log.Printf("[extract][one][fallback] %v", err)
		raw = FallbackSingle(text)
	}

	bundle, err := NormalizeFields(raw)
	if err != nil {
		return models.FieldBundle{}, fmt.Errorf("%w: %w", models.ErrExtractionFailed, err)
	}
	return bundle, nil
}

func (s *extractionService) ExtractMany(ctx context.Context, transcript string) (ExtractManyResult, error) {
	raws, err := s.modelMany(ctx, transcript)
	if err != nil {
		if !errors.Is(err, models.ErrUnparsableOutput) {
			return ExtractManyResult{}, fmt.Errorf("%w: %w", models.ErrExtractionFailed, err)
		}
		log.Printf("[extract][many][fallback] %v", err)
		return s.fallbackMany(transcript), nil
	}

	bundles := normalizeAssigned(raws)
	if len(bundles) == 0 {
		return ExtractManyResult{}, models.ErrNoTasksFound
	}
	return ExtractManyResult{Bundles: bundles}, nil
}

func (s *extractionService) fallbackMany(transcript string) ExtractManyResult {
	raws := FallbackMany(transcript)
	if len(raws) == 1 && raws[0].TaskName == PlaceholderTaskName && raws[0].Assignee == "" {
		return ExtractManyResult{
			Bundles:     []models.FieldBundle{{TaskName: PlaceholderTaskName, Priority: models.DefaultPriority}},
			Placeholder: true,
		}
	}
	bundles := normalizeAssigned(raws)
	if len(bundles) == 0 {
		return ExtractManyResult{
			Bundles:     []models.FieldBundle{{TaskName: PlaceholderTaskName, Priority: models.DefaultPriority}},
			Placeholder: true,
		}
	}
	return ExtractManyResult{Bundles: bundles}
}

// normalizeAssigned applies the transcript rule: an item without an
// identifiable assignee is dropped, not defaulted.
func normalizeAssigned(raws []models.RawFields) []models.FieldBundle {
	bundles := make([]models.FieldBundle, 0, len(raws))
	for _, raw := range raws {
		bundle, err := NormalizeFields(raw)
		if err != nil {
			continue
		}
		if bundle.Assignee == nil {
			continue
		}
		bundles = append(bundles, bundle)
	}
	return bundles
}

func (s *extractionService) modelSingle(ctx context.Context, text string) (models.RawFields, error) {
	instructions := fmt.Sprintf(singleInstructions, s.now().Format("2006-01-02 (Monday)"))
	out, err := s.client.Complete(ctx, instructions, text)
	if err != nil {
		return models.RawFields{}, err
	}

	var raw models.RawFields
	if err := json.Unmarshal([]byte(stripFences(out)), &raw); err != nil {
		return models.RawFields{}, fmt.Errorf("%w: %v", models.ErrUnparsableOutput, err)
	}
	if strings.TrimSpace(raw.TaskName) == "" {
		return models.RawFields{}, fmt.Errorf("%w: missing task_name", models.ErrUnparsableOutput)
	}
	return raw, nil
}

func (s *extractionService) modelMany(ctx context.Context, transcript string) ([]models.RawFields, error) {
	instructions := fmt.Sprintf(meetingInstructions, s.now().Format("2006-01-02 (Monday)"))
	out, err := s.client.Complete(ctx, instructions, transcript)
	if err != nil {
		return nil, err
	}

	var raws []models.RawFields
	if err := json.Unmarshal([]byte(stripFences(out)), &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnparsableOutput, err)
	}
	return raws, nil
}

// stripFences removes a markdown code fence the model sometimes wraps around
// its JSON despite the instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
