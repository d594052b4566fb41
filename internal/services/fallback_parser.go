// internal/services/fallback_parser.go
package services

import (
	"regexp"
	"strings"

	"tasklens/internal/models"
)

// Rule-based extraction used when the model returns unusable output.
// Deterministic by construction: no dates, no times, no network.
var (
	fallbackNameRe     = regexp.MustCompile(`(?i)^(.+?)(?:\s+(?:by|for|with|to)\s+|$)`)
	fallbackAssigneeRe = regexp.MustCompile(`(?i)(?:for|with|to|assign(?:ed)?\s*(?:to)?)\s+([A-Za-z]+)`)
	fallbackPriorityRe = regexp.MustCompile(`(?i)\b(P[1-4]|priority\s*[1-4])\b`)

	// <Name> you|should|need to|please|take|handle|do|complete <rest>
	transcriptSpanRe = regexp.MustCompile(`([A-Z][a-z]+)[,:]?\s+(?:you|should|need to|please|take|handle|do|complete)\s+([^.\n!?]+)`)
)

// PlaceholderTaskName is the synthetic item returned when a transcript
// yields zero assignable spans, so transcript submission never comes back
// empty silently. Callers treat it as a signal of total extraction failure.
const PlaceholderTaskName = "Review meeting transcript"

// FallbackSingle parses one task from free text. Task name runs up to the
// first preposition marker; assignee is the word after for/with/to/assigned;
// priority is the first P1-P4 token. Dates are never attempted here.
func FallbackSingle(text string) models.RawFields {
	raw := models.RawFields{TaskName: strings.TrimSpace(text)}

	if m := fallbackNameRe.FindStringSubmatch(text); m != nil {
		raw.TaskName = strings.TrimSpace(m[1])
	}
	if m := fallbackAssigneeRe.FindStringSubmatch(text); m != nil {
		raw.Assignee = m[1]
	}
	if m := fallbackPriorityRe.FindStringSubmatch(text); m != nil {
		p := strings.ToUpper(m[1])
		if len(p) > 2 {
			// spelled-out form, "priority 2"
			p = "P" + p[len(p)-1:]
		}
		raw.Priority = p
	}
	return raw
}

// FallbackMany scans a transcript for "<Name> please/should/take ..." spans,
// one candidate per match. Zero matches yields the single placeholder item.
func FallbackMany(transcript string) []models.RawFields {
	matches := transcriptSpanRe.FindAllStringSubmatch(transcript, -1)
	if len(matches) == 0 {
		return []models.RawFields{{TaskName: PlaceholderTaskName}}
	}

	out := make([]models.RawFields, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(strings.TrimSpace(m[2]), ".")
		if name == "" {
			continue
		}
		out = append(out, models.RawFields{
			TaskName: name,
			Assignee: m[1],
		})
	}
	if len(out) == 0 {
		return []models.RawFields{{TaskName: PlaceholderTaskName}}
	}
	return out
}
