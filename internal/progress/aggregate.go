package progress

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	util "github.com/upscpath/tracker-lambda/internal/utils"
)

// SubjectTotals is the recomputed rollup for one (user, subject) pair.
// Both counts come from full re-counts against the live tables, never
// from incrementing the previous row: each writer recomputes from the
// whole current state, so concurrent section completions converge on
// the correct values regardless of interleaving order.
type SubjectTotals struct {
	TotalSections     int
	CompletedSections int
}

func (t SubjectTotals) Validate() error {
	if t.TotalSections < 0 || t.CompletedSections < 0 {
		return fmt.Errorf("negative counts: total=%d completed=%d", t.TotalSections, t.CompletedSections)
	}
	if t.CompletedSections > t.TotalSections {
		return fmt.Errorf("completed_sections %d exceeds total_sections %d", t.CompletedSections, t.TotalSections)
	}
	return nil
}

// subjectCounter is the counting surface the rollup reads from. The
// gorm transaction satisfies it in production; tests drive it with
// in-memory maps.
type subjectCounter interface {
	CountSections(subjectID uuid.UUID) (int, error)
	CountCompletedSections(userID, subjectID uuid.UUID) (int, error)
}

// computeSubjectTotals is the recompute itself, independent of what
// triggered it or where the counts come from.
func computeSubjectTotals(c subjectCounter, userID, subjectID uuid.UUID) (SubjectTotals, error) {
	total, err := c.CountSections(subjectID)
	if err != nil {
		return SubjectTotals{}, fmt.Errorf("count sections under subject %s: %w", subjectID, err)
	}

	completed, err := c.CountCompletedSections(userID, subjectID)
	if err != nil {
		return SubjectTotals{}, fmt.Errorf("count completed sections under subject %s: %w", subjectID, err)
	}

	totals := SubjectTotals{
		TotalSections:     total,
		CompletedSections: completed,
	}
	if err := totals.Validate(); err != nil {
		return SubjectTotals{}, err
	}
	return totals, nil
}

// mergeSectionProgress applies an incoming update onto the existing row
// and returns the row to persist. A true completion flag is sticky: a
// later attempt with a lower score never flips it back. scoreSet tells
// the merge whether the update carried a score at all; an update that
// omitted it keeps the stored one.
func mergeSectionProgress(existing *SectionProgress, incoming *SectionProgress, scoreSet bool, now time.Time) *SectionProgress {
	if existing == nil {
		merged := *incoming
		merged.Attempts = 1
		if merged.Completed {
			merged.CompletedAt = &util.LocalDateTime{Time: now}
		}
		return &merged
	}

	merged := *existing
	if scoreSet {
		merged.Score = incoming.Score
	}
	merged.Attempts = existing.Attempts + 1
	if len(incoming.LastAnswers) > 0 {
		merged.LastAnswers = incoming.LastAnswers
	}

	if incoming.Completed && !existing.Completed {
		merged.Completed = true
		merged.CompletedAt = &util.LocalDateTime{Time: now}
	}
	return &merged
}
