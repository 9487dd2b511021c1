package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	util "github.com/upscpath/tracker-lambda/internal/utils"
)

func localTimePtr(t time.Time) *util.LocalDateTime {
	return &util.LocalDateTime{Time: t}
}

func TestMergeSectionProgress(t *testing.T) {
	now := time.Date(2025, 8, 10, 14, 30, 0, 0, time.UTC)
	userID := uuid.New()
	sectionID := uuid.New()

	t.Run("FirstWriteStartsAtOneAttempt", func(t *testing.T) {
		incoming := &SectionProgress{
			UserID:    userID,
			SectionID: sectionID,
			Score:     40,
		}

		merged := mergeSectionProgress(nil, incoming, true, now)

		if merged.Attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", merged.Attempts)
		}
		if merged.Completed {
			t.Error("incomplete first write should not be completed")
		}
		if merged.CompletedAt != nil {
			t.Error("completed_at should be unset for an incomplete row")
		}
	})

	t.Run("FirstCompletedWriteSetsCompletedAt", func(t *testing.T) {
		incoming := &SectionProgress{
			UserID:    userID,
			SectionID: sectionID,
			Completed: true,
			Score:     100,
		}

		merged := mergeSectionProgress(nil, incoming, true, now)

		if !merged.Completed {
			t.Error("expected completed row")
		}
		if merged.CompletedAt == nil || !merged.CompletedAt.Time.Equal(now) {
			t.Errorf("expected completed_at %v, got %v", now, merged.CompletedAt)
		}
	})

	t.Run("CompletionIsSticky", func(t *testing.T) {
		completedAt := now.Add(-24 * time.Hour)
		existing := &SectionProgress{
			UserID:      userID,
			SectionID:   sectionID,
			Completed:   true,
			Score:       100,
			Attempts:    2,
			CompletedAt: localTimePtr(completedAt),
		}
		incoming := &SectionProgress{
			UserID:    userID,
			SectionID: sectionID,
			Completed: false,
			Score:     60,
		}

		merged := mergeSectionProgress(existing, incoming, true, now)

		if !merged.Completed {
			t.Error("a lower-scoring attempt must not clear completion")
		}
		if merged.Score != 60 {
			t.Errorf("score should track the latest attempt, got %d", merged.Score)
		}
		if merged.Attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", merged.Attempts)
		}
		if merged.CompletedAt == nil || !merged.CompletedAt.Time.Equal(completedAt) {
			t.Error("completed_at should keep the original completion time")
		}
	})

	t.Run("LaterCompletionSetsTimestampOnce", func(t *testing.T) {
		existing := &SectionProgress{
			UserID:    userID,
			SectionID: sectionID,
			Score:     60,
			Attempts:  1,
		}
		incoming := &SectionProgress{
			UserID:    userID,
			SectionID: sectionID,
			Completed: true,
			Score:     100,
		}

		merged := mergeSectionProgress(existing, incoming, true, now)

		if !merged.Completed {
			t.Error("expected completed row")
		}
		if merged.CompletedAt == nil || !merged.CompletedAt.Time.Equal(now) {
			t.Errorf("expected completed_at %v, got %v", now, merged.CompletedAt)
		}
	})

	t.Run("OmittedScoreKeepsStoredScore", func(t *testing.T) {
		existing := &SectionProgress{
			UserID:    userID,
			SectionID: sectionID,
			Score:     100,
			Attempts:  1,
		}
		incoming := &SectionProgress{
			UserID:    userID,
			SectionID: sectionID,
			Completed: true,
		}

		merged := mergeSectionProgress(existing, incoming, false, now)

		if merged.Score != 100 {
			t.Errorf("an update without a score must keep the stored one, got %d", merged.Score)
		}
		if !merged.Completed {
			t.Error("expected completed row")
		}
	})

	t.Run("EmptyAnswersDoNotOverwriteStoredOnes", func(t *testing.T) {
		existing := &SectionProgress{
			UserID:      userID,
			SectionID:   sectionID,
			Attempts:    1,
			LastAnswers: datatypes.JSON(`{"a":"B"}`),
		}
		incoming := &SectionProgress{
			UserID:    userID,
			SectionID: sectionID,
			Score:     50,
		}

		merged := mergeSectionProgress(existing, incoming, true, now)

		if string(merged.LastAnswers) != `{"a":"B"}` {
			t.Errorf("expected stored answers to survive, got %s", merged.LastAnswers)
		}
	})
}

type fakeSubjectCounter struct {
	sections  map[uuid.UUID]int
	completed map[string]int
}

func completedKey(userID, subjectID uuid.UUID) string {
	return userID.String() + "/" + subjectID.String()
}

func (c *fakeSubjectCounter) CountSections(subjectID uuid.UUID) (int, error) {
	return c.sections[subjectID], nil
}

func (c *fakeSubjectCounter) CountCompletedSections(userID, subjectID uuid.UUID) (int, error) {
	return c.completed[completedKey(userID, subjectID)], nil
}

func TestComputeSubjectTotals(t *testing.T) {
	userID := uuid.New()
	subjectID := uuid.New()

	t.Run("TotalsMatchStoredCounts", func(t *testing.T) {
		counter := &fakeSubjectCounter{
			sections:  map[uuid.UUID]int{subjectID: 8},
			completed: map[string]int{completedKey(userID, subjectID): 3},
		}

		totals, err := computeSubjectTotals(counter, userID, subjectID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if totals.TotalSections != 8 || totals.CompletedSections != 3 {
			t.Errorf("expected totals 8/3, got %d/%d", totals.TotalSections, totals.CompletedSections)
		}
	})

	t.Run("RepeatedRecomputeIsIdempotent", func(t *testing.T) {
		counter := &fakeSubjectCounter{
			sections:  map[uuid.UUID]int{subjectID: 5},
			completed: map[string]int{completedKey(userID, subjectID): 5},
		}

		first, err := computeSubjectTotals(counter, userID, subjectID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := computeSubjectTotals(counter, userID, subjectID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if first != second {
			t.Errorf("identical state must recompute to identical totals: %+v vs %+v", first, second)
		}
		if second.CompletedSections != 5 {
			t.Errorf("expected 5 completed, got %d", second.CompletedSections)
		}
	})

	t.Run("NewCompletionRaisesCountOnRecompute", func(t *testing.T) {
		counter := &fakeSubjectCounter{
			sections:  map[uuid.UUID]int{subjectID: 6},
			completed: map[string]int{completedKey(userID, subjectID): 2},
		}

		before, err := computeSubjectTotals(counter, userID, subjectID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		counter.completed[completedKey(userID, subjectID)] = 3

		after, err := computeSubjectTotals(counter, userID, subjectID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if after.CompletedSections != before.CompletedSections+1 {
			t.Errorf("expected completed count to rise by one, got %d after %d", after.CompletedSections, before.CompletedSections)
		}
		if after.TotalSections != 6 {
			t.Errorf("total should be untouched by a completion, got %d", after.TotalSections)
		}
	})

	t.Run("InconsistentCountsRejected", func(t *testing.T) {
		counter := &fakeSubjectCounter{
			sections:  map[uuid.UUID]int{subjectID: 2},
			completed: map[string]int{completedKey(userID, subjectID): 3},
		}

		if _, err := computeSubjectTotals(counter, userID, subjectID); err == nil {
			t.Error("expected error when completed exceeds total")
		}
	})

	t.Run("OtherUsersProgressDoesNotLeakIn", func(t *testing.T) {
		otherID := uuid.New()
		counter := &fakeSubjectCounter{
			sections: map[uuid.UUID]int{subjectID: 4},
			completed: map[string]int{
				completedKey(userID, subjectID):  1,
				completedKey(otherID, subjectID): 4,
			},
		}

		totals, err := computeSubjectTotals(counter, userID, subjectID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if totals.CompletedSections != 1 {
			t.Errorf("expected only the caller's completions, got %d", totals.CompletedSections)
		}
	})
}

func TestSubjectTotalsValidate(t *testing.T) {
	cases := []struct {
		name    string
		totals  SubjectTotals
		wantErr bool
	}{
		{"Empty", SubjectTotals{}, false},
		{"PartialProgress", SubjectTotals{TotalSections: 10, CompletedSections: 4}, false},
		{"AllCompleted", SubjectTotals{TotalSections: 5, CompletedSections: 5}, false},
		{"CompletedExceedsTotal", SubjectTotals{TotalSections: 3, CompletedSections: 4}, true},
		{"NegativeTotal", SubjectTotals{TotalSections: -1}, true},
		{"NegativeCompleted", SubjectTotals{CompletedSections: -1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.totals.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected valid totals, got: %v", err)
			}
		})
	}
}
