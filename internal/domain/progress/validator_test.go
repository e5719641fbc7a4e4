package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maktab/hifdh-api/internal/domain"
)

func mustPortion(t *testing.T, studentID uuid.UUID, sectionID, start, end int) *domain.Portion {
	t.Helper()
	portion, err := domain.NewPortion(studentID, sectionID, start, end, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to create portion: %v", err)
	}
	return portion
}

func TestValidateRange(t *testing.T) {
	t.Parallel()

	studentID := uuid.New()
	section := domain.Section{ID: 1, Name: "S1", Order: 1, VerseCount: 7}
	otherSection := domain.Section{ID: 2, Name: "S2", Order: 2, VerseCount: 10}

	existing := []*domain.Portion{
		mustPortion(t, studentID, section.ID, 1, 3),
		// Same verses in another section must never conflict.
		mustPortion(t, studentID, otherSection.ID, 1, 10),
	}

	testCases := []struct {
		name    string
		start   int
		end     int
		wantErr error
	}{
		{
			name:    "disjoint range after existing is accepted",
			start:   4,
			end:     7,
			wantErr: nil,
		},
		{
			name:    "touching at shared verse counts as overlap",
			start:   3,
			end:     5,
			wantErr: ErrRangeOverlap,
		},
		{
			name:    "range contained in existing is overlap",
			start:   2,
			end:     2,
			wantErr: ErrRangeOverlap,
		},
		{
			name:    "range spanning existing is overlap",
			start:   1,
			end:     7,
			wantErr: ErrRangeOverlap,
		},
		{
			name:    "inverted range is invalid",
			start:   5,
			end:     4,
			wantErr: ErrRangeInvalid,
		},
		{
			name:    "start verse below one is invalid",
			start:   0,
			end:     2,
			wantErr: ErrRangeInvalid,
		},
		{
			name:    "end verse past section verse count is invalid",
			start:   6,
			end:     8,
			wantErr: ErrRangeInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRange(section, existing, tc.start, tc.end, uuid.Nil)

			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected range to be accepted, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateRangeIgnoresOwnEntryOnEdit(t *testing.T) {
	t.Parallel()

	studentID := uuid.New()
	section := domain.Section{ID: 1, Name: "S1", Order: 1, VerseCount: 7}
	edited := mustPortion(t, studentID, section.ID, 1, 3)
	other := mustPortion(t, studentID, section.ID, 6, 7)
	existing := []*domain.Portion{edited, other}

	// Growing the edited entry over its own old range is fine.
	if err := ValidateRange(section, existing, 1, 5, edited.ID); err != nil {
		t.Fatalf("expected edit over own range to be accepted, got %v", err)
	}

	// But the other entry still blocks it.
	err := ValidateRange(section, existing, 2, 6, edited.ID)
	if !errors.Is(err, ErrRangeOverlap) {
		t.Fatalf("expected ErrRangeOverlap against sibling entry, got %v", err)
	}
}

func TestValidateRangeReportsConflictingPortion(t *testing.T) {
	t.Parallel()

	studentID := uuid.New()
	section := domain.Section{ID: 1, Name: "S1", Order: 1, VerseCount: 7}
	existing := []*domain.Portion{mustPortion(t, studentID, section.ID, 1, 5)}

	err := ValidateRange(section, existing, 5, 7, uuid.Nil)

	var overlap *OverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("expected *OverlapError, got %v", err)
	}
	if overlap.ConflictStart != 1 || overlap.ConflictEnd != 5 {
		t.Errorf("expected conflict 1-5, got %d-%d", overlap.ConflictStart, overlap.ConflictEnd)
	}
	if overlap.ConflictID != existing[0].ID {
		t.Errorf("expected conflict ID %s, got %s", existing[0].ID, overlap.ConflictID)
	}
}
