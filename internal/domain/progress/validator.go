// Package progress holds the pure ledger algorithms: range validation,
// per-section aggregation, and group ranking. Nothing in this package
// performs I/O; every function is a deterministic function of its inputs.
package progress

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/maktab/hifdh-api/internal/domain"
)

// Validation outcome errors
var (
	// ErrRangeInvalid is returned when a candidate range is inverted or
	// falls outside [1, section.VerseCount].
	ErrRangeInvalid = errors.New("verse range is invalid")

	// ErrRangeOverlap is returned when a candidate range intersects a
	// portion already recorded for the same student and section.
	ErrRangeOverlap = errors.New("verse range overlaps a recorded portion")
)

// OverlapError wraps ErrRangeOverlap with the conflicting portion so callers
// can report which existing range caused the rejection.
type OverlapError struct {
	StartVerse    int
	EndVerse      int
	ConflictID    uuid.UUID
	ConflictStart int
	ConflictEnd   int
}

// Error implements the error interface for OverlapError.
func (e *OverlapError) Error() string {
	return fmt.Sprintf("verses %d-%d overlap recorded portion %d-%d",
		e.StartVerse, e.EndVerse, e.ConflictStart, e.ConflictEnd)
}

// Unwrap returns ErrRangeOverlap to support errors.Is.
func (e *OverlapError) Unwrap() error {
	return ErrRangeOverlap
}

// ValidateRange decides whether [startVerse, endVerse] may be recorded for
// the given section next to the portions already held for the same student.
//
// Portions belonging to other sections are ignored, as is the portion whose
// ID equals ignoreID (used when re-validating an edit against the entry's
// own previous range). Intervals are closed on both ends: an existing
// portion [1,5] rejects a candidate [5,10], because verse 5 would be
// recorded twice, while [6,10] is accepted.
//
// Returns nil when the range is admissible, ErrRangeInvalid for a malformed
// or out-of-bounds range, or an *OverlapError (wrapping ErrRangeOverlap)
// naming the first conflicting portion.
func ValidateRange(
	section domain.Section,
	existing []*domain.Portion,
	startVerse, endVerse int,
	ignoreID uuid.UUID,
) error {
	if startVerse > endVerse {
		return fmt.Errorf("%w: start verse %d after end verse %d",
			ErrRangeInvalid, startVerse, endVerse)
	}
	if startVerse < 1 || endVerse > section.VerseCount {
		return fmt.Errorf("%w: verses %d-%d outside 1-%d",
			ErrRangeInvalid, startVerse, endVerse, section.VerseCount)
	}

	for _, portion := range existing {
		if portion.SectionID != section.ID {
			continue
		}
		if ignoreID != uuid.Nil && portion.ID == ignoreID {
			continue
		}
		if portion.Overlaps(startVerse, endVerse) {
			return &OverlapError{
				StartVerse:    startVerse,
				EndVerse:      endVerse,
				ConflictID:    portion.ID,
				ConflictStart: portion.StartVerse,
				ConflictEnd:   portion.EndVerse,
			}
		}
	}

	return nil
}
