package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Portion-specific validation errors, all wrapping ErrValidation.
var (
	// ErrPortionIDEmpty is returned when a portion ID is empty or nil.
	ErrPortionIDEmpty = fmt.Errorf("%w: portion ID cannot be empty", ErrValidation)

	// ErrPortionStudentIDEmpty is returned when a portion's student ID is empty or nil.
	ErrPortionStudentIDEmpty = fmt.Errorf("%w: portion student ID cannot be empty", ErrValidation)

	// ErrPortionSectionIDInvalid is returned when a portion's section reference is not positive.
	ErrPortionSectionIDInvalid = fmt.Errorf("%w: portion section ID must be positive", ErrValidation)

	// ErrPortionRangeInvalid is returned when a portion's verse range is inverted
	// or starts before verse 1.
	ErrPortionRangeInvalid = fmt.Errorf("%w: portion verse range is invalid", ErrValidation)
)

// Portion is one recorded contiguous range of verses a student has memorized
// within one section. VersesMemorized is always the derived span
// EndVerse-StartVerse+1; it is never set independently.
type Portion struct {
	ID              uuid.UUID `json:"id"`
	StudentID       uuid.UUID `json:"student_id"`
	SectionID       int       `json:"section_id"`
	StartVerse      int       `json:"start_verse"`
	EndVerse        int       `json:"end_verse"`
	VersesMemorized int       `json:"verses_memorized"`
	RecordedAt      time.Time `json:"recorded_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewPortion creates a new Portion with a generated ID, a derived
// VersesMemorized, and creation/update timestamps.
// Returns an error if validation fails. Bounds against the section's verse
// count are enforced by the range validator, not here; the entity only
// guarantees a well-formed range.
func NewPortion(studentID uuid.UUID, sectionID, startVerse, endVerse int, recordedAt time.Time) (*Portion, error) {
	now := time.Now().UTC()
	portion := &Portion{
		ID:              uuid.New(),
		StudentID:       studentID,
		SectionID:       sectionID,
		StartVerse:      startVerse,
		EndVerse:        endVerse,
		VersesMemorized: endVerse - startVerse + 1,
		RecordedAt:      recordedAt.UTC(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := portion.Validate(); err != nil {
		return nil, err
	}

	return portion, nil
}

// Validate checks if the Portion has valid data.
func (p *Portion) Validate() error {
	if p.ID == uuid.Nil {
		return ErrPortionIDEmpty
	}
	if p.StudentID == uuid.Nil {
		return ErrPortionStudentIDEmpty
	}
	if p.SectionID <= 0 {
		return ErrPortionSectionIDInvalid
	}
	if p.StartVerse < 1 || p.EndVerse < p.StartVerse {
		return ErrPortionRangeInvalid
	}
	if p.VersesMemorized != p.EndVerse-p.StartVerse+1 {
		return ErrPortionRangeInvalid
	}
	return nil
}

// SetRange updates the portion's verse range, recomputes VersesMemorized,
// and updates the UpdatedAt timestamp. Returns an error if the new range is
// malformed; the original values are kept in that case.
func (p *Portion) SetRange(startVerse, endVerse int) error {
	if startVerse < 1 || endVerse < startVerse {
		return ErrPortionRangeInvalid
	}

	p.StartVerse = startVerse
	p.EndVerse = endVerse
	p.VersesMemorized = endVerse - startVerse + 1
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Overlaps reports whether the portion's closed verse interval intersects
// [startVerse, endVerse]. Touching at a shared verse counts as overlap,
// since a verse cannot be recorded twice.
func (p *Portion) Overlaps(startVerse, endVerse int) bool {
	return startVerse <= p.EndVerse && endVerse >= p.StartVerse
}
