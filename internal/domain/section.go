package domain

import "fmt"

// Section-specific validation errors, all wrapping ErrValidation.
var (
	// ErrSectionIDInvalid is returned when a section ID is not positive.
	ErrSectionIDInvalid = fmt.Errorf("%w: section ID must be positive", ErrValidation)

	// ErrSectionNameEmpty is returned when a section's name is empty.
	ErrSectionNameEmpty = fmt.Errorf("%w: section name cannot be empty", ErrValidation)

	// ErrSectionVerseCountInvalid is returned when a section's verse count is not positive.
	ErrSectionVerseCountInvalid = fmt.Errorf("%w: section verse count must be positive", ErrValidation)
)

// Section is one named subdivision of the memorized text (a surah) with a
// fixed verse count. Sections are reference data: the full ordered set is
// loaded once from the catalog and never changes at runtime.
type Section struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Order      int    `json:"order"`
	VerseCount int    `json:"verse_count"`
}

// Validate checks if the Section has valid data.
func (s Section) Validate() error {
	if s.ID <= 0 {
		return ErrSectionIDInvalid
	}
	if s.Name == "" {
		return ErrSectionNameEmpty
	}
	if s.VerseCount <= 0 {
		return ErrSectionVerseCountInvalid
	}
	return nil
}
