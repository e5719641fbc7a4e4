// Package catalog provides the section catalog: the fixed, ordered list of
// sections (surahs) the ledger records progress against. The catalog is
// loaded once at startup and treated as read-only for the process lifetime.
package catalog

import (
	"errors"
	"fmt"

	"github.com/maktab/hifdh-api/internal/domain"
)

// ErrSectionNotFound is returned when a section ID is not in the catalog.
var ErrSectionNotFound = errors.New("section not found in catalog")

// Provider exposes the catalog to the rest of the application.
type Provider interface {
	// ListSections returns every section in canonical order.
	// The returned slice must not be mutated by callers.
	ListSections() []domain.Section

	// SectionByID looks up a single section.
	// Returns ErrSectionNotFound if the ID is unknown.
	SectionByID(id int) (domain.Section, error)

	// TotalVerses is the verse count summed over the whole catalog.
	TotalVerses() int
}

// Static is an in-memory Provider backed by a fixed section list.
type Static struct {
	sections []domain.Section
	byID     map[int]domain.Section
	total    int
}

// NewStatic builds a Static provider from the given sections.
// Returns an error if any section is invalid or an ID repeats.
func NewStatic(sections []domain.Section) (*Static, error) {
	byID := make(map[int]domain.Section, len(sections))
	total := 0
	for _, section := range sections {
		if err := section.Validate(); err != nil {
			return nil, fmt.Errorf("invalid section %d: %w", section.ID, err)
		}
		if _, dup := byID[section.ID]; dup {
			return nil, fmt.Errorf("duplicate section ID %d", section.ID)
		}
		byID[section.ID] = section
		total += section.VerseCount
	}

	out := make([]domain.Section, len(sections))
	copy(out, sections)

	return &Static{sections: out, byID: byID, total: total}, nil
}

// NewQuran builds the default catalog of the 114 surahs.
func NewQuran() *Static {
	static, err := NewStatic(quranSections())
	if err != nil {
		// The built-in data is fixed at compile time; failing to load it is
		// a programming error, not a runtime condition.
		// ALLOW-PANIC: Invalid built-in catalog data
		panic(fmt.Sprintf("built-in catalog invalid: %v", err))
	}
	return static
}

// ListSections implements Provider.ListSections.
func (s *Static) ListSections() []domain.Section {
	return s.sections
}

// SectionByID implements Provider.SectionByID.
func (s *Static) SectionByID(id int) (domain.Section, error) {
	section, ok := s.byID[id]
	if !ok {
		return domain.Section{}, fmt.Errorf("%w: id %d", ErrSectionNotFound, id)
	}
	return section, nil
}

// TotalVerses implements Provider.TotalVerses.
func (s *Static) TotalVerses() int {
	return s.total
}
