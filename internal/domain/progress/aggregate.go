package progress

import "github.com/maktab/hifdh-api/internal/domain"

// State describes how far a student has come in one section.
type State string

// Section completion states. The string values are part of the API surface.
const (
	StateNotStarted State = "not-started"
	StateInProgress State = "in-progress"
	StateCompleted  State = "completed"
)

// SectionStatus is the aggregated coverage of one section for one student.
type SectionStatus struct {
	SectionID     int   `json:"section_id"`
	CoveredVerses int   `json:"covered_verses"`
	TotalVerses   int   `json:"total_verses"`
	State         State `json:"state"`
}

// Aggregate computes a SectionStatus for every catalog section from the
// student's recorded portions. Sections with no portions appear in the
// output with zero coverage and StateNotStarted.
//
// Summing VersesMemorized per section is safe because the range validator
// guarantees the portions of a section are pairwise disjoint, so the sum
// equals the true coverage.
func Aggregate(portions []*domain.Portion, catalog []domain.Section) map[int]SectionStatus {
	covered := make(map[int]int)
	for _, portion := range portions {
		covered[portion.SectionID] += portion.VersesMemorized
	}

	statuses := make(map[int]SectionStatus, len(catalog))
	for _, section := range catalog {
		c := covered[section.ID]
		state := StateNotStarted
		if c > 0 {
			if c >= section.VerseCount {
				state = StateCompleted
			} else {
				state = StateInProgress
			}
		}
		statuses[section.ID] = SectionStatus{
			SectionID:     section.ID,
			CoveredVerses: c,
			TotalVerses:   section.VerseCount,
			State:         state,
		}
	}

	return statuses
}

// SectionStatusFor aggregates a single section. It is the per-section view
// returned from mutating ledger operations so callers can refresh their
// state without re-fetching everything.
func SectionStatusFor(portions []*domain.Portion, section domain.Section) SectionStatus {
	return Aggregate(portions, []domain.Section{section})[section.ID]
}

// TotalCovered sums the verses memorized across all of a student's portions.
func TotalCovered(portions []*domain.Portion) int {
	total := 0
	for _, portion := range portions {
		total += portion.VersesMemorized
	}
	return total
}
