package progress

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/maktab/hifdh-api/internal/domain"
)

// CohortMember is one student's totals fed into the ranking engine.
// LastPortion, when present, is the student's most recently recorded portion
// and is carried through to the leaderboard unchanged.
type CohortMember struct {
	StudentID    uuid.UUID
	FullName     string
	TotalCovered int
	LastPortion  *domain.Portion
}

// RankedStudent is one leaderboard row.
type RankedStudent struct {
	Rank            int             `json:"rank"`
	StudentID       uuid.UUID       `json:"student_id"`
	FullName        string          `json:"full_name"`
	TotalCovered    int             `json:"total_covered"`
	RemainingVerses int             `json:"remaining_verses"`
	Percentage      float64         `json:"percentage"`
	LastPortion     *domain.Portion `json:"last_portion,omitempty"`
}

// GroupRollup is the cohort-wide progress summary.
type GroupRollup struct {
	TotalCovered int     `json:"total_covered"`
	TotalTarget  int     `json:"total_target"`
	Percentage   float64 `json:"percentage"`
}

// Percentage computes a student's completion percentage against a verse
// target, rounded to one decimal and capped at 100. A zero or negative
// target yields 0.
func Percentage(totalCovered, targetVerses int) float64 {
	if targetVerses <= 0 {
		return 0
	}
	pct := round1(100 * float64(totalCovered) / float64(targetVerses))
	if pct > 100 {
		return 100
	}
	return pct
}

// Rank orders a cohort by percentage, descending, and assigns 1-based
// positional ranks. The sort is stable: members with equal percentages keep
// the relative order of the input slice, and tied members receive
// consecutive rank numbers rather than a shared one.
func Rank(cohort []CohortMember, targetVerses int) []RankedStudent {
	ranked := make([]RankedStudent, 0, len(cohort))
	for _, member := range cohort {
		remaining := targetVerses - member.TotalCovered
		if remaining < 0 {
			remaining = 0
		}
		ranked = append(ranked, RankedStudent{
			StudentID:       member.StudentID,
			FullName:        member.FullName,
			TotalCovered:    member.TotalCovered,
			RemainingVerses: remaining,
			Percentage:      Percentage(member.TotalCovered, targetVerses),
			LastPortion:     member.LastPortion,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}

// Rollup computes the cohort-wide totals: the target is the per-student
// target multiplied by the cohort size, and the percentage follows the same
// rounding and zero-target policy as individual percentages (but is not
// capped, matching the raw cohort ratio).
func Rollup(cohort []CohortMember, targetVerses int) GroupRollup {
	totalTarget := targetVerses * len(cohort)
	totalCovered := 0
	for _, member := range cohort {
		totalCovered += member.TotalCovered
	}

	pct := 0.0
	if totalTarget > 0 {
		pct = round1(100 * float64(totalCovered) / float64(totalTarget))
	}

	return GroupRollup{
		TotalCovered: totalCovered,
		TotalTarget:  totalTarget,
		Percentage:   pct,
	}
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
