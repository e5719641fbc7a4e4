package progress

import (
	"testing"

	"github.com/google/uuid"
)

func TestPercentage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		covered  int
		target   int
		expected float64
	}{
		{name: "exactly at target", covered: 50, target: 50, expected: 100},
		{name: "half way", covered: 25, target: 50, expected: 50},
		{name: "rounded to one decimal", covered: 1, target: 3, expected: 33.3},
		{name: "capped at 100 when over target", covered: 75, target: 50, expected: 100},
		{name: "zero target yields zero", covered: 40, target: 0, expected: 0},
		{name: "zero covered", covered: 0, target: 50, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Percentage(tc.covered, tc.target); got != tc.expected {
				t.Errorf("expected %.1f%%, got %.1f%%", tc.expected, got)
			}
		})
	}
}

func TestRankOrdersByPercentageDescending(t *testing.T) {
	t.Parallel()

	high := CohortMember{StudentID: uuid.New(), FullName: "high", TotalCovered: 50}
	low := CohortMember{StudentID: uuid.New(), FullName: "low", TotalCovered: 25}

	ranked := Rank([]CohortMember{low, high}, 50)

	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked students, got %d", len(ranked))
	}
	if ranked[0].StudentID != high.StudentID || ranked[1].StudentID != low.StudentID {
		t.Fatalf("expected high before low, got %s then %s",
			ranked[0].FullName, ranked[1].FullName)
	}
	if ranked[0].Percentage != 100 || ranked[1].Percentage != 50 {
		t.Errorf("expected 100%% and 50%%, got %.1f%% and %.1f%%",
			ranked[0].Percentage, ranked[1].Percentage)
	}
	if ranked[0].Rank != 1 || ranked[1].Rank != 2 {
		t.Errorf("expected ranks 1 and 2, got %d and %d", ranked[0].Rank, ranked[1].Rank)
	}
	if ranked[1].RemainingVerses != 25 {
		t.Errorf("expected 25 verses remaining, got %d", ranked[1].RemainingVerses)
	}
}

func TestRankTiesKeepInputOrderWithConsecutiveRanks(t *testing.T) {
	t.Parallel()

	first := CohortMember{StudentID: uuid.New(), FullName: "first", TotalCovered: 30}
	second := CohortMember{StudentID: uuid.New(), FullName: "second", TotalCovered: 30}
	third := CohortMember{StudentID: uuid.New(), FullName: "third", TotalCovered: 10}

	ranked := Rank([]CohortMember{first, second, third}, 60)

	if ranked[0].StudentID != first.StudentID || ranked[1].StudentID != second.StudentID {
		t.Fatalf("tied students reordered: got %s then %s",
			ranked[0].FullName, ranked[1].FullName)
	}
	// Positional ranking: ties get consecutive numbers, never a shared rank.
	if ranked[0].Rank != 1 || ranked[1].Rank != 2 || ranked[2].Rank != 3 {
		t.Errorf("expected ranks 1,2,3, got %d,%d,%d",
			ranked[0].Rank, ranked[1].Rank, ranked[2].Rank)
	}
}

func TestRankPercentagesStayWithinBounds(t *testing.T) {
	t.Parallel()

	cohort := []CohortMember{
		{StudentID: uuid.New(), TotalCovered: 0},
		{StudentID: uuid.New(), TotalCovered: 37},
		{StudentID: uuid.New(), TotalCovered: 5000},
	}

	for _, target := range []int{0, 1, 50, 6236} {
		for _, student := range Rank(cohort, target) {
			if student.Percentage < 0 || student.Percentage > 100 {
				t.Errorf("target %d: percentage %.1f out of [0,100]",
					target, student.Percentage)
			}
			if student.RemainingVerses < 0 {
				t.Errorf("target %d: negative remaining %d",
					target, student.RemainingVerses)
			}
		}
	}
}

func TestRollup(t *testing.T) {
	t.Parallel()

	cohort := []CohortMember{
		{StudentID: uuid.New(), TotalCovered: 50},
		{StudentID: uuid.New(), TotalCovered: 25},
	}

	rollup := Rollup(cohort, 50)

	if rollup.TotalCovered != 75 {
		t.Errorf("expected 75 covered, got %d", rollup.TotalCovered)
	}
	if rollup.TotalTarget != 100 {
		t.Errorf("expected target 100, got %d", rollup.TotalTarget)
	}
	if rollup.Percentage != 75 {
		t.Errorf("expected 75%%, got %.1f%%", rollup.Percentage)
	}
}

func TestRollupZeroTargetYieldsZeroPercentage(t *testing.T) {
	t.Parallel()

	rollup := Rollup([]CohortMember{{StudentID: uuid.New(), TotalCovered: 10}}, 0)

	if rollup.Percentage != 0 {
		t.Errorf("expected 0%% for zero target, got %.1f%%", rollup.Percentage)
	}
	if rollup.TotalTarget != 0 {
		t.Errorf("expected 0 target, got %d", rollup.TotalTarget)
	}
}

func TestRollupEmptyCohort(t *testing.T) {
	t.Parallel()

	rollup := Rollup(nil, 50)

	if rollup.TotalCovered != 0 || rollup.TotalTarget != 0 || rollup.Percentage != 0 {
		t.Errorf("expected zero rollup for empty cohort, got %+v", rollup)
	}
}
