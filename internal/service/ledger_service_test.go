package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maktab/hifdh-api/internal/catalog"
	"github.com/maktab/hifdh-api/internal/domain"
	"github.com/maktab/hifdh-api/internal/domain/progress"
	"github.com/maktab/hifdh-api/internal/platform/memory"
	"github.com/maktab/hifdh-api/internal/store"
)

// testCatalog has two small sections so coverage states are easy to reason about.
func testCatalog(t *testing.T) *catalog.Static {
	t.Helper()

	cat, err := catalog.NewStatic([]domain.Section{
		{ID: 1, Name: "S1", Order: 1, VerseCount: 7},
		{ID: 2, Name: "S2", Order: 2, VerseCount: 10},
	})
	require.NoError(t, err)
	return cat
}

type fixture struct {
	ledger   *LedgerService
	roster   *RosterService
	students *memory.StudentStore
	groups   *memory.GroupStore
	portions *memory.PortionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	students := memory.NewStudentStore()
	portions := memory.NewPortionStore(students)
	students.SetPortionStore(portions)
	groups := memory.NewGroupStore(
		&domain.Group{ID: 1, Name: "Alpha", TargetVerses: 50},
		&domain.Group{ID: 2, Name: "Beta", TargetVerses: 0},
	)

	cat := testCatalog(t)
	return &fixture{
		ledger:   NewLedgerService(portions, students, groups, cat, nil, nil),
		roster:   NewRosterService(students, groups, nil, nil),
		students: students,
		groups:   groups,
		portions: portions,
	}
}

func (f *fixture) enroll(t *testing.T, name string, groupID int) *domain.Student {
	t.Helper()

	student, err := f.roster.CreateStudent(context.Background(), name, groupID)
	require.NoError(t, err)
	return student
}

func TestAddPortion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Aisha", 1)
	now := time.Now().UTC()

	// [1,3] accepted, section in progress
	res, err := f.ledger.AddPortion(ctx, student.ID, 1, 1, 3, now)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Portion.VersesMemorized)
	assert.Equal(t, 3, res.Status.CoveredVerses)
	assert.Equal(t, progress.StateInProgress, res.Status.State)

	// [3,5] rejected: verse 3 already claimed
	_, err = f.ledger.AddPortion(ctx, student.ID, 1, 3, 5, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, progress.ErrRangeOverlap)

	var overlap *progress.OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, 1, overlap.ConflictStart)
	assert.Equal(t, 3, overlap.ConflictEnd)

	// [4,7] accepted, section completed
	res, err = f.ledger.AddPortion(ctx, student.ID, 1, 4, 7, now)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Status.CoveredVerses)
	assert.Equal(t, progress.StateCompleted, res.Status.State)
}

func TestAddPortionRejectsInvalidRange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Bilal", 1)
	now := time.Now().UTC()

	tests := []struct {
		name       string
		start, end int
	}{
		{"start below one", 0, 3},
		{"end beyond section", 5, 8},
		{"inverted", 5, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.AddPortion(ctx, student.ID, 1, tc.start, tc.end, now)
			assert.ErrorIs(t, err, progress.ErrRangeInvalid)
		})
	}
}

func TestAddPortionUnknownStudentOrSection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Hamza", 1)
	now := time.Now().UTC()

	_, err := f.ledger.AddPortion(ctx, uuid.New(), 1, 1, 3, now)
	assert.ErrorIs(t, err, store.ErrStudentNotFound)

	_, err = f.ledger.AddPortion(ctx, student.ID, 99, 1, 3, now)
	assert.ErrorIs(t, err, catalog.ErrSectionNotFound)
}

func TestAddFullSections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Khadija", 1)
	now := time.Now().UTC()

	// S1 already fully covered
	_, err := f.ledger.AddPortion(ctx, student.ID, 1, 1, 7, now)
	require.NoError(t, err)

	res, err := f.ledger.AddFullSections(ctx, student.ID, []int{1, 2}, now)
	require.NoError(t, err)

	require.Len(t, res.Inserted, 1)
	assert.Equal(t, 2, res.Inserted[0].Portion.SectionID)
	assert.Equal(t, 1, res.Inserted[0].Portion.StartVerse)
	assert.Equal(t, 10, res.Inserted[0].Portion.EndVerse)
	assert.Equal(t, progress.StateCompleted, res.Inserted[0].Status.State)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 1, res.Skipped[0].SectionID)
	assert.ErrorIs(t, res.Skipped[0].Reason, progress.ErrRangeOverlap)
}

func TestAddFullSectionsUnknownSectionIsSkippedNotFatal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Umar", 1)

	res, err := f.ledger.AddFullSections(ctx, student.ID, []int{99, 2}, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, res.Inserted, 1)
	require.Len(t, res.Skipped, 1)
	assert.ErrorIs(t, res.Skipped[0].Reason, catalog.ErrSectionNotFound)
}

func TestAddFullSectionsEmptySet(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	student := f.enroll(t, "Zaid", 1)

	_, err := f.ledger.AddFullSections(context.Background(), student.ID, nil, time.Now().UTC())
	assert.ErrorIs(t, err, ErrEmptySections)
}

func TestEditPortion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Fatima", 1)
	now := time.Now().UTC()

	first, err := f.ledger.AddPortion(ctx, student.ID, 1, 1, 3, now)
	require.NoError(t, err)
	_, err = f.ledger.AddPortion(ctx, student.ID, 1, 6, 7, now)
	require.NoError(t, err)

	// extending [1,3] into [2,6] collides with [6,7]; original must survive
	_, err = f.ledger.EditPortion(ctx, first.Portion.ID, 2, 6, now)
	assert.ErrorIs(t, err, progress.ErrRangeOverlap)

	kept, err := f.portions.GetByID(ctx, first.Portion.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, kept.StartVerse)
	assert.Equal(t, 3, kept.EndVerse)

	// shrinking to [2,5] is fine and the aggregate reflects it
	res, err := f.ledger.EditPortion(ctx, first.Portion.ID, 2, 5, now)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Portion.VersesMemorized)
	assert.Equal(t, 6, res.Status.CoveredVerses) // [2,5] + [6,7]
	assert.Equal(t, progress.StateInProgress, res.Status.State)
}

func TestEditPortionNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.ledger.EditPortion(context.Background(), uuid.New(), 1, 2, time.Now().UTC())
	assert.ErrorIs(t, err, store.ErrPortionNotFound)
}

func TestDeletePortion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Yusuf", 1)
	now := time.Now().UTC()

	res, err := f.ledger.AddPortion(ctx, student.ID, 1, 1, 7, now)
	require.NoError(t, err)

	deleted, err := f.ledger.DeletePortion(ctx, res.Portion.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted.Status.CoveredVerses)
	assert.Equal(t, progress.StateNotStarted, deleted.Status.State)

	_, err = f.ledger.DeletePortion(ctx, res.Portion.ID)
	assert.ErrorIs(t, err, store.ErrPortionNotFound)
}

func TestDeleteBySections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Maryam", 1)
	now := time.Now().UTC()

	_, err := f.ledger.AddPortion(ctx, student.ID, 1, 1, 3, now)
	require.NoError(t, err)
	_, err = f.ledger.AddPortion(ctx, student.ID, 1, 5, 7, now)
	require.NoError(t, err)
	_, err = f.ledger.AddPortion(ctx, student.ID, 2, 1, 10, now)
	require.NoError(t, err)

	res, err := f.ledger.DeleteBySections(ctx, student.ID, []int{1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Deleted)
	require.Len(t, res.Statuses, 1)
	assert.Equal(t, progress.StateNotStarted, res.Statuses[0].State)

	// section 2 untouched
	status, err := f.ledger.StudentStatus(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, status.TotalCovered)
}

func TestStudentStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Salman", 1)

	older := time.Now().UTC().Add(-time.Hour)
	newer := time.Now().UTC()
	_, err := f.ledger.AddPortion(ctx, student.ID, 1, 1, 3, older)
	require.NoError(t, err)
	_, err = f.ledger.AddPortion(ctx, student.ID, 2, 1, 4, newer)
	require.NoError(t, err)

	status, err := f.ledger.StudentStatus(ctx, student.ID)
	require.NoError(t, err)

	assert.Equal(t, student.ID, status.Student.ID)
	assert.Equal(t, 7, status.TotalCovered)

	// one status per catalog section, catalog order
	require.Len(t, status.Sections, 2)
	assert.Equal(t, 1, status.Sections[0].SectionID)
	assert.Equal(t, progress.StateInProgress, status.Sections[0].State)
	assert.Equal(t, 2, status.Sections[1].SectionID)

	// history newest first
	require.Len(t, status.History, 2)
	assert.Equal(t, 2, status.History[0].SectionID)
}

func TestStudentEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Zaid", 1)

	older := time.Now().UTC().Add(-time.Hour)
	newer := time.Now().UTC()
	_, err := f.ledger.AddPortion(ctx, student.ID, 1, 1, 3, older)
	require.NoError(t, err)
	_, err = f.ledger.AddPortion(ctx, student.ID, 2, 1, 4, newer)
	require.NoError(t, err)

	entries, err := f.ledger.StudentEntries(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].SectionID)
	assert.Equal(t, 1, entries[1].SectionID)

	_, err = f.ledger.StudentEntries(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrStudentNotFound)
}

func TestGroupLeaderboardAndRollup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	now := time.Now().UTC()

	// target 50; leader covers 17, runner-up 7, third nothing
	leader := f.enroll(t, "Leader", 1)
	second := f.enroll(t, "Second", 1)
	third := f.enroll(t, "Third", 1)

	_, err := f.ledger.AddPortion(ctx, leader.ID, 1, 1, 7, now)
	require.NoError(t, err)
	_, err = f.ledger.AddPortion(ctx, leader.ID, 2, 1, 10, now)
	require.NoError(t, err)
	_, err = f.ledger.AddPortion(ctx, second.ID, 1, 1, 7, now)
	require.NoError(t, err)

	leaderboard, err := f.ledger.GroupLeaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, leaderboard, 3)

	assert.Equal(t, 1, leaderboard[0].Rank)
	assert.Equal(t, leader.ID, leaderboard[0].StudentID)
	assert.InDelta(t, 34.0, leaderboard[0].Percentage, 0.01)
	assert.Equal(t, 33, leaderboard[0].RemainingVerses)
	require.NotNil(t, leaderboard[0].LastPortion)

	assert.Equal(t, 2, leaderboard[1].Rank)
	assert.Equal(t, second.ID, leaderboard[1].StudentID)

	assert.Equal(t, 3, leaderboard[2].Rank)
	assert.Equal(t, third.ID, leaderboard[2].StudentID)
	assert.Zero(t, leaderboard[2].Percentage)
	assert.Nil(t, leaderboard[2].LastPortion)

	rollup, err := f.ledger.GroupRollup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 24, rollup.TotalCovered)
	assert.Equal(t, 150, rollup.TotalTarget)
	assert.InDelta(t, 16.0, rollup.Percentage, 0.01)
}

func TestGroupLeaderboardZeroTarget(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Solo", 2)

	_, err := f.ledger.AddPortion(ctx, student.ID, 1, 1, 7, time.Now().UTC())
	require.NoError(t, err)

	leaderboard, err := f.ledger.GroupLeaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, leaderboard, 1)
	assert.Zero(t, leaderboard[0].Percentage)

	rollup, err := f.ledger.GroupRollup(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, rollup.Percentage)
}

func TestGroupLeaderboardUnknownGroup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.ledger.GroupLeaderboard(context.Background(), 99)
	assert.ErrorIs(t, err, store.ErrGroupNotFound)
}

// fakeCache records calls so cache interaction can be asserted.
type fakeCache struct {
	mu          sync.Mutex
	stored      map[int][]progress.RankedStudent
	invalidated []int
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[int][]progress.RankedStudent)}
}

func (c *fakeCache) Get(ctx context.Context, groupID int) ([]progress.RankedStudent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if lb, ok := c.stored[groupID]; ok {
		return lb, nil
	}
	return nil, errors.New("miss")
}

func (c *fakeCache) Set(ctx context.Context, groupID int, lb []progress.RankedStudent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored[groupID] = lb
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, groupID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stored, groupID)
	c.invalidated = append(c.invalidated, groupID)
	return nil
}

func TestGroupLeaderboardUsesCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	students := memory.NewStudentStore()
	portions := memory.NewPortionStore(students)
	students.SetPortionStore(portions)
	groups := memory.NewGroupStore(&domain.Group{ID: 1, Name: "Alpha", TargetVerses: 50})
	cache := newFakeCache()

	ledger := NewLedgerService(portions, students, groups, testCatalog(t), cache, nil)
	roster := NewRosterService(students, groups, cache, nil)

	student, err := roster.CreateStudent(ctx, "Cached", 1)
	require.NoError(t, err)

	// first read populates the cache
	_, err = ledger.GroupLeaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, cache.stored, 1)

	// a mutation drops it
	_, err = ledger.AddPortion(ctx, student.ID, 1, 1, 3, time.Now().UTC())
	require.NoError(t, err)
	assert.NotContains(t, cache.stored, 1)
	assert.Contains(t, cache.invalidated, 1)
}

// Two goroutines racing to insert overlapping ranges on the same
// (student, section) pair: exactly one must win.
func TestConcurrentOverlappingInsertsOneWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	student := f.enroll(t, "Racer", 1)
	now := time.Now().UTC()

	for i := 0; i < 20; i++ {
		_, err := f.ledger.DeleteBySections(ctx, student.ID, []int{1})
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = f.ledger.AddPortion(ctx, student.ID, 1, 1, 4, now)
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = f.ledger.AddPortion(ctx, student.ID, 1, 3, 7, now)
		}()
		wg.Wait()

		accepted := 0
		for _, err := range errs {
			if err == nil {
				accepted++
			} else {
				require.ErrorIs(t, err, progress.ErrRangeOverlap)
			}
		}
		assert.Equal(t, 1, accepted)
	}
}
