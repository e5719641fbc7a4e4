package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/maktab/hifdh-api/internal/catalog"
	"github.com/maktab/hifdh-api/internal/domain"
	"github.com/maktab/hifdh-api/internal/domain/progress"
	"github.com/maktab/hifdh-api/internal/platform/logger"
	"github.com/maktab/hifdh-api/internal/store"
)

// LeaderboardCache caches computed group leaderboards. Implementations
// must be safe for concurrent use. A nil cache disables caching.
type LeaderboardCache interface {
	// Get returns the cached leaderboard, or an error on miss or failure.
	Get(ctx context.Context, groupID int) ([]progress.RankedStudent, error)

	// Set stores the leaderboard for the group.
	Set(ctx context.Context, groupID int, leaderboard []progress.RankedStudent) error

	// Invalidate drops the cached leaderboard for the group.
	Invalidate(ctx context.Context, groupID int) error
}

// PortionResult is returned by mutating portion operations. Status is
// the refreshed aggregate of the touched section so callers never
// recompute state themselves.
type PortionResult struct {
	Portion *domain.Portion        `json:"portion"`
	Status  progress.SectionStatus `json:"status"`
}

// SkippedSection reports why one section of a bulk add was not inserted.
type SkippedSection struct {
	SectionID int
	Reason    error
}

// BulkAddResult reports the per-item outcome of AddFullSections.
type BulkAddResult struct {
	Inserted []*PortionResult
	Skipped  []SkippedSection
}

// DeleteResult is returned by DeletePortion with the refreshed status
// of the section the deleted portion belonged to.
type DeleteResult struct {
	Status progress.SectionStatus `json:"status"`
}

// DeleteSectionsResult reports the outcome of DeleteBySections.
type DeleteSectionsResult struct {
	Deleted  int64                    `json:"deleted"`
	Statuses []progress.SectionStatus `json:"statuses"`
}

// StudentProgress is the full memorization state of one student.
type StudentProgress struct {
	Student      *domain.Student          `json:"student"`
	Sections     []progress.SectionStatus `json:"sections"`
	TotalCovered int                      `json:"totalCovered"`
	History      []*domain.Portion        `json:"history"`
}

// LedgerService records and aggregates memorization progress. Mutations
// on the same (student, section) pair are serialized; operations on
// different pairs proceed in parallel.
type LedgerService struct {
	portions store.PortionStore
	students store.StudentStore
	groups   store.GroupStore
	catalog  catalog.Provider
	cache    LeaderboardCache
	locks    *keyLock
	logger   *slog.Logger
}

// NewLedgerService creates a new LedgerService. The cache may be nil,
// in which case leaderboards are recomputed on every read.
// If log is nil, a default logger will be used.
func NewLedgerService(
	portions store.PortionStore,
	students store.StudentStore,
	groups store.GroupStore,
	cat catalog.Provider,
	cache LeaderboardCache,
	log *slog.Logger,
) *LedgerService {
	if portions == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("portions cannot be nil")
	}
	if students == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("students cannot be nil")
	}
	if groups == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("groups cannot be nil")
	}
	if cat == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalog cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &LedgerService{
		portions: portions,
		students: students,
		groups:   groups,
		catalog:  cat,
		cache:    cache,
		locks:    newKeyLock(),
		logger:   log.With(slog.String("component", "ledger_service")),
	}
}

// AddPortion records a newly memorized verse range for the student.
// The range is validated against the student's existing portions in the
// section before anything is written.
func (s *LedgerService) AddPortion(
	ctx context.Context,
	studentID uuid.UUID,
	sectionID, startVerse, endVerse int,
	recordedAt time.Time,
) (*PortionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	section, err := s.catalog.SectionByID(sectionID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(studentID, sectionID)
	defer unlock()

	existing, err := s.portions.FindByStudentAndSection(ctx, studentID, sectionID)
	if err != nil {
		return nil, err
	}
	if err := progress.ValidateRange(section, existing, startVerse, endVerse, uuid.Nil); err != nil {
		log.Debug("portion rejected",
			slog.String("student_id", studentID.String()),
			slog.Int("section_id", sectionID),
			slog.String("reason", err.Error()))
		return nil, err
	}

	portion, err := domain.NewPortion(studentID, sectionID, startVerse, endVerse, recordedAt)
	if err != nil {
		return nil, err
	}
	if err := s.portions.Create(ctx, portion); err != nil {
		return nil, err
	}

	s.invalidateLeaderboard(ctx, student.GroupID)
	log.Info("portion recorded",
		slog.String("portion_id", portion.ID.String()),
		slog.String("student_id", studentID.String()),
		slog.Int("section_id", sectionID),
		slog.Int("start_verse", startVerse),
		slog.Int("end_verse", endVerse))

	return &PortionResult{
		Portion: portion,
		Status:  progress.SectionStatusFor(append(existing, portion), section),
	}, nil
}

// AddFullSections records full coverage for each requested section. Each
// section is validated and inserted independently; a rejected or failed
// section is reported in Skipped and never aborts the rest of the batch.
func (s *LedgerService) AddFullSections(
	ctx context.Context,
	studentID uuid.UUID,
	sectionIDs []int,
	recordedAt time.Time,
) (*BulkAddResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(sectionIDs) == 0 {
		return nil, ErrEmptySections
	}
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := &BulkAddResult{
		Inserted: []*PortionResult{},
		Skipped:  []SkippedSection{},
	}
	seen := make(map[int]bool, len(sectionIDs))
	for _, sectionID := range sectionIDs {
		if seen[sectionID] {
			continue
		}
		seen[sectionID] = true

		inserted, err := s.addFullSection(ctx, studentID, sectionID, recordedAt)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedSection{SectionID: sectionID, Reason: err})
			continue
		}
		result.Inserted = append(result.Inserted, inserted)
	}

	if len(result.Inserted) > 0 {
		s.invalidateLeaderboard(ctx, student.GroupID)
	}
	log.Info("bulk sections recorded",
		slog.String("student_id", studentID.String()),
		slog.Int("inserted", len(result.Inserted)),
		slog.Int("skipped", len(result.Skipped)))

	return result, nil
}

// addFullSection validates and inserts a [1, verseCount] portion for one
// section under the section's key lock.
func (s *LedgerService) addFullSection(
	ctx context.Context,
	studentID uuid.UUID,
	sectionID int,
	recordedAt time.Time,
) (*PortionResult, error) {
	section, err := s.catalog.SectionByID(sectionID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(studentID, sectionID)
	defer unlock()

	existing, err := s.portions.FindByStudentAndSection(ctx, studentID, sectionID)
	if err != nil {
		return nil, err
	}
	if err := progress.ValidateRange(section, existing, 1, section.VerseCount, uuid.Nil); err != nil {
		return nil, err
	}

	portion, err := domain.NewPortion(studentID, sectionID, 1, section.VerseCount, recordedAt)
	if err != nil {
		return nil, err
	}
	if err := s.portions.Create(ctx, portion); err != nil {
		return nil, err
	}

	return &PortionResult{
		Portion: portion,
		Status:  progress.SectionStatusFor(append(existing, portion), section),
	}, nil
}

// EditPortion replaces the verse range of an existing portion. The new
// range is re-validated against all other portions of the same student
// and section; on rejection the stored portion is unchanged.
func (s *LedgerService) EditPortion(
	ctx context.Context,
	portionID uuid.UUID,
	startVerse, endVerse int,
	recordedAt time.Time,
) (*PortionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// First read resolves the (student, section) key; the portion is
	// re-read under the lock before validating.
	portion, err := s.portions.GetByID(ctx, portionID)
	if err != nil {
		return nil, err
	}
	section, err := s.catalog.SectionByID(portion.SectionID)
	if err != nil {
		return nil, err
	}
	student, err := s.students.GetByID(ctx, portion.StudentID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(portion.StudentID, portion.SectionID)
	defer unlock()

	portion, err = s.portions.GetByID(ctx, portionID)
	if err != nil {
		return nil, err
	}
	existing, err := s.portions.FindByStudentAndSection(ctx, portion.StudentID, portion.SectionID)
	if err != nil {
		return nil, err
	}
	if err := progress.ValidateRange(section, existing, startVerse, endVerse, portionID); err != nil {
		log.Debug("portion edit rejected",
			slog.String("portion_id", portionID.String()),
			slog.String("reason", err.Error()))
		return nil, err
	}

	if err := portion.SetRange(startVerse, endVerse); err != nil {
		return nil, err
	}
	if !recordedAt.IsZero() {
		portion.RecordedAt = recordedAt
	}
	if err := s.portions.Update(ctx, portion); err != nil {
		return nil, err
	}

	s.invalidateLeaderboard(ctx, student.GroupID)
	log.Info("portion updated",
		slog.String("portion_id", portionID.String()),
		slog.Int("start_verse", startVerse),
		slog.Int("end_verse", endVerse))

	updated, err := s.portions.FindByStudentAndSection(ctx, portion.StudentID, portion.SectionID)
	if err != nil {
		return nil, err
	}
	return &PortionResult{
		Portion: portion,
		Status:  progress.SectionStatusFor(updated, section),
	}, nil
}

// DeletePortion removes one portion and returns the refreshed status of
// the section it belonged to.
func (s *LedgerService) DeletePortion(ctx context.Context, portionID uuid.UUID) (*DeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	portion, err := s.portions.GetByID(ctx, portionID)
	if err != nil {
		return nil, err
	}
	section, err := s.catalog.SectionByID(portion.SectionID)
	if err != nil {
		return nil, err
	}
	student, err := s.students.GetByID(ctx, portion.StudentID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(portion.StudentID, portion.SectionID)
	defer unlock()

	if err := s.portions.Delete(ctx, portionID); err != nil {
		return nil, err
	}

	s.invalidateLeaderboard(ctx, student.GroupID)
	log.Info("portion deleted", slog.String("portion_id", portionID.String()))

	remaining, err := s.portions.FindByStudentAndSection(ctx, portion.StudentID, portion.SectionID)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Status: progress.SectionStatusFor(remaining, section)}, nil
}

// DeleteBySections removes every portion of the student whose section is
// in the given set and returns the refreshed status of each section.
// Deletion cannot introduce an overlap, so no validation is involved.
func (s *LedgerService) DeleteBySections(
	ctx context.Context,
	studentID uuid.UUID,
	sectionIDs []int,
) (*DeleteSectionsResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(sectionIDs) == 0 {
		return nil, ErrEmptySections
	}
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquireAll(studentID, sectionIDs)
	defer unlock()

	deleted, err := s.portions.DeleteByStudentAndSections(ctx, studentID, sectionIDs)
	if err != nil {
		return nil, err
	}

	s.invalidateLeaderboard(ctx, student.GroupID)
	log.Info("portions deleted by sections",
		slog.String("student_id", studentID.String()),
		slog.Int("sections", len(sectionIDs)),
		slog.Int64("deleted", deleted))

	statuses := []progress.SectionStatus{}
	sorted := append([]int{}, sectionIDs...)
	sort.Ints(sorted)
	for _, sectionID := range sorted {
		section, err := s.catalog.SectionByID(sectionID)
		if err != nil {
			continue // unknown section IDs match nothing
		}
		statuses = append(statuses, progress.SectionStatusFor(nil, section))
	}
	return &DeleteSectionsResult{Deleted: deleted, Statuses: statuses}, nil
}

// StudentStatus returns the per-section memorization state of a student
// along with the full entry history, newest first.
func (s *LedgerService) StudentStatus(ctx context.Context, studentID uuid.UUID) (*StudentProgress, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	history, err := s.portions.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	sections := s.catalog.ListSections()
	byID := progress.Aggregate(history, sections)
	statuses := make([]progress.SectionStatus, 0, len(sections))
	for _, section := range sections {
		statuses = append(statuses, byID[section.ID])
	}

	return &StudentProgress{
		Student:      student,
		Sections:     statuses,
		TotalCovered: progress.TotalCovered(history),
		History:      history,
	}, nil
}

// StudentEntries returns a student's ledger entries, newest first.
func (s *LedgerService) StudentEntries(ctx context.Context, studentID uuid.UUID) ([]*domain.Portion, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.portions.FindByStudent(ctx, studentID)
}

// GroupLeaderboard ranks every student in the group by percentage of the
// group target covered. Results are served from the cache when possible.
func (s *LedgerService) GroupLeaderboard(ctx context.Context, groupID int) ([]progress.RankedStudent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, groupID); err == nil {
			log.Debug("leaderboard served from cache", slog.Int("group_id", groupID))
			return cached, nil
		}
	}

	cohort, err := s.loadCohort(ctx, groupID)
	if err != nil {
		return nil, err
	}
	leaderboard := progress.Rank(cohort, group.TargetVerses)

	if s.cache != nil {
		if err := s.cache.Set(ctx, groupID, leaderboard); err != nil {
			log.Warn("failed to cache leaderboard",
				slog.String("error", err.Error()),
				slog.Int("group_id", groupID))
		}
	}
	return leaderboard, nil
}

// GroupRollup aggregates the whole group against the combined target
// (per-student target times cohort size).
func (s *LedgerService) GroupRollup(ctx context.Context, groupID int) (*progress.GroupRollup, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	cohort, err := s.loadCohort(ctx, groupID)
	if err != nil {
		return nil, err
	}

	rollup := progress.Rollup(cohort, group.TargetVerses)
	return &rollup, nil
}

// loadCohort builds the ranking input for a group: one member per
// student in enrollment order, with total coverage and most recent
// portion attached.
func (s *LedgerService) loadCohort(ctx context.Context, groupID int) ([]progress.CohortMember, error) {
	students, err := s.students.FindByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	portionsByStudent, err := s.portions.FindByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	cohort := make([]progress.CohortMember, 0, len(students))
	for _, student := range students {
		portions := portionsByStudent[student.ID]
		member := progress.CohortMember{
			StudentID:    student.ID,
			FullName:     student.FullName,
			TotalCovered: progress.TotalCovered(portions),
		}
		if len(portions) > 0 {
			member.LastPortion = portions[0] // newest first
		}
		cohort = append(cohort, member)
	}
	return cohort, nil
}

func (s *LedgerService) invalidateLeaderboard(ctx context.Context, groupID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, groupID); err != nil {
		s.logger.Warn("failed to invalidate leaderboard cache",
			slog.String("error", err.Error()),
			slog.Int("group_id", groupID))
	}
}
