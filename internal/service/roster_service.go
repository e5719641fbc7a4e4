package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/maktab/hifdh-api/internal/domain"
	"github.com/maktab/hifdh-api/internal/platform/logger"
	"github.com/maktab/hifdh-api/internal/store"
)

// RosterService manages students and groups.
type RosterService struct {
	students store.StudentStore
	groups   store.GroupStore
	cache    LeaderboardCache
	logger   *slog.Logger
}

// NewRosterService creates a new RosterService. The cache may be nil.
// If log is nil, a default logger will be used.
func NewRosterService(
	students store.StudentStore,
	groups store.GroupStore,
	cache LeaderboardCache,
	log *slog.Logger,
) *RosterService {
	if students == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("students cannot be nil")
	}
	if groups == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("groups cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &RosterService{
		students: students,
		groups:   groups,
		cache:    cache,
		logger:   log.With(slog.String("component", "roster_service")),
	}
}

// CreateStudent enrolls a new student in a group. The group must exist.
func (s *RosterService) CreateStudent(ctx context.Context, fullName string, groupID int) (*domain.Student, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	student, err := domain.NewStudent(fullName, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	s.invalidateLeaderboard(ctx, groupID)
	log.Info("student created",
		slog.String("student_id", student.ID.String()),
		slog.Int("group_id", groupID))
	return student, nil
}

// GetStudent retrieves a student by ID.
func (s *RosterService) GetStudent(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	return s.students.GetByID(ctx, id)
}

// UpdateStudent changes a student's name or group.
func (s *RosterService) UpdateStudent(
	ctx context.Context,
	id uuid.UUID,
	fullName string,
	groupID int,
) (*domain.Student, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	previousGroupID := student.GroupID
	student.FullName = fullName
	student.GroupID = groupID
	student.UpdatedAt = time.Now().UTC()
	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	s.invalidateLeaderboard(ctx, groupID)
	if previousGroupID != groupID {
		s.invalidateLeaderboard(ctx, previousGroupID)
	}
	log.Info("student updated", slog.String("student_id", id.String()))
	return student, nil
}

// DeleteStudent removes a student and every portion recorded for them.
func (s *RosterService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateLeaderboard(ctx, student.GroupID)
	log.Info("student deleted", slog.String("student_id", id.String()))
	return nil
}

// ListStudents returns students matching the filter, newest first.
func (s *RosterService) ListStudents(ctx context.Context, filter store.StudentFilter) ([]*domain.Student, error) {
	return s.students.List(ctx, filter)
}

// ListGroups returns every group ordered by ID.
func (s *RosterService) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	return s.groups.List(ctx)
}

// GetGroup retrieves a group by ID.
func (s *RosterService) GetGroup(ctx context.Context, id int) (*domain.Group, error) {
	return s.groups.GetByID(ctx, id)
}

func (s *RosterService) invalidateLeaderboard(ctx context.Context, groupID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, groupID); err != nil {
		s.logger.Warn("failed to invalidate leaderboard cache",
			slog.String("error", err.Error()),
			slog.Int("group_id", groupID))
	}
}
