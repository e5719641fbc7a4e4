package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/maktab/hifdh-api/internal/domain"
)

// StudentFilter narrows List results. A nil GroupID means all groups; an
// empty Search means no name filtering.
type StudentFilter struct {
	GroupID *int
	Search  string // case-insensitive substring match on FullName
}

// StudentStore defines the interface for student roster persistence.
type StudentStore interface {
	// Create saves a new student to the store.
	// Returns ErrInvalidEntity (wrapped) if the referenced group does not exist.
	Create(ctx context.Context, student *domain.Student) error

	// GetByID retrieves a student by ID.
	// Returns ErrStudentNotFound if the student does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error)

	// Update persists changes to an existing student (name, group).
	// Returns ErrStudentNotFound if the student does not exist.
	Update(ctx context.Context, student *domain.Student) error

	// Delete removes a student. The student's portions are removed with it
	// (cascade at the storage level).
	// Returns ErrStudentNotFound if the student does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByGroup returns the students of one group ordered by CreatedAt
	// ascending. That order is the deterministic tie-break the ranking
	// engine preserves for equal percentages.
	FindByGroup(ctx context.Context, groupID int) ([]*domain.Student, error)

	// List returns students matching the filter, newest first.
	List(ctx context.Context, filter StudentFilter) ([]*domain.Student, error)
}

// GroupStore defines the interface for group persistence.
type GroupStore interface {
	// GetByID retrieves a group by ID.
	// Returns ErrGroupNotFound if the group does not exist.
	GetByID(ctx context.Context, id int) (*domain.Group, error)

	// List returns all groups ordered by ID.
	List(ctx context.Context) ([]*domain.Group, error)
}
