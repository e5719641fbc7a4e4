package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/maktab/hifdh-api/internal/domain"
)

// PortionStore defines the interface for ledger entry persistence.
//
// The ledger engine holds no cache: every mutating or aggregating operation
// re-reads the relevant portions through this interface, so implementations
// must return the durable state, never a stale snapshot of their own.
type PortionStore interface {
	// Create saves a new portion to the store.
	// The portion must be valid according to domain validation rules.
	// Returns ErrInvalidEntity (wrapped) if a referenced student or section
	// does not exist.
	Create(ctx context.Context, portion *domain.Portion) error

	// GetByID retrieves a portion by its unique ID.
	// Returns ErrPortionNotFound if the portion does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Portion, error)

	// Update persists changes to an existing portion (range, section,
	// recorded-at). Returns ErrPortionNotFound if the portion does not exist.
	Update(ctx context.Context, portion *domain.Portion) error

	// Delete removes a portion from the store by its ID.
	// Returns ErrPortionNotFound if the portion does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByStudentAndSections removes every portion of the student whose
	// section ID is in the given set, returning the number of rows removed.
	// Deleting zero rows is not an error.
	DeleteByStudentAndSections(ctx context.Context, studentID uuid.UUID, sectionIDs []int) (int64, error)

	// FindByStudent returns all portions of a student ordered by RecordedAt
	// descending (newest first). Returns an empty slice when none exist.
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Portion, error)

	// FindByStudentAndSection returns the student's portions within one
	// section, ordered by StartVerse ascending. Returns an empty slice when
	// none exist.
	FindByStudentAndSection(ctx context.Context, studentID uuid.UUID, sectionID int) ([]*domain.Portion, error)

	// FindByGroup returns the portions of every student in the group, keyed
	// by student ID. Students with no portions are present with an empty
	// slice so cohort aggregation sees the full roster.
	FindByGroup(ctx context.Context, groupID int) (map[uuid.UUID][]*domain.Portion, error)
}
