package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/maktab/hifdh-api/internal/domain"
	"github.com/maktab/hifdh-api/internal/platform/logger"
	"github.com/maktab/hifdh-api/internal/store"
)

// PostgresPortionStore implements the store.PortionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPortionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPortionStore creates a new PostgreSQL implementation of the
// PortionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresPortionStore(db store.DBTX, logger *slog.Logger) *PostgresPortionStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPortionStore{
		db:     db,
		logger: logger.With(slog.String("component", "portion_store")),
	}
}

// Ensure PostgresPortionStore implements store.PortionStore interface
var _ store.PortionStore = (*PostgresPortionStore)(nil)

const portionColumns = `id, student_id, section_id, start_verse, end_verse,
	verses_memorized, recorded_at, created_at, updated_at`

// WithTx returns a copy of the store bound to the given transaction.
func (s *PostgresPortionStore) WithTx(tx *sql.Tx) *PostgresPortionStore {
	return &PostgresPortionStore{db: tx, logger: s.logger}
}

// Create implements store.PortionStore.Create.
func (s *PostgresPortionStore) Create(ctx context.Context, portion *domain.Portion) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := portion.Validate(); err != nil {
		log.Warn("portion validation failed during create",
			slog.String("error", err.Error()),
			slog.String("portion_id", portion.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO memorized_portions
			(id, student_id, section_id, start_verse, end_verse,
			 verses_memorized, recorded_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		portion.ID,
		portion.StudentID,
		portion.SectionID,
		portion.StartVerse,
		portion.EndVerse,
		portion.VersesMemorized,
		portion.RecordedAt,
		portion.CreatedAt,
		portion.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during portion creation",
				slog.String("portion_id", portion.ID.String()),
				slog.String("student_id", portion.StudentID.String()),
				slog.Int("section_id", portion.SectionID))
			return fmt.Errorf("%w: student %s or section %d not found",
				store.ErrInvalidEntity, portion.StudentID, portion.SectionID)
		}
		log.Error("failed to create portion",
			slog.String("error", err.Error()),
			slog.String("portion_id", portion.ID.String()))
		return mapStoreFailure("create portion", err)
	}

	log.Debug("portion created",
		slog.String("portion_id", portion.ID.String()),
		slog.String("student_id", portion.StudentID.String()),
		slog.Int("section_id", portion.SectionID))
	return nil
}

// GetByID implements store.PortionStore.GetByID.
func (s *PostgresPortionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + portionColumns + ` FROM memorized_portions WHERE id = $1`

	portion, err := scanPortion(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("portion not found", slog.String("portion_id", id.String()))
			return nil, store.ErrPortionNotFound
		}
		log.Error("failed to get portion by ID",
			slog.String("error", err.Error()),
			slog.String("portion_id", id.String()))
		return nil, mapStoreFailure("get portion", err)
	}

	return portion, nil
}

// Update implements store.PortionStore.Update.
func (s *PostgresPortionStore) Update(ctx context.Context, portion *domain.Portion) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := portion.Validate(); err != nil {
		log.Warn("portion validation failed during update",
			slog.String("error", err.Error()),
			slog.String("portion_id", portion.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE memorized_portions
		SET section_id = $1, start_verse = $2, end_verse = $3,
		    verses_memorized = $4, recorded_at = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		portion.SectionID,
		portion.StartVerse,
		portion.EndVerse,
		portion.VersesMemorized,
		portion.RecordedAt,
		portion.UpdatedAt,
		portion.ID,
	)
	if err != nil {
		log.Error("failed to update portion",
			slog.String("error", err.Error()),
			slog.String("portion_id", portion.ID.String()))
		return mapStoreFailure("update portion", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("portion_id", portion.ID.String()))
		return mapStoreFailure("update portion", err)
	}
	if rowsAffected == 0 {
		log.Debug("portion not found for update",
			slog.String("portion_id", portion.ID.String()))
		return store.ErrPortionNotFound
	}

	log.Debug("portion updated", slog.String("portion_id", portion.ID.String()))
	return nil
}

// Delete implements store.PortionStore.Delete.
func (s *PostgresPortionStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM memorized_portions WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete portion",
			slog.String("error", err.Error()),
			slog.String("portion_id", id.String()))
		return mapStoreFailure("delete portion", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return mapStoreFailure("delete portion", err)
	}
	if rowsAffected == 0 {
		log.Debug("portion not found for delete", slog.String("portion_id", id.String()))
		return store.ErrPortionNotFound
	}

	log.Debug("portion deleted", slog.String("portion_id", id.String()))
	return nil
}

// DeleteByStudentAndSections implements store.PortionStore.DeleteByStudentAndSections.
func (s *PostgresPortionStore) DeleteByStudentAndSections(
	ctx context.Context,
	studentID uuid.UUID,
	sectionIDs []int,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(sectionIDs) == 0 {
		return 0, nil
	}

	query := `
		DELETE FROM memorized_portions
		WHERE student_id = $1 AND section_id = ANY($2)
	`
	result, err := s.db.ExecContext(ctx, query, studentID, sectionIDs)
	if err != nil {
		log.Error("failed to delete portions by sections",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()))
		return 0, mapStoreFailure("delete portions by sections", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, mapStoreFailure("delete portions by sections", err)
	}

	log.Debug("portions deleted by sections",
		slog.String("student_id", studentID.String()),
		slog.Int64("deleted", deleted))
	return deleted, nil
}

// FindByStudent implements store.PortionStore.FindByStudent.
func (s *PostgresPortionStore) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Portion, error) {
	query := `
		SELECT ` + portionColumns + `
		FROM memorized_portions
		WHERE student_id = $1
		ORDER BY recorded_at DESC, created_at DESC
	`
	return s.queryPortions(ctx, query, studentID)
}

// FindByStudentAndSection implements store.PortionStore.FindByStudentAndSection.
func (s *PostgresPortionStore) FindByStudentAndSection(
	ctx context.Context,
	studentID uuid.UUID,
	sectionID int,
) ([]*domain.Portion, error) {
	query := `
		SELECT ` + portionColumns + `
		FROM memorized_portions
		WHERE student_id = $1 AND section_id = $2
		ORDER BY start_verse
	`
	return s.queryPortions(ctx, query, studentID, sectionID)
}

// FindByGroup implements store.PortionStore.FindByGroup.
// Students without portions appear in the result with an empty slice.
func (s *PostgresPortionStore) FindByGroup(ctx context.Context, groupID int) (map[uuid.UUID][]*domain.Portion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT s.id, p.id, p.student_id, p.section_id, p.start_verse, p.end_verse,
		       p.verses_memorized, p.recorded_at, p.created_at, p.updated_at
		FROM students s
		LEFT JOIN memorized_portions p ON p.student_id = s.id
		WHERE s.group_id = $1
		ORDER BY s.created_at, p.recorded_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		log.Error("failed to query portions by group",
			slog.String("error", err.Error()),
			slog.Int("group_id", groupID))
		return nil, mapStoreFailure("find portions by group", err)
	}
	defer closeRows(rows, log)

	byStudent := make(map[uuid.UUID][]*domain.Portion)
	for rows.Next() {
		var studentID uuid.UUID
		var p struct {
			id              sql.Null[uuid.UUID]
			studentID       sql.Null[uuid.UUID]
			sectionID       sql.NullInt64
			startVerse      sql.NullInt64
			endVerse        sql.NullInt64
			versesMemorized sql.NullInt64
			recordedAt      sql.NullTime
			createdAt       sql.NullTime
			updatedAt       sql.NullTime
		}

		err := rows.Scan(
			&studentID,
			&p.id,
			&p.studentID,
			&p.sectionID,
			&p.startVerse,
			&p.endVerse,
			&p.versesMemorized,
			&p.recordedAt,
			&p.createdAt,
			&p.updatedAt,
		)
		if err != nil {
			log.Error("failed to scan group portion row",
				slog.String("error", err.Error()))
			return nil, mapStoreFailure("find portions by group", err)
		}

		if _, seen := byStudent[studentID]; !seen {
			byStudent[studentID] = []*domain.Portion{}
		}
		if !p.id.Valid {
			continue // student without portions
		}
		byStudent[studentID] = append(byStudent[studentID], &domain.Portion{
			ID:              p.id.V,
			StudentID:       p.studentID.V,
			SectionID:       int(p.sectionID.Int64),
			StartVerse:      int(p.startVerse.Int64),
			EndVerse:        int(p.endVerse.Int64),
			VersesMemorized: int(p.versesMemorized.Int64),
			RecordedAt:      p.recordedAt.Time,
			CreatedAt:       p.createdAt.Time,
			UpdatedAt:       p.updatedAt.Time,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreFailure("find portions by group", err)
	}

	return byStudent, nil
}

// queryPortions runs a portion query and scans all rows.
func (s *PostgresPortionStore) queryPortions(ctx context.Context, query string, args ...any) ([]*domain.Portion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query portions", slog.String("error", err.Error()))
		return nil, mapStoreFailure("query portions", err)
	}
	defer closeRows(rows, log)

	portions := []*domain.Portion{}
	for rows.Next() {
		portion, err := scanPortion(rows)
		if err != nil {
			log.Error("failed to scan portion row", slog.String("error", err.Error()))
			return nil, mapStoreFailure("query portions", err)
		}
		portions = append(portions, portion)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreFailure("query portions", err)
	}

	return portions, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanPortion.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortion(row rowScanner) (*domain.Portion, error) {
	var portion domain.Portion
	err := row.Scan(
		&portion.ID,
		&portion.StudentID,
		&portion.SectionID,
		&portion.StartVerse,
		&portion.EndVerse,
		&portion.VersesMemorized,
		&portion.RecordedAt,
		&portion.CreatedAt,
		&portion.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &portion, nil
}

func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
