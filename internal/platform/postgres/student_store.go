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

// PostgresStudentStore implements the store.StudentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStudentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudentStore creates a new PostgreSQL implementation of the
// StudentStore interface. If logger is nil, a default logger will be used.
func NewPostgresStudentStore(db store.DBTX, logger *slog.Logger) *PostgresStudentStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStudentStore{
		db:     db,
		logger: logger.With(slog.String("component", "student_store")),
	}
}

// Ensure PostgresStudentStore implements store.StudentStore interface
var _ store.StudentStore = (*PostgresStudentStore)(nil)

const studentColumns = `id, full_name, group_id, created_at, updated_at`

// WithTx returns a copy of the store bound to the given transaction.
func (s *PostgresStudentStore) WithTx(tx *sql.Tx) *PostgresStudentStore {
	return &PostgresStudentStore{db: tx, logger: s.logger}
}

// Create implements store.StudentStore.Create.
func (s *PostgresStudentStore) Create(ctx context.Context, student *domain.Student) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := student.Validate(); err != nil {
		log.Warn("student validation failed during create",
			slog.String("error", err.Error()),
			slog.String("student_id", student.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO students (id, full_name, group_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		student.ID,
		student.FullName,
		student.GroupID,
		student.CreatedAt,
		student.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during student creation",
				slog.String("student_id", student.ID.String()),
				slog.Int("group_id", student.GroupID))
			return fmt.Errorf("%w: group %d not found", store.ErrInvalidEntity, student.GroupID)
		}
		log.Error("failed to create student",
			slog.String("error", err.Error()),
			slog.String("student_id", student.ID.String()))
		return mapStoreFailure("create student", err)
	}

	log.Debug("student created",
		slog.String("student_id", student.ID.String()),
		slog.Int("group_id", student.GroupID))
	return nil
}

// GetByID implements store.StudentStore.GetByID.
func (s *PostgresStudentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("student not found", slog.String("student_id", id.String()))
			return nil, store.ErrStudentNotFound
		}
		log.Error("failed to get student by ID",
			slog.String("error", err.Error()),
			slog.String("student_id", id.String()))
		return nil, mapStoreFailure("get student", err)
	}

	return student, nil
}

// Update implements store.StudentStore.Update.
func (s *PostgresStudentStore) Update(ctx context.Context, student *domain.Student) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := student.Validate(); err != nil {
		log.Warn("student validation failed during update",
			slog.String("error", err.Error()),
			slog.String("student_id", student.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE students
		SET full_name = $1, group_id = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		student.FullName,
		student.GroupID,
		student.UpdatedAt,
		student.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: group %d not found", store.ErrInvalidEntity, student.GroupID)
		}
		log.Error("failed to update student",
			slog.String("error", err.Error()),
			slog.String("student_id", student.ID.String()))
		return mapStoreFailure("update student", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return mapStoreFailure("update student", err)
	}
	if rowsAffected == 0 {
		log.Debug("student not found for update", slog.String("student_id", student.ID.String()))
		return store.ErrStudentNotFound
	}

	log.Debug("student updated", slog.String("student_id", student.ID.String()))
	return nil
}

// Delete implements store.StudentStore.Delete. Portions recorded for the
// student are removed by the ON DELETE CASCADE constraint.
func (s *PostgresStudentStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete student",
			slog.String("error", err.Error()),
			slog.String("student_id", id.String()))
		return mapStoreFailure("delete student", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return mapStoreFailure("delete student", err)
	}
	if rowsAffected == 0 {
		log.Debug("student not found for delete", slog.String("student_id", id.String()))
		return store.ErrStudentNotFound
	}

	log.Debug("student deleted", slog.String("student_id", id.String()))
	return nil
}

// FindByGroup implements store.StudentStore.FindByGroup.
// Results are ordered by creation time, oldest first.
func (s *PostgresStudentStore) FindByGroup(ctx context.Context, groupID int) ([]*domain.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE group_id = $1
		ORDER BY created_at
	`
	return s.queryStudents(ctx, query, groupID)
}

// List implements store.StudentStore.List. Results are ordered newest first.
func (s *PostgresStudentStore) List(ctx context.Context, filter store.StudentFilter) ([]*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE 1=1`
	args := []any{}

	if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		query += fmt.Sprintf(" AND group_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND full_name ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	return s.queryStudents(ctx, query, args...)
}

func (s *PostgresStudentStore) queryStudents(ctx context.Context, query string, args ...any) ([]*domain.Student, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query students", slog.String("error", err.Error()))
		return nil, mapStoreFailure("query students", err)
	}
	defer closeRows(rows, log)

	students := []*domain.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			log.Error("failed to scan student row", slog.String("error", err.Error()))
			return nil, mapStoreFailure("query students", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreFailure("query students", err)
	}

	return students, nil
}

func scanStudent(row rowScanner) (*domain.Student, error) {
	var student domain.Student
	err := row.Scan(
		&student.ID,
		&student.FullName,
		&student.GroupID,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}
