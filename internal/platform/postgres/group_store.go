package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/maktab/hifdh-api/internal/domain"
	"github.com/maktab/hifdh-api/internal/platform/logger"
	"github.com/maktab/hifdh-api/internal/store"
)

// PostgresGroupStore implements the store.GroupStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGroupStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGroupStore creates a new PostgreSQL implementation of the
// GroupStore interface. If logger is nil, a default logger will be used.
func NewPostgresGroupStore(db store.DBTX, logger *slog.Logger) *PostgresGroupStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGroupStore{
		db:     db,
		logger: logger.With(slog.String("component", "group_store")),
	}
}

// Ensure PostgresGroupStore implements store.GroupStore interface
var _ store.GroupStore = (*PostgresGroupStore)(nil)

// GetByID implements store.GroupStore.GetByID.
func (s *PostgresGroupStore) GetByID(ctx context.Context, id int) (*domain.Group, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, name, target_verses FROM groups WHERE id = $1`

	var group domain.Group
	err := s.db.QueryRowContext(ctx, query, id).Scan(&group.ID, &group.Name, &group.TargetVerses)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("group not found", slog.Int("group_id", id))
			return nil, store.ErrGroupNotFound
		}
		log.Error("failed to get group by ID",
			slog.String("error", err.Error()),
			slog.Int("group_id", id))
		return nil, mapStoreFailure("get group", err)
	}

	return &group, nil
}

// List implements store.GroupStore.List. Results are ordered by ID.
func (s *PostgresGroupStore) List(ctx context.Context) ([]*domain.Group, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, target_verses FROM groups ORDER BY id`)
	if err != nil {
		log.Error("failed to query groups", slog.String("error", err.Error()))
		return nil, mapStoreFailure("query groups", err)
	}
	defer closeRows(rows, log)

	groups := []*domain.Group{}
	for rows.Next() {
		var group domain.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.TargetVerses); err != nil {
			log.Error("failed to scan group row", slog.String("error", err.Error()))
			return nil, mapStoreFailure("query groups", err)
		}
		groups = append(groups, &group)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreFailure("query groups", err)
	}

	return groups, nil
}
