package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"concursync/internal/domain/sendlog"
)

type SendLogRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSendLogRepository создает журнал отправки поверх SQLite
func NewSendLogRepository(db *sql.DB, log *slog.Logger) *SendLogRepository {
	return &SendLogRepository{
		db:  db,
		log: log.With("component", "sendlog_repository"),
	}
}

func (r *SendLogRepository) Exists(ctx context.Context, entityType, key string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM send_log WHERE entity_type = ? AND entity_key = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, entityType, key).Scan(&exists); err != nil {
		r.log.Error("failed to check send log", "entity_type", entityType, "key", key, "error", err)
		return false, fmt.Errorf("check send log: %w", err)
	}
	return exists, nil
}

func (r *SendLogRepository) Insert(ctx context.Context, entry sendlog.Entry) error {
	const query = `INSERT INTO send_log (entity_type, entity_key, last_sent_at) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, entry.EntityType, entry.EntityKey, entry.LastSentAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return sendlog.ErrDuplicate
		}
		r.log.Error("failed to insert send log entry",
			"entity_type", entry.EntityType, "key", entry.EntityKey, "error", err)
		return fmt.Errorf("insert send log entry: %w", err)
	}
	return nil
}

func (r *SendLogRepository) Update(ctx context.Context, entry sendlog.Entry) error {
	const query = `UPDATE send_log SET last_sent_at = ? WHERE entity_type = ? AND entity_key = ?`

	result, err := r.db.ExecContext(ctx, query, entry.LastSentAt.UTC(), entry.EntityType, entry.EntityKey)
	if err != nil {
		r.log.Error("failed to update send log entry",
			"entity_type", entry.EntityType, "key", entry.EntityKey, "error", err)
		return fmt.Errorf("update send log entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update send log entry: %w", err)
	}
	if affected == 0 {
		return sendlog.ErrNotFound
	}
	return nil
}

func (r *SendLogRepository) List(ctx context.Context, entityType string, limit int, afterKey string) ([]sendlog.Entry, error) {
	query := `
		SELECT entity_type, entity_key, last_sent_at
		FROM send_log
		WHERE entity_type = ? AND entity_key > ?
		ORDER BY entity_key`
	args := []any{entityType, afterKey}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list send log", "entity_type", entityType, "error", err)
		return nil, fmt.Errorf("list send log: %w", err)
	}
	defer rows.Close()

	var entries []sendlog.Entry
	for rows.Next() {
		var e sendlog.Entry
		if err := rows.Scan(&e.EntityType, &e.EntityKey, &e.LastSentAt); err != nil {
			return nil, fmt.Errorf("scan send log: %w", err)
		}
		e.LastSentAt = e.LastSentAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list send log: %w", err)
	}
	return entries, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
