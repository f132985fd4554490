package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"concursync/internal/domain/sendlog"
)

const uniqueViolation = "23505"

type SendLogRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewSendLogRepository создает журнал отправки поверх пула pgx
func NewSendLogRepository(pool *pgxpool.Pool, log *slog.Logger) *SendLogRepository {
	return &SendLogRepository{
		pool: pool,
		log:  log.With("component", "sendlog_repository"),
	}
}

func (r *SendLogRepository) Exists(ctx context.Context, entityType, key string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM send_log WHERE entity_type = $1 AND entity_key = $2
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, entityType, key).Scan(&exists); err != nil {
		r.log.Error("failed to check send log", "entity_type", entityType, "key", key, "error", err)
		return false, fmt.Errorf("check send log: %w", err)
	}
	return exists, nil
}

func (r *SendLogRepository) Insert(ctx context.Context, entry sendlog.Entry) error {
	const query = `
		INSERT INTO send_log (entity_type, entity_key, last_sent_at)
		VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, entry.EntityType, entry.EntityKey, entry.LastSentAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sendlog.ErrDuplicate
		}
		r.log.Error("failed to insert send log entry",
			"entity_type", entry.EntityType, "key", entry.EntityKey, "error", err)
		return fmt.Errorf("insert send log entry: %w", err)
	}
	return nil
}

func (r *SendLogRepository) Update(ctx context.Context, entry sendlog.Entry) error {
	const query = `
		UPDATE send_log SET last_sent_at = $3
		WHERE entity_type = $1 AND entity_key = $2`

	result, err := r.pool.Exec(ctx, query, entry.EntityType, entry.EntityKey, entry.LastSentAt)
	if err != nil {
		r.log.Error("failed to update send log entry",
			"entity_type", entry.EntityType, "key", entry.EntityKey, "error", err)
		return fmt.Errorf("update send log entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sendlog.ErrNotFound
	}
	return nil
}

func (r *SendLogRepository) List(ctx context.Context, entityType string, limit int, afterKey string) ([]sendlog.Entry, error) {
	query := `
		SELECT entity_type, entity_key, last_sent_at
		FROM send_log
		WHERE entity_type = $1 AND entity_key > $2
		ORDER BY entity_key`
	args := []any{entityType, afterKey}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list send log", "entity_type", entityType, "error", err)
		return nil, fmt.Errorf("list send log: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (sendlog.Entry, error) {
		var e sendlog.Entry
		err := row.Scan(&e.EntityType, &e.EntityKey, &e.LastSentAt)
		e.LastSentAt = e.LastSentAt.UTC()
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan send log: %w", err)
	}
	return entries, nil
}
