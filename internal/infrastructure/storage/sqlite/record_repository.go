package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"concursync/internal/domain/entity"
	"concursync/internal/domain/schema"
	"concursync/internal/infrastructure/storage"
)

type RecordRepository struct {
	db      *sql.DB
	sources storage.Sources
	log     *slog.Logger
}

var (
	_ entity.Store        = (*RecordRepository)(nil)
	_ entity.RecordWriter = (*RecordRepository)(nil)
)

// NewRecordRepository создает репозиторий; nil sources означает DefaultSources
func NewRecordRepository(db *sql.DB, sources storage.Sources, log *slog.Logger) *RecordRepository {
	if sources == nil {
		sources = storage.DefaultSources()
	}
	return &RecordRepository{
		db:      db,
		sources: sources,
		log:     log.With("component", "record_repository"),
	}
}

func (r *RecordRepository) NewKeys(ctx context.Context, entityType string, limit int, afterKey string) ([]string, error) {
	return r.keys(ctx, entityType, limit, afterKey, false)
}

func (r *RecordRepository) LoggedKeys(ctx context.Context, entityType string, limit int, afterKey string) ([]string, error) {
	return r.keys(ctx, entityType, limit, afterKey, true)
}

func (r *RecordRepository) keys(ctx context.Context, entityType string, limit int, afterKey string, logged bool) ([]string, error) {
	src, err := r.sources.Get(entityType)
	if err != nil {
		return nil, err
	}

	key := "CAST(t." + storage.QuoteIdent(src.KeyColumn) + " AS TEXT)"
	cond := "NOT EXISTS"
	if logged {
		cond = "EXISTS"
	}

	query := fmt.Sprintf(`
		SELECT %[2]s
		FROM %[1]s t
		WHERE %[3]s (
			SELECT 1 FROM send_log s
			WHERE s.entity_type = ? AND s.entity_key = %[2]s
		)
		AND %[2]s > ?
		ORDER BY %[2]s`, storage.QuoteIdent(src.Table), key, cond)

	args := []any{entityType, afterKey}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list keys", "entity_type", entityType, "logged", logged, "error", err)
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

func (r *RecordRepository) Record(ctx context.Context, entityType, key string) (schema.Record, error) {
	src, err := r.sources.Get(entityType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT * FROM %s WHERE CAST(%s AS TEXT) = ?`,
		storage.QuoteIdent(src.Table), storage.QuoteIdent(src.KeyColumn))

	recs, err := r.query(ctx, query, key)
	if err != nil {
		r.log.Error("failed to get record", "entity_type", entityType, "key", key, "error", err)
		return nil, fmt.Errorf("get record: %w", err)
	}
	if len(recs) == 0 {
		return nil, entity.ErrRecordNotFound
	}
	rec := recs[0]

	if !src.HasDetail() {
		return rec, nil
	}

	query = fmt.Sprintf(`SELECT * FROM %s WHERE CAST(%s AS TEXT) = ?`,
		storage.QuoteIdent(src.DetailTable), storage.QuoteIdent(src.DetailKeyColumn))
	if src.DetailOrder != "" {
		query += " ORDER BY " + storage.QuoteIdent(src.DetailOrder)
	}

	lines, err := r.query(ctx, query, key)
	if err != nil {
		r.log.Error("failed to get detail rows", "table", src.DetailTable, "key", key, "error", err)
		return nil, fmt.Errorf("get detail rows: %w", err)
	}
	if lines == nil {
		lines = []schema.Record{}
	}
	rec[storage.DetailField] = lines
	return rec, nil
}

// query читает строки в записи по именам колонок
func (r *RecordRepository) query(ctx context.Context, query string, args ...any) ([]schema.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []schema.Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := make(schema.Record, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = values[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return out, nil
}

// SaveRecord обновляет заголовок записи и заменяет ее строки в одной транзакции
func (r *RecordRepository) SaveRecord(ctx context.Context, entityType string, rec schema.Record) (err error) {
	src, err := r.sources.Get(entityType)
	if err != nil {
		return err
	}
	key, err := storage.RecordKey(src, rec)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	columns, values := storage.Columns(rec)
	if _, err = tx.ExecContext(ctx, storage.UpsertQuery(src.Table, src.KeyColumn, columns, placeholder), values...); err != nil {
		r.log.Error("failed to save record", "entity_type", entityType, "key", key, "error", err)
		return fmt.Errorf("save record: %w", err)
	}

	if src.HasDetail() {
		if _, err = tx.ExecContext(ctx, storage.DeleteQuery(src.DetailTable, src.DetailKeyColumn, placeholder), key); err != nil {
			return fmt.Errorf("delete detail rows: %w", err)
		}
		for _, line := range storage.DetailRows(rec) {
			row := make(schema.Record, len(line)+1)
			for k, v := range line {
				row[k] = v
			}
			row[src.DetailKeyColumn] = key

			cols, vals := storage.Columns(row)
			if _, err = tx.ExecContext(ctx, storage.InsertQuery(src.DetailTable, cols, placeholder), vals...); err != nil {
				r.log.Error("failed to save detail row", "table", src.DetailTable, "key", key, "error", err)
				return fmt.Errorf("save detail row: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func placeholder(int) string {
	return "?"
}
