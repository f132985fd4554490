package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"concursync/internal/domain/entity"
	"concursync/internal/domain/schema"
	"concursync/internal/infrastructure/storage"
)

// RecordRepository читает исходные записи из таблиц migrations/
type RecordRepository struct {
	pool    *pgxpool.Pool
	sources storage.Sources
	log     *slog.Logger
}

var (
	_ entity.Store        = (*RecordRepository)(nil)
	_ entity.RecordWriter = (*RecordRepository)(nil)
)

// NewRecordRepository создает репозиторий; nil sources означает DefaultSources
func NewRecordRepository(pool *pgxpool.Pool, sources storage.Sources, log *slog.Logger) *RecordRepository {
	if sources == nil {
		sources = storage.DefaultSources()
	}
	return &RecordRepository{
		pool:    pool,
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

	query, args := keysQuery(src, entityType, limit, afterKey, logged)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list keys", "entity_type", entityType, "logged", logged, "error", err)
		return nil, fmt.Errorf("list keys: %w", err)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan keys: %w", err)
	}
	return keys, nil
}

// keysQuery ключи таблицы с записью в send_log (logged) или без нее
func keysQuery(src storage.Source, entityType string, limit int, afterKey string, logged bool) (string, []any) {
	table := pgx.Identifier{src.Table}.Sanitize()
	key := "t." + pgx.Identifier{src.KeyColumn}.Sanitize() + "::text"

	cond := "NOT EXISTS"
	if logged {
		cond = "EXISTS"
	}

	query := fmt.Sprintf(`
		SELECT %[2]s
		FROM %[1]s t
		WHERE %[3]s (
			SELECT 1 FROM send_log s
			WHERE s.entity_type = $1 AND s.entity_key = %[2]s
		)
		AND %[2]s > $2
		ORDER BY %[2]s`, table, key, cond)

	args := []any{entityType, afterKey}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}
	return query, args
}

func (r *RecordRepository) Record(ctx context.Context, entityType, key string) (schema.Record, error) {
	src, err := r.sources.Get(entityType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT * FROM %s WHERE %s::text = $1`,
		pgx.Identifier{src.Table}.Sanitize(), pgx.Identifier{src.KeyColumn}.Sanitize())

	rows, err := r.pool.Query(ctx, query, key)
	if err != nil {
		r.log.Error("failed to get record", "entity_type", entityType, "key", key, "error", err)
		return nil, fmt.Errorf("get record: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	rec := normalize(row)

	if !src.HasDetail() {
		return rec, nil
	}

	lines, err := r.details(ctx, src, key)
	if err != nil {
		return nil, err
	}
	rec[storage.DetailField] = lines
	return rec, nil
}

func (r *RecordRepository) details(ctx context.Context, src storage.Source, key string) ([]schema.Record, error) {
	query := fmt.Sprintf(`SELECT * FROM %s WHERE %s::text = $1`,
		pgx.Identifier{src.DetailTable}.Sanitize(), pgx.Identifier{src.DetailKeyColumn}.Sanitize())
	if src.DetailOrder != "" {
		query += " ORDER BY " + pgx.Identifier{src.DetailOrder}.Sanitize()
	}

	rows, err := r.pool.Query(ctx, query, key)
	if err != nil {
		r.log.Error("failed to get detail rows", "table", src.DetailTable, "key", key, "error", err)
		return nil, fmt.Errorf("get detail rows: %w", err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scan detail rows: %w", err)
	}

	lines := make([]schema.Record, 0, len(maps))
	for _, m := range maps {
		lines = append(lines, normalize(m))
	}
	return lines, nil
}

// normalize приводит NUMERIC к float64, остальное оставляет как есть
func normalize(row map[string]any) schema.Record {
	rec := make(schema.Record, len(row))
	for k, v := range row {
		if n, ok := v.(pgtype.Numeric); ok {
			if !n.Valid {
				rec[k] = nil
				continue
			}
			if f, err := n.Float64Value(); err == nil && f.Valid {
				rec[k] = f.Float64
				continue
			}
		}
		rec[k] = v
	}
	return rec
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

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	columns, values := storage.Columns(rec)
	if _, err = tx.Exec(ctx, storage.UpsertQuery(src.Table, src.KeyColumn, columns, placeholder), values...); err != nil {
		r.log.Error("failed to save record", "entity_type", entityType, "key", key, "error", err)
		return fmt.Errorf("save record: %w", err)
	}

	if src.HasDetail() {
		if _, err = tx.Exec(ctx, storage.DeleteQuery(src.DetailTable, src.DetailKeyColumn, placeholder), key); err != nil {
			return fmt.Errorf("delete detail rows: %w", err)
		}
		for _, line := range storage.DetailRows(rec) {
			row := make(schema.Record, len(line)+1)
			for k, v := range line {
				row[k] = v
			}
			row[src.DetailKeyColumn] = key

			cols, vals := storage.Columns(row)
			if _, err = tx.Exec(ctx, storage.InsertQuery(src.DetailTable, cols, placeholder), vals...); err != nil {
				r.log.Error("failed to save detail row", "table", src.DetailTable, "key", key, "error", err)
				return fmt.Errorf("save detail row: %w", err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
