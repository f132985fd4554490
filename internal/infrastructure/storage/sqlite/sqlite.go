// Package sqlite локальное хранилище записей и журнала отправки в одном файле SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Регистрация драйвера database/sql
	_ "github.com/mattn/go-sqlite3"

	"concursync/internal/config"
	"concursync/internal/infrastructure/migration"
)

const dsnOptions = "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"

type Storage struct {
	db *sql.DB
}

// New применяет миграции и открывает базу
func New(cfg *config.Config) (*Storage, error) {
	mg := migration.NewMigration(cfg, migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DB.SQLitePath+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite допускает одного писателя
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
