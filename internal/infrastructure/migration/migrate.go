package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Драйверы регистрируются в migrate через init
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"concursync/internal/config"
)

// Migrator интерфейс для самой библиотеки migrate.Migrate
type Migrator interface {
	Up() error
	Version() (uint, bool, error)
	Close() (error, error)
}

// MigrationEngine фабрика мигратора, в тестах подменяется моком
type MigrationEngine func(sourceURL, databaseURL string) (Migrator, error)

type Migration struct {
	cfg    *config.Config
	engine MigrationEngine
}

// NewMigration создает мигратор для выбранного драйвера
func NewMigration(conf *config.Config, engine MigrationEngine) *Migration {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Migration{
		cfg:    conf,
		engine: engine,
	}
}

func DefaultEngine(sourceURL, databaseURL string) (Migrator, error) {
	return migrate.New(sourceURL, databaseURL)
}

// Up применяет все новые миграции, отсутствие изменений ошибкой не считается
func (mg *Migration) Up() (err error) {
	m, err := mg.engine(mg.cfg.MigrationsURL(), mg.cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer func() {
		err = closeMigrator(m, err)
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}

// Version текущая версия схемы; dirty означает прерванную миграцию
func (mg *Migration) Version() (version uint, dirty bool, err error) {
	m, err := mg.engine(mg.cfg.MigrationsURL(), mg.cfg.DatabaseURL())
	if err != nil {
		return 0, false, err
	}
	defer func() {
		err = closeMigrator(m, err)
	}()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration version: %w", err)
	}
	return version, dirty, nil
}

func closeMigrator(m Migrator, err error) error {
	serr, dberr := m.Close()
	if serr != nil {
		if err != nil {
			err = fmt.Errorf("%w; migration source error: %v", err, serr)
		} else {
			err = serr
		}
	}
	if dberr != nil {
		if err != nil {
			err = fmt.Errorf("%w; migration database error: %v", err, dberr)
		} else {
			err = dberr
		}
	}
	return err
}
