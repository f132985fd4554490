package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"concursync/internal/infrastructure/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить миграции локальной базы",
	RunE: func(_ *cobra.Command, _ []string) error {
		mg := migration.NewMigration(cfg, migration.DefaultEngine)
		if err := mg.Up(); err != nil {
			return fmt.Errorf("ошибка миграции: %w", err)
		}

		version, dirty, err := mg.Version()
		if err != nil {
			return err
		}

		if useJSON() {
			return printJSON(os.Stdout, map[string]any{"version": version, "dirty": dirty})
		}
		fmt.Printf("%s схема базы: версия %d\n", okMark("✓"), version)
		return nil
	},
}
