package cmd

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Запустить HTTP API",
	Long:        `Запускает операторское HTTP API на RUN_ADDRESS. Остановка по SIGINT/SIGTERM.`,
	Annotations: map[string]string{annotationServiceLogs: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Serve(cmd.Context())
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Пакетные прогоны по расписанию",
	Long: `Запускает пакетные прогоны по расписанию SYNC_SCHEDULE в формате cron
(например "0 2 * * *" или "@every 1h") для типов из SYNC_ENTITIES.`,
	Annotations: map[string]string{annotationServiceLogs: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Schedule(cmd.Context())
	},
}
