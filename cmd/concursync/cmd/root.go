package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"concursync/internal/app"
	"concursync/internal/config"
	"concursync/internal/utils/logger"
)

// annotationServiceLogs команды, которые пишут журнал в stdout и без --debug
const annotationServiceLogs = "service-logs"

var (
	cfgFile    string
	debug      bool
	jsonOutput bool

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "concursync",
	Short: "concursync - выгрузка данных ERP в SAP Concur",
	Long: `concursync отправляет поставщиков, заказы на закупку, приемки,
счета и элементы списков из локальной базы в Concur REST API.

Каждая успешная отправка отмечается в журнале, поэтому повторный
пакетный прогон создает только новые сущности и обновляет остальные.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	switch {
	case debug:
		log = logger.New(config.EnvLocal, "debug")
	case cmd.Annotations[annotationServiceLogs] != "":
		log = logger.New(cfg.Env, cfg.Logger.LogLevel)
	default:
		log = logger.Discard()
	}
	return nil
}

// openApp открывает хранилище и собирает движок; закрыть вызывающий
func openApp(cmd *cobra.Command) (*app.App, error) {
	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации приложения: %w", err)
	}
	return a, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл (yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "подробный журнал в stdout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")

	rootCmd.AddCommand(
		sendCmd,
		batchCmd,
		existsCmd,
		getCmd,
		listCmd,
		importCmd,
		pullCmd,
		logCmd,
		serveCmd,
		scheduleCmd,
		migrateCmd,
	)
}
