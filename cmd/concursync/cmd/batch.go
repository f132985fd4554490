package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"concursync/internal/app/engine"
	"concursync/internal/domain/entity"
)

var (
	batchLimit int
	batchAfter string
	batchMode  string
)

var batchCmd = &cobra.Command{
	Use:   "batch [entity...]",
	Short: "Пакетная отправка",
	Long: `Отправляет сущности пакетом. Без аргументов обрабатываются все типы
из SYNC_ENTITIES, а если переменная пуста, то все поддерживаемые типы.

Режим auto сначала создает сущности, которых нет в журнале отправки,
затем обновляет отправленные ранее. Режимы create и update выполняют
только одну фазу и требуют ровно один тип сущности.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkLimit(batchLimit); err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		limit := batchLimit
		if !cmd.Flags().Changed("limit") {
			limit = a.Config().Sync.BatchLimit
		}

		if batchMode != "auto" {
			return runPhase(cmd, a.Engine(), args, limit)
		}

		types := args
		if len(types) == 0 {
			types = a.Config().Sync.Entities
		}

		var runs []engine.Run
		if len(types) == 1 && batchAfter != "" {
			run, err := a.Engine().Run(cmd.Context(), types[0], limit, batchAfter)
			if err != nil && run.ID == "" {
				return err
			}
			runs = []engine.Run{run}
		} else {
			runs = a.Engine().RunAll(cmd.Context(), types, limit)
		}

		if useJSON() {
			return printJSON(os.Stdout, runs)
		}
		for _, run := range runs {
			printRun(os.Stdout, run)
		}
		return nil
	},
}

func runPhase(cmd *cobra.Command, eng *engine.Engine, args []string, limit int) error {
	if len(args) != 1 {
		return fmt.Errorf("режим %s требует ровно один тип сущности", batchMode)
	}
	svc, err := eng.Service(args[0])
	if err != nil {
		return err
	}

	var res entity.BatchResult
	switch batchMode {
	case string(entity.OpCreate):
		res, err = svc.BatchCreate(cmd.Context(), limit, batchAfter)
	case string(entity.OpUpdate):
		res, err = svc.BatchUpdate(cmd.Context(), limit, batchAfter)
	default:
		return fmt.Errorf("неизвестный режим %q", batchMode)
	}
	if err != nil {
		return err
	}

	if useJSON() {
		return printJSON(os.Stdout, res)
	}
	printBatch(os.Stdout, args[0]+" "+batchMode, res)
	return nil
}

// checkLimit отрицательный лимит отклоняется так же, как SYNC_BATCH_LIMIT в конфигурации
func checkLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("--limit не может быть отрицательным: %d", limit)
	}
	return nil
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "сколько сущностей отправить в каждой фазе; 0 без ограничения")
	batchCmd.Flags().StringVar(&batchAfter, "after", "", "обрабатывать только ключи строго после этого")
	batchCmd.Flags().StringVar(&batchMode, "mode", "auto", "режим: auto, create, update")
}
