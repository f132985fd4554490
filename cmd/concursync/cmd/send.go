package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"concursync/internal/domain/entity"
	"concursync/internal/domain/response"
)

var (
	sendOp      string
	sendPreview bool
)

var sendCmd = &cobra.Command{
	Use:   "send <entity> <key>",
	Short: "Отправить одну сущность",
	Long: `Отправляет одну сущность из локальной базы.

По умолчанию (--op auto) сначала проверяется, есть ли сущность в Concur,
и выбирается создание или обновление. С --preview печатается тело запроса
без отправки.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		svc, err := a.Engine().Service(args[0])
		if err != nil {
			return err
		}

		if sendPreview {
			op := entity.OpCreate
			if entity.Op(sendOp) == entity.OpUpdate {
				op = entity.OpUpdate
			}
			payload, err := svc.Preview(cmd.Context(), args[1], op)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, payload)
		}

		var out response.Outcome
		switch sendOp {
		case string(entity.OpCreate):
			out = svc.Create(cmd.Context(), args[1])
		case string(entity.OpUpdate):
			out = svc.Update(cmd.Context(), args[1])
		case "auto":
			out = svc.SendOneAuto(cmd.Context(), args[1])
		default:
			return fmt.Errorf("неизвестная операция %q", sendOp)
		}

		if useJSON() {
			return printJSON(os.Stdout, out)
		}
		printOutcome(os.Stdout, out)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendOp, "op", "auto", "операция: auto, create, update")
	sendCmd.Flags().BoolVar(&sendPreview, "preview", false, "только показать тело запроса")
}
