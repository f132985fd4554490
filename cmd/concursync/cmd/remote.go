package cmd

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"concursync/internal/domain/catalog"
)

var (
	listAfter  string
	listBefore string
)

var existsCmd = &cobra.Command{
	Use:   "exists <entity> <key>",
	Short: "Проверить, есть ли сущность в Concur",
	Args:  cobra.ExactArgs(2),
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
		ok, err := svc.ExistsRemotely(cmd.Context(), args[1])
		if err != nil {
			return err
		}

		if useJSON() {
			return printJSON(os.Stdout, map[string]any{"key": args[1], "exists": ok})
		}
		if ok {
			fmt.Printf("%s %s есть в Concur\n", okMark("✓"), args[1])
		} else {
			fmt.Printf("%s %s нет в Concur\n", failMark("✗"), args[1])
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <entity> <key>",
	Short: "Получить сущность из Concur",
	Args:  cobra.ExactArgs(2),
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
		raw, err := svc.GetOne(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, raw)
	},
}

var listCmd = &cobra.Command{
	Use:   "list <entity>",
	Short: "Список сущностей в Concur",
	Long: `Проходит все страницы списка. Для счетов (invoice) отбор идет по дате
создания: --after по умолчанию сегодня, даты приводятся к YYYY-MM-DD.`,
	Args: cobra.ExactArgs(1),
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

		query, err := searchQuery(args[0])
		if err != nil {
			return err
		}

		items, err := svc.ListRemote(cmd.Context(), query)
		if err != nil {
			return err
		}
		if useJSON() {
			return printJSON(os.Stdout, items)
		}
		fmt.Printf("Найдено: %d\n", len(items))
		return printJSON(os.Stdout, items)
	},
}

var importCmd = &cobra.Command{
	Use:   "import [entity]",
	Short: "Отметить в журнале сущности, уже существующие в Concur",
	Long: `Читает полный список сущностей из Concur и записывает каждый ключ
в журнал отправки. После импорта пакетный прогон будет обновлять эти
сущности, а не создавать их заново. По умолчанию импортируются поставщики.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityType := catalog.TypeVendor
		if len(args) == 1 {
			entityType = args[0]
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		svc, err := a.Engine().Service(entityType)
		if err != nil {
			return err
		}
		n, err := svc.ImportRemoteKeys(cmd.Context())
		if err != nil {
			return err
		}

		if useJSON() {
			return printJSON(os.Stdout, map[string]int{"imported": n})
		}
		fmt.Printf("%s импортировано ключей: %d\n", okMark("✓"), n)
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull [entity]",
	Short: "Загрузить сущности из Concur в локальную базу",
	Long: `Проходит список сущностей в Concur, запрашивает каждую целиком и
сохраняет заголовок и строки в локальные таблицы. Строки счета без номера
заказа получают номер заказа из заголовка. По умолчанию загружаются счета,
созданные начиная с сегодняшнего дня (см. --after и --before).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityType := catalog.TypeInvoice
		if len(args) == 1 {
			entityType = args[0]
		}

		query, err := searchQuery(entityType)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		svc, err := a.Engine().Service(entityType)
		if err != nil {
			return err
		}
		res, err := svc.ImportRecords(cmd.Context(), query)
		if err != nil {
			return err
		}

		if useJSON() {
			return printJSON(os.Stdout, res)
		}
		printBatch(os.Stdout, entityType+" загрузка", res)
		return nil
	},
}

// searchQuery параметры списка из флагов --after/--before; только для счетов
func searchQuery(entityType string) (url.Values, error) {
	if entityType != catalog.TypeInvoice {
		return nil, nil
	}
	return catalog.InvoiceSearchQuery(listAfter, listBefore, time.Now())
}

func init() {
	for _, c := range []*cobra.Command{listCmd, pullCmd} {
		c.Flags().StringVar(&listAfter, "after", "", "счета, созданные после даты")
		c.Flags().StringVar(&listBefore, "before", "", "счета, созданные до даты")
	}
}
