package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	logLimit int
	logAfter string
)

var logCmd = &cobra.Command{
	Use:   "log <entity>",
	Short: "Журнал отправки",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.Engine().SendLog(cmd.Context(), args[0], logLimit, logAfter)
		if err != nil {
			return err
		}
		if useJSON() {
			return printJSON(os.Stdout, entries)
		}
		return printSendLog(os.Stdout, entries)
	},
}

func init() {
	logCmd.Flags().IntVar(&logLimit, "limit", 100, "размер страницы; 0 без ограничения")
	logCmd.Flags().StringVar(&logAfter, "after", "", "ключ, после которого начинается страница")
}
