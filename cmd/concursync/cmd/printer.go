package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/term"

	"concursync/internal/app/engine"
	"concursync/internal/domain/entity"
	"concursync/internal/domain/response"
	"concursync/internal/domain/sendlog"
)

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	dim      = color.New(color.FgHiBlack).SprintFunc()
	title    = color.New(color.Bold).SprintFunc()
)

// useJSON JSON по флагу или когда stdout не терминал
func useJSON() bool {
	return jsonOutput || !term.IsTerminal(int(os.Stdout.Fd()))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printOutcome(w io.Writer, out response.Outcome) {
	if out.Succeeded {
		fmt.Fprintf(w, "%s %s %s\n", okMark("✓"), out.EntityKey, dim(out.Message))
		return
	}
	fmt.Fprintf(w, "%s %s [%s] %s\n", failMark("✗"), out.EntityKey, out.Kind, out.Message)
}

func printBatch(w io.Writer, name string, res entity.BatchResult) {
	fmt.Fprintf(w, "%s: всего %d, %d успешно, %d с ошибкой\n", title(name), res.Len(), len(res.Success), len(res.Error))
	for _, key := range sortedKeys(res.Error) {
		printOutcome(w, res.Error[key])
	}
}

func printRun(w io.Writer, run engine.Run) {
	if run.Error != "" {
		fmt.Fprintf(w, "%s %s: %s\n", failMark("✗"), title(run.EntityType), run.Error)
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", okMark("●"), title(run.EntityType), dim(run.ID))
	printBatch(w, "  создание", run.Result.Created)
	printBatch(w, "  обновление", run.Result.Updated)
}

func printSendLog(w io.Writer, entries []sendlog.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Журнал пуст")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Ключ\tОтправлено\t\n")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t\n", e.EntityKey, e.LastSentAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func sortedKeys(m map[string]response.Outcome) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
