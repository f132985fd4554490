package cmd

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"concursync/internal/app/engine"
	"concursync/internal/domain/entity"
	"concursync/internal/domain/response"
)

func TestPrintRun(t *testing.T) {
	color.NoColor = true

	run := engine.Run{
		ID:         "r1",
		EntityType: "vendor",
		Result: entity.AutoResult{
			Created: entity.NewBatchResult(),
			Updated: entity.NewBatchResult(),
		},
	}
	run.Result.Created.Success["V1"] = response.Outcome{EntityKey: "V1", Succeeded: true}
	run.Result.Created.Error["V2"] = response.Failure("V2", response.KindValidation, "VendorCode: value is required")

	var buf bytes.Buffer
	printRun(&buf, run)

	out := buf.String()
	assert.Contains(t, out, "vendor")
	assert.Contains(t, out, "создание: всего 2, 1 успешно, 1 с ошибкой")
	assert.Contains(t, out, "✗ V2 [validation] VendorCode: value is required")
	assert.Contains(t, out, "обновление: всего 0, 0 успешно, 0 с ошибкой")
}

func TestPrintRunError(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printRun(&buf, engine.Run{EntityType: "invoice", Error: "database is down"})

	assert.Equal(t, "✗ invoice: database is down\n", buf.String())
}

func TestUseJSON(t *testing.T) {
	prev := jsonOutput
	t.Cleanup(func() { jsonOutput = prev })

	jsonOutput = true
	assert.True(t, useJSON())
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"send", "batch", "exists", "get", "list", "import", "pull", "log", "serve", "schedule", "migrate"} {
		assert.True(t, names[want], want)
	}
}
