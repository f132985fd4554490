package storage

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concursync/internal/domain/catalog"
	"concursync/internal/domain/schema"
)

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources()

	for _, typ := range catalog.New(catalog.Config{}).Types() {
		src, err := sources.Get(typ)
		require.NoError(t, err, typ)
		assert.NotEmpty(t, src.Table)
		assert.NotEmpty(t, src.KeyColumn)
	}

	po, err := sources.Get(catalog.TypePurchaseOrder)
	require.NoError(t, err)
	assert.True(t, po.HasDetail())

	vendor, err := sources.Get(catalog.TypeVendor)
	require.NoError(t, err)
	assert.False(t, vendor.HasDetail())

	_, err = sources.Get("expense_report")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"VendorCode"`, QuoteIdent("VendorCode"))
	assert.Equal(t, `"a""b"`, QuoteIdent(`a"b`))
}

func TestColumns(t *testing.T) {
	cols, vals := Columns(schema.Record{
		"InvoiceNumber": "1001",
		"ID":            "INV1",
		DetailField:     []schema.Record{{"RequestLineItemNumber": 1}},
	})

	assert.Equal(t, []string{"ID", "InvoiceNumber"}, cols)
	assert.Equal(t, []any{"INV1", "1001"}, vals)
}

func TestRecordKey(t *testing.T) {
	src := Source{Table: "invoices", KeyColumn: "ID"}

	key, err := RecordKey(src, schema.Record{"ID": " INV1 "})
	require.NoError(t, err)
	assert.Equal(t, "INV1", key)

	_, err = RecordKey(src, schema.Record{"ID": ""})
	assert.ErrorIs(t, err, ErrMissingKey)

	_, err = RecordKey(src, schema.Record{})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestWriteQueries(t *testing.T) {
	dollar := func(n int) string { return "$" + strconv.Itoa(n) }
	question := func(int) string { return "?" }

	assert.Equal(t,
		`INSERT INTO "invoices" ("ID", "InvoiceNumber") VALUES ($1, $2) ON CONFLICT ("ID") DO UPDATE SET "InvoiceNumber" = excluded."InvoiceNumber"`,
		UpsertQuery("invoices", "ID", []string{"ID", "InvoiceNumber"}, dollar))

	assert.Equal(t,
		`INSERT INTO "invoices" ("ID") VALUES (?) ON CONFLICT ("ID") DO NOTHING`,
		UpsertQuery("invoices", "ID", []string{"ID"}, question))

	assert.Equal(t,
		`DELETE FROM "invoice_lines" WHERE "InvoiceID" = $1`,
		DeleteQuery("invoice_lines", "InvoiceID", dollar))
}
