// Package storage описывает, где в локальной базе лежат исходные записи каждого типа сущности.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"concursync/internal/domain/catalog"
)

var ErrUnknownSource = errors.New("no source table for entity type")

// Source таблица исходных записей одного типа сущности
type Source struct {
	Table     string
	KeyColumn string
	// DetailTable таблица вложенных строк; пусто, если строк нет
	DetailTable string
	// DetailKeyColumn колонка строки со ссылкой на ключ заголовка
	DetailKeyColumn string
	DetailOrder     string
}

func (s Source) HasDetail() bool {
	return s.DetailTable != ""
}

type Sources map[string]Source

// DefaultSources раскладка таблиц из migrations/
func DefaultSources() Sources {
	return Sources{
		catalog.TypeVendor: {
			Table:     "vendors",
			KeyColumn: "VendorCode",
		},
		catalog.TypePurchaseOrder: {
			Table:           "purchase_orders",
			KeyColumn:       "PurchaseOrderNumber",
			DetailTable:     "purchase_order_lines",
			DetailKeyColumn: "PurchaseOrderNumber",
			DetailOrder:     "LineNumber",
		},
		catalog.TypeReceipt: {
			Table:     "po_receipts",
			KeyColumn: "ReceiptKey",
		},
		catalog.TypeInvoice: {
			Table:           "invoices",
			KeyColumn:       "ID",
			DetailTable:     "invoice_lines",
			DetailKeyColumn: "InvoiceID",
			DetailOrder:     "RequestLineItemNumber",
		},
		catalog.TypeListItem: {
			Table:     "list_items",
			KeyColumn: "ID",
		},
	}
}

func (s Sources) Get(entityType string) (Source, error) {
	src, ok := s[entityType]
	if !ok {
		return Source{}, fmt.Errorf("%w: %s", ErrUnknownSource, entityType)
	}
	return src, nil
}

// QuoteIdent экранирует имя колонки или таблицы двойными кавычками
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// DetailField ключ, под которым строки кладутся в запись
const DetailField = catalog.DetailKey
