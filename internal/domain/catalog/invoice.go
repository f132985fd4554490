package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"concursync/internal/domain/entity"
	"concursync/internal/domain/response"
	"concursync/internal/domain/schema"
)

const searchDateLayout = "2006-01-02"

// Форматы дат, которые принимаются в параметрах поиска счетов
var searchDateInputs = []string{
	searchDateLayout,
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"20060102",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

var invoiceLineSchema = schema.Schema{
	schema.ScalarField{Name: "LineItemId"},
	schema.ScalarField{Name: "RequestLineItemNumber"},
	schema.ScalarField{Name: "Quantity"},
	schema.ScalarField{Name: "Description"},
	schema.ScalarField{Name: "SupplierPartId"},
	schema.ScalarField{Name: "UnitPrice", Format: schema.FormatCurrency},
	schema.ScalarField{Name: "TotalPrice", Format: schema.FormatCurrency},
	schema.ScalarField{Name: "AmountWithoutVat", Format: schema.FormatCurrency},
	schema.ScalarField{Name: "Custom9", SourceKey: "Location"},
	schema.ScalarField{Name: "PurchaseOrderNumber"},
}

var invoiceSchema = schema.Schema{
	schema.ScalarField{Name: "InvoiceNumber", Format: schema.FormatString},
	schema.ScalarField{Name: "CountryCode"},
	schema.ScalarField{Name: "OB10TransactionId"},
	schema.ScalarField{Name: "CheckNumber"},
	schema.ScalarField{Name: "PaymentTermsDays"},
	schema.ScalarField{Name: "CreatedByUsername"},
	schema.ScalarField{Name: "InvoiceDate"},
	schema.ScalarField{Name: "PaymentDueDate"},
	schema.ScalarField{Name: "InvoiceReceivedDate"},
	schema.ScalarField{Name: "InvoiceAmount", Format: schema.FormatCurrency},
	schema.ScalarField{Name: "CalculatedAmount", Format: schema.FormatCurrency},
	schema.ScalarField{Name: "TotalApprovedAmount", Format: schema.FormatCurrency},
	schema.ScalarField{Name: "ShippingAmount", Format: schema.FormatCurrency},
	schema.ScalarField{Name: "TaxAmount", Format: schema.FormatCurrency},
	schema.ScalarField{Name: "LineItemTotalAmount", Format: schema.FormatCurrency},
	schema.ScalarField{Name: "PurchaseOrderNumber", Format: schema.FormatString},
	schema.ScalarField{Name: "Custom9", SourceKey: "Location"},
	schema.ScalarField{Name: "AmountWithoutVat", Format: schema.FormatCurrency},
	// повторное объявление перекрывает строковый формат выше
	schema.ScalarField{Name: "PurchaseOrderNumber"},
	schema.ScalarField{Name: "ID"},
	schema.ObjectField{Name: "VendorRemitAddress", Children: schema.Schema{
		schema.ScalarField{Name: "Name", SourceKey: "VendorName"},
		schema.ScalarField{Name: "VendorCode"},
		schema.ScalarField{Name: "Address1", SourceKey: "VendorAddress1"},
		schema.ScalarField{Name: "Address2", SourceKey: "VendorAddress2"},
		schema.ScalarField{Name: "Address3", SourceKey: "VendorAddress3"},
		schema.ScalarField{Name: "City", SourceKey: "VendorCity"},
		schema.ScalarField{Name: "State", SourceKey: "VendorState"},
		schema.ScalarField{Name: "PostalCode", SourceKey: "VendorZip"},
		schema.ScalarField{Name: "CountryCode", SourceKey: "VendorCountry"},
	}},
	schema.ObjectField{Name: "LineItems", Children: schema.Schema{
		schema.ListField{Name: "LineItem", SourceKey: DetailKey, Element: invoiceLineSchema},
	}},
}

func invoice(base string) entity.Definition {
	return entity.Definition{
		Type:     TypeInvoice,
		KeyField: "ID",
		Schema:   invoiceSchema,
		Endpoints: entity.Endpoints{
			Search: endpoint(base, "/api/v3.0/invoice/paymentrequestdigests"),
			Entity: endpoint(base, "/api/v3.0/invoice/paymentrequest"),
		},
		Prepare:   prepareInvoice,
		Unmap:     invoiceRecord,
		ListItems: "PaymentRequestDigest",
	}
}

// Колонки invoices и поля ответа paymentrequest, из которых они берутся
var (
	invoiceHeaderColumns = map[string]string{
		"ID":                  "ID",
		"InvoiceNumber":       "InvoiceNumber",
		"InvoiceDate":         "InvoiceDate",
		"PurchaseOrderNumber": "PurchaseOrderNumber",
		"CurrencyCode":        "CurrencyCode",
		"InvoiceAmount":       "InvoiceAmount",
		"Location":            "Custom9",
	}
	invoiceRemitColumns = map[string]string{
		"VendorCode":     "VendorCode",
		"VendorName":     "Name",
		"VendorAddress1": "Address1",
		"VendorAddress2": "Address2",
		"VendorCity":     "City",
		"VendorState":    "State",
		"VendorZip":      "PostalCode",
		"VendorCountry":  "CountryCode",
	}
	invoiceLineColumns = map[string]string{
		"PurchaseOrderNumber": "PurchaseOrderNumber",
		"SupplierPartId":      "SupplierPartId",
		"Description":         "Description",
		"Quantity":            "Quantity",
		"UnitPrice":           "UnitPrice",
		"TotalPrice":          "TotalPrice",
	}
)

// invoiceRecord раскладывает счет из Concur по колонкам invoices и invoice_lines.
// Пустые поля пропускаются, строки без номера строки отбрасываются.
func invoiceRecord(raw response.Raw) schema.Record {
	rec := schema.Record{}
	copyColumns(rec, raw, invoiceHeaderColumns)
	if remit, ok := raw.Object("VendorRemitAddress"); ok {
		copyColumns(rec, remit, invoiceRemitColumns)
	}

	var items []response.Raw
	if container, ok := raw.Object("LineItems"); ok {
		items = container.Items("LineItem")
	}

	lines := make([]schema.Record, 0, len(items))
	for _, item := range items {
		number, err := strconv.Atoi(item.String("RequestLineItemNumber"))
		if err != nil {
			continue
		}
		line := schema.Record{"RequestLineItemNumber": number}
		copyColumns(line, item, invoiceLineColumns)
		lines = append(lines, line)
	}
	rec[DetailKey] = lines
	return rec
}

func copyColumns(dst schema.Record, src response.Raw, columns map[string]string) {
	for column, field := range columns {
		if src.Has(field) {
			dst[column] = src[field]
		}
	}
}

// prepareInvoice строка без номера заказа наследует номер заказа из заголовка
func prepareInvoice(rec schema.Record) schema.Record {
	lines, ok := records(rec[DetailKey])
	if !ok {
		return rec
	}

	header := rec["PurchaseOrderNumber"]
	out := clone(rec)
	prepared := make([]schema.Record, len(lines))
	for i, line := range lines {
		if blank(line["PurchaseOrderNumber"]) && !blank(header) {
			line = clone(line)
			line["PurchaseOrderNumber"] = header
		}
		prepared[i] = line
	}
	out[DetailKey] = prepared
	return out
}

// NormalizeSearchDate приводит дату к YYYY-MM-DD; пустая строка означает сегодня
func NormalizeSearchDate(value string, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.Format(searchDateLayout), nil
	}
	for _, layout := range searchDateInputs {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(searchDateLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", value)
}

// InvoiceSearchQuery параметры поиска счетов по дате создания; пустые границы опускаются
func InvoiceSearchQuery(createdAfter, createdBefore string, now time.Time) (url.Values, error) {
	q := url.Values{}
	if createdAfter == "" && createdBefore == "" {
		createdAfter = now.Format(searchDateLayout)
	}
	if createdAfter != "" {
		d, err := NormalizeSearchDate(createdAfter, now)
		if err != nil {
			return nil, err
		}
		q.Set("createDateAfter", d)
	}
	if createdBefore != "" {
		d, err := NormalizeSearchDate(createdBefore, now)
		if err != nil {
			return nil, err
		}
		q.Set("createDateBefore", d)
	}
	return q, nil
}
