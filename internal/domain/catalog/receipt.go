package catalog

import (
	"strings"

	"concursync/internal/domain/entity"
	"concursync/internal/domain/response"
	"concursync/internal/domain/schema"
)

// ReceiptKeySep разделитель составного ключа приемки: "<номер заказа>:<номер строки>"
const ReceiptKeySep = ":"

var receiptSchema = schema.Schema{
	schema.ScalarField{Name: "PurchaseOrderNumber"},
	schema.ScalarField{Name: "LineNumber"},
	schema.ScalarField{Name: "LineItemExternalID"},
	schema.ScalarField{Name: "ReceivedDate", Format: schema.FormatDate, DateFormat: "Y-m-d"},
	schema.ScalarField{Name: "ReceivedQuantity"},
}

// receipt приемки только PUT и без GET, поэтому существование берется из журнала
func receipt(base string) entity.Definition {
	return entity.Definition{
		Type:     TypeReceipt,
		KeyField: "ReceiptKey",
		Schema:   receiptSchema,
		Endpoints: entity.Endpoints{
			Entity: endpoint(base, "/api/v3.0/invoice/purchaseorderreceipts"),
		},
		CreateMethod: "PUT",
		UpdateMethod: "PUT",
		ExistsBy:     entity.ExistsSendLog,
		Rules: response.Rules{
			Prefix: receiptPrefix,
		},
	}
}

func receiptPrefix(key string, raw response.Raw) string {
	po := raw.String("PurchaseOrderNumber")
	if po == "" {
		po, _, _ = strings.Cut(key, ReceiptKeySep)
	}
	return "PO # " + po
}

// ReceiptKey составной ключ приемки
func ReceiptKey(poNumber, lineNumber string) string {
	return poNumber + ReceiptKeySep + lineNumber
}
