package catalog

import (
	"concursync/internal/domain/entity"
	"concursync/internal/domain/schema"
)

var purchaseOrderLineSchema = schema.Schema{
	schema.ScalarField{Name: "AccountCode", SourceKey: "ExpenseType"},
	schema.ScalarField{Name: "Description"},
	schema.ScalarField{Name: "ExternalID"},
	schema.ScalarField{Name: "IsReceiptRequired", Default: "Y"},
	schema.ScalarField{Name: "LineNumber"},
	schema.ScalarField{Name: "PurchaseOrderReceiptType", Default: "WQTY"},
	schema.ScalarField{Name: "Quantity"},
	schema.ScalarField{Name: "UnitPrice"},
	schema.ScalarField{Name: "SupplierPartID"},
	schema.ScalarField{Name: "Custom7", SourceKey: "ItemID"},
	// одна аллокация на всю сумму строки
	schema.ListField{Name: "Allocation", Element: schema.Schema{
		schema.ScalarField{Name: "Amount", SourceKey: "LineTotal", Format: schema.FormatCurrency},
	}},
}

var purchaseOrderSchema = schema.Schema{
	schema.ObjectField{Name: "BillToAddress", Children: schema.Schema{
		schema.ScalarField{Name: "Address1", SourceKey: "billtoAddress1"},
		schema.ScalarField{Name: "Address2", SourceKey: "billtoAddress2"},
		schema.ScalarField{Name: "Address3", SourceKey: "billtoAddress3"},
		schema.ScalarField{Name: "City", SourceKey: "billtoCity"},
		schema.ScalarField{Name: "CountryCode", SourceKey: "billtoCountryCode"},
		schema.ScalarField{Name: "ExternalID", SourceKey: "billtoID"},
		schema.ScalarField{Name: "Name", SourceKey: "billtoName"},
		schema.ScalarField{Name: "PostalCode", SourceKey: "billtoZip"},
		schema.ScalarField{Name: "StateProvince", SourceKey: "billtoState"},
	}},
	schema.ScalarField{Name: "CurrencyCode"},
	schema.ScalarField{Name: "OrderDate", Format: schema.FormatDate, DateFormat: "Y-m-d"},
	schema.ScalarField{Name: "ID", SourceKey: "PurchaseOrderNumber"},
	schema.ScalarField{Name: "LedgerCode"},
	schema.ScalarField{Name: "Name", SourceKey: "PurchaseOrderNumber"},
	schema.ScalarField{Name: "PolicyExternalID"},
	schema.ScalarField{Name: "PurchaseOrderNumber"},
	schema.ObjectField{Name: "ShipToAddress", Children: schema.Schema{
		schema.ScalarField{Name: "Address1", SourceKey: "shiptoAddress1"},
		schema.ScalarField{Name: "Address2", SourceKey: "shiptoAddress2"},
		schema.ScalarField{Name: "City", SourceKey: "shiptoCity"},
		schema.ScalarField{Name: "CountryCode", SourceKey: "shiptoCountryCode"},
		schema.ScalarField{Name: "ExternalID", SourceKey: "shiptoID"},
		schema.ScalarField{Name: "Name", SourceKey: "shiptoName"},
		schema.ScalarField{Name: "PostalCode", SourceKey: "shiptoZip"},
		schema.ScalarField{Name: "State", SourceKey: "shiptoState"},
		schema.ScalarField{Name: "StateProvince", SourceKey: "shiptoState"},
	}},
	schema.ScalarField{Name: "VendorCode", SourceKey: "vendorID"},
	schema.ScalarField{Name: "VendorAddressCode", SourceKey: "vendorID"},
	schema.ScalarField{Name: "DiscountTerms"},
	schema.ScalarField{Name: "DiscountPercent"},
	schema.ScalarField{Name: "PaymentTerms"},
	schema.ListField{Name: "LineItem", SourceKey: DetailKey, Element: purchaseOrderLineSchema},
}

func purchaseOrder(base string) entity.Definition {
	target := endpoint(base, "/api/v3.0/invoice/purchaseorders")
	return entity.Definition{
		Type:     TypePurchaseOrder,
		KeyField: "PurchaseOrderNumber",
		Schema:   purchaseOrderSchema,
		Endpoints: entity.Endpoints{
			Search: target,
			Entity: target,
		},
	}
}
