package catalog

import (
	"net/url"
	"strings"

	"concursync/internal/domain/entity"
	"concursync/internal/domain/response"
	"concursync/internal/domain/schema"
)

const vendorPageSize = "1000"

var vendorSchema = schema.Schema{
	schema.ScalarField{Name: "VendorCode"},
	schema.ScalarField{Name: "VendorName"},
	schema.ScalarField{Name: "AddressCode"},
	schema.ScalarField{Name: "Address1"},
	schema.ScalarField{Name: "Address2"},
	schema.ScalarField{Name: "Address3"},
	schema.ScalarField{Name: "City"},
	schema.ScalarField{Name: "State"},
	schema.ScalarField{Name: "PostalCode"},
	schema.ScalarField{Name: "CountryCode", MaxLength: 2},
	schema.ScalarField{Name: "Country", SourceKey: "CountryCode"},
	schema.ScalarField{Name: "Approved"},
	schema.ScalarField{Name: "PaymentTerms"},
	schema.ScalarField{Name: "AccountNumber"},
	schema.ScalarField{Name: "TaxID"},
	schema.ScalarField{Name: "ProvincialTaxID"},
	schema.ScalarField{Name: "TaxType"},
	schema.ScalarField{Name: "CurrencyCode", Default: "USD"},
	schema.ScalarField{Name: "ShippingMethod"},
	schema.ScalarField{Name: "ShippingTerms"},
	schema.ScalarField{Name: "DiscountTermsDays"},
	schema.ScalarField{Name: "DiscountPercentage"},
	schema.ScalarField{Name: "ContactFirstName"},
	schema.ScalarField{Name: "ContactLastName"},
	schema.ScalarField{Name: "ContactPhoneNumber"},
	schema.ScalarField{Name: "ContactEmail"},
	schema.ScalarField{Name: "PurchaseOrderContactFirstName"},
	schema.ScalarField{Name: "PurchaseOrderContactLastName"},
	schema.ScalarField{Name: "PurchaseOrderContactPhoneNumber"},
	schema.ScalarField{Name: "PurchaseOrderContactEmail"},
	schema.ScalarField{Name: "DefaultEmployeeID"},
	schema.ScalarField{Name: "DefaultExpenseTypeName"},
	schema.ScalarField{Name: "PaymentMethodType"},
	schema.ScalarField{Name: "AddressImportSyncID"},
}

func vendor(base string) entity.Definition {
	return entity.Definition{
		Type:     TypeVendor,
		KeyField: "VendorCode",
		Schema:   vendorSchema,
		Endpoints: entity.Endpoints{
			Search:    endpoint(base, "/api/v3.0/invoice/vendors"),
			Entity:    endpoint(base, "/api/v3.0/invoice/vendors"),
			KeyQuery:  "vendorCode",
			ListQuery: url.Values{"limit": {vendorPageSize}},
		},
		Rules: response.Rules{
			Checks: []response.Check{vendorWarning, vendorMissing},
		},
		Exists: func(raw response.Raw, _ string) bool {
			return raw.Truthy("TotalCount")
		},
		Envelope:  vendorEnvelope,
		ListItems: "Vendor",
	}
}

// vendorEnvelope API поставщиков принимает пакет; отправляем пакет из одного поставщика
func vendorEnvelope(p schema.Payload, op entity.Op) any {
	items := []schema.Payload{p}
	if op == entity.OpUpdate {
		items = []schema.Payload{}
	}
	return map[string]any{
		"Items":             items,
		"NextPage":          "",
		"RequestRunSummary": "",
		"TotalCount":        1,
		"Vendor":            []schema.Payload{p},
	}
}

func vendorWarning(raw response.Raw) (string, bool) {
	vendors := raw.Items("Vendor")
	if len(vendors) == 0 {
		return "", false
	}
	statuses := vendors[0].Items("StatusList")
	if len(statuses) == 0 || statuses[0].String("Type") != "WARNING" {
		return "", false
	}
	return statuses[0].String("Message"), true
}

func vendorMissing(raw response.Raw) (string, bool) {
	msg := raw.String("Message")
	if strings.Contains(strings.ToLower(msg), "missing") {
		return msg, true
	}
	return "", false
}
