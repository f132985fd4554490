package schema

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		field    ScalarField
		record   Record
		expected any
	}{
		{
			name:     "source key defaults to field name",
			field:    ScalarField{Name: "VendorCode"},
			record:   Record{"VendorCode": "V100"},
			expected: "V100",
		},
		{
			name:     "explicit source key",
			field:    ScalarField{Name: "Name", SourceKey: "VendorName"},
			record:   Record{"VendorName": "Acme"},
			expected: "Acme",
		},
		{
			name:     "missing value without default is empty string",
			field:    ScalarField{Name: "Address2"},
			record:   Record{},
			expected: "",
		},
		{
			name:     "blank value uses default",
			field:    ScalarField{Name: "CurrencyCode", Default: "USD"},
			record:   Record{"CurrencyCode": "  "},
			expected: "USD",
		},
		{
			name:     "currency renders two fraction digits",
			field:    ScalarField{Name: "Amount", Format: FormatCurrency},
			record:   Record{"Amount": 1234.5},
			expected: "1234.50",
		},
		{
			name:     "currency from string column",
			field:    ScalarField{Name: "Amount", Format: FormatCurrency},
			record:   Record{"Amount": "0012.1"},
			expected: "12.10",
		},
		{
			name:     "currency has no thousands separators",
			field:    ScalarField{Name: "Amount", Format: FormatCurrency},
			record:   Record{"Amount": int64(1250000)},
			expected: "1250000.00",
		},
		{
			name:     "currency default is formatted too",
			field:    ScalarField{Name: "Amount", Format: FormatCurrency, Default: 0},
			record:   Record{},
			expected: "0.00",
		},
		{
			name:     "string truncated to max length",
			field:    ScalarField{Name: "Code", Format: FormatString, MaxLength: 5},
			record:   Record{"Code": "abcdefgh"},
			expected: "abcde",
		},
		{
			name:     "max length without format",
			field:    ScalarField{Name: "CountryCode", MaxLength: 2},
			record:   Record{"CountryCode": "USA"},
			expected: "US",
		},
		{
			name:     "max length counts runes",
			field:    ScalarField{Name: "Name", MaxLength: 3},
			record:   Record{"Name": "Ñandú"},
			expected: "Ñan",
		},
		{
			name:     "string format of a number",
			field:    ScalarField{Name: "InvoiceNumber", Format: FormatString},
			record:   Record{"InvoiceNumber": float64(1001)},
			expected: "1001",
		},
		{
			name:     "date default layout",
			field:    ScalarField{Name: "OrderDate", Format: FormatDate},
			record:   Record{"OrderDate": "20240115"},
			expected: "2024-01-15",
		},
		{
			name:     "date from time value with php layout",
			field:    ScalarField{Name: "ReceivedDate", Format: FormatDate, DateFormat: "m/d/Y"},
			record:   Record{"ReceivedDate": time.Date(2023, 7, 4, 10, 0, 0, 0, time.UTC)},
			expected: "07/04/2023",
		},
		{
			name:     "date from numeric column",
			field:    ScalarField{Name: "OrderDate", Format: FormatDate, DateFormat: "YYYY-MM-DD"},
			record:   Record{"OrderDate": int64(20231231)},
			expected: "2023-12-31",
		},
		{
			name:     "bytes are read as strings",
			field:    ScalarField{Name: "City"},
			record:   Record{"City": []byte("Tulsa")},
			expected: "Tulsa",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Project(Schema{tt.field}, tt.record)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, payload[tt.field.Name])
		})
	}
}

func TestProject_Constant(t *testing.T) {
	s := Schema{
		ConstantField{Name: "listID", Value: "gWvh"},
		ScalarField{Name: "Level1Code"},
	}

	for _, rec := range []Record{{}, {"listID": "other"}, {"Level1Code": "A"}} {
		payload, err := Project(s, rec)
		require.NoError(t, err)
		assert.Equal(t, "gWvh", payload["listID"])
	}
}

func TestProject_Required(t *testing.T) {
	s := Schema{
		ObjectField{Name: "Header", Children: Schema{
			ScalarField{Name: "VendorCode", Required: true},
		}},
	}

	_, err := Project(s, Record{"VendorCode": ""})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Header.VendorCode", verr.Field)
	assert.ErrorIs(t, err, ErrRequired)

	payload, err := Project(s, Record{"VendorCode": "V1"})
	require.NoError(t, err)
	assert.Equal(t, Payload{"VendorCode": "V1"}, payload["Header"])
}

func TestProject_RequiredWithDefault(t *testing.T) {
	s := Schema{ScalarField{Name: "IsReceiptRequired", Required: true, Default: "Y"}}

	payload, err := Project(s, Record{})
	require.NoError(t, err)
	assert.Equal(t, "Y", payload["IsReceiptRequired"])
}

func TestProject_InvalidCurrency(t *testing.T) {
	s := Schema{ScalarField{Name: "UnitPrice", Format: FormatCurrency}}

	_, err := Project(s, Record{"UnitPrice": "N/A"})
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestProject_Aliasing(t *testing.T) {
	s := Schema{
		ScalarField{Name: "VendorCode", SourceKey: "vendorID"},
		ScalarField{Name: "VendorAddressCode", SourceKey: "vendorID"},
	}

	payload, err := Project(s, Record{"vendorID": "V9"})
	require.NoError(t, err)
	assert.Equal(t, "V9", payload["VendorCode"])
	assert.Equal(t, "V9", payload["VendorAddressCode"])
}

func TestProject_DuplicateNameLastWins(t *testing.T) {
	s := Schema{
		ScalarField{Name: "PurchaseOrderNumber", Format: FormatString},
		ScalarField{Name: "PurchaseOrderNumber", SourceKey: "PONumber"},
	}

	payload, err := Project(s, Record{"PurchaseOrderNumber": "A", "PONumber": "B"})
	require.NoError(t, err)
	assert.Equal(t, "B", payload["PurchaseOrderNumber"])
	assert.Len(t, payload, 1)
}

func TestProject_NestedObjectFromFlatColumns(t *testing.T) {
	s := Schema{
		ObjectField{Name: "BillToAddress", Children: Schema{
			ScalarField{Name: "City", SourceKey: "billtoCity"},
			ScalarField{Name: "PostalCode", SourceKey: "billtoZip"},
		}},
	}

	payload, err := Project(s, Record{"billtoCity": "Omaha", "billtoZip": "68102"})
	require.NoError(t, err)
	assert.Equal(t, Payload{"City": "Omaha", "PostalCode": "68102"}, payload["BillToAddress"])
}

func TestProject_NestedObjectFromSubRecord(t *testing.T) {
	s := Schema{
		ObjectField{Name: "Remit", SourceKey: "remit", Children: Schema{
			ScalarField{Name: "City"},
		}},
	}

	payload, err := Project(s, Record{"City": "wrong", "remit": map[string]any{"City": "Boise"}})
	require.NoError(t, err)
	assert.Equal(t, Payload{"City": "Boise"}, payload["Remit"])

	payload, err = Project(s, Record{"City": "wrong"})
	require.NoError(t, err)
	assert.Equal(t, Payload{"City": ""}, payload["Remit"])
}

func TestProject_ListPreservesOrder(t *testing.T) {
	s := Schema{
		ListField{Name: "LineItem", SourceKey: "lines", Element: Schema{
			ScalarField{Name: "LineNumber"},
			ScalarField{Name: "UnitPrice", Format: FormatCurrency},
			ListField{Name: "Allocation", Element: Schema{
				ScalarField{Name: "Amount", SourceKey: "LineTotal", Format: FormatCurrency},
			}},
		}},
	}

	rec := Record{"lines": []Record{
		{"LineNumber": 1, "UnitPrice": 2.5, "LineTotal": 5},
		{"LineNumber": 2, "UnitPrice": "3", "LineTotal": 9.999},
	}}

	payload, err := Project(s, rec)
	require.NoError(t, err)

	lines := payload["LineItem"].([]Payload)
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0]["LineNumber"])
	assert.Equal(t, "2.50", lines[0]["UnitPrice"])
	assert.Equal(t, []Payload{{"Amount": "5.00"}}, lines[0]["Allocation"])
	assert.Equal(t, 2, lines[1]["LineNumber"])
	assert.Equal(t, []Payload{{"Amount": "10.00"}}, lines[1]["Allocation"])
}

func TestProject_ListMissingIsEmpty(t *testing.T) {
	s := Schema{ListField{Name: "LineItem", SourceKey: "lines", Element: Schema{ScalarField{Name: "X"}}}}

	payload, err := Project(s, Record{})
	require.NoError(t, err)
	assert.Equal(t, []Payload{}, payload["LineItem"])

	_, err = Project(s, Record{"lines": "not a list"})
	assert.ErrorIs(t, err, ErrInvalidList)
}

func TestProject_ContainsExactlyDeclaredNames(t *testing.T) {
	s := Schema{
		ScalarField{Name: "A"},
		ConstantField{Name: "B", Value: 1},
		ObjectField{Name: "C", Children: Schema{ScalarField{Name: "D"}, ScalarField{Name: "E"}}},
		ListField{Name: "F", SourceKey: "rows", Element: Schema{ScalarField{Name: "G"}}},
	}
	rec := Record{"A": "a", "Z": "extra", "D": "d", "rows": []any{map[string]any{"G": "g", "H": "h"}}}

	payload, err := Project(s, rec)
	require.NoError(t, err)

	assert.Equal(t, sorted(s.Names()), sorted(keys(payload)))
	assert.Equal(t, []string{"D", "E"}, sorted(keys(payload["C"].(Payload))))
	assert.Equal(t, []string{"G"}, keys(payload["F"].([]Payload)[0]))
}

func TestGoLayout(t *testing.T) {
	assert.Equal(t, "2006-01-02", goLayout(""))
	assert.Equal(t, "2006-01-02", goLayout("Y-m-d"))
	assert.Equal(t, "2006-01-02", goLayout("YYYY-MM-DD"))
	assert.Equal(t, "02.01.2006", goLayout("02.01.2006"))
	assert.Equal(t, "Monday", goLayout("Monday"))
	assert.Equal(t, "Jan", goLayout("Jan"))
	assert.Equal(t, "Mon, Jan PM", goLayout("Mon, Jan PM"))
	assert.Equal(t, "02.01.2006", goLayout("d.m.Y"))
}

func TestFormatDateWordLayout(t *testing.T) {
	got, err := formatDate("2024-03-04", "Monday")
	require.NoError(t, err)
	assert.Equal(t, "Monday", got)

	got, err = formatDate("2024-03-05", "Jan")
	require.NoError(t, err)
	assert.Equal(t, "Mar", got)
}

func keys(p Payload) []string {
	out := make([]string, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	return out
}

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
