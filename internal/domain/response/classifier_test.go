package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	receiptRules := Rules{
		Prefix: func(key string, raw Raw) string {
			return "PO # " + raw.String("PurchaseOrderNumber")
		},
	}

	tests := []struct {
		name      string
		rules     Rules
		raw       Raw
		succeeded bool
		kind      Kind
		message   string
		confirms  bool
		shouldLog bool
	}{
		{
			name:      "plain success",
			raw:       Raw{"Status": "SUCCESS", "Message": "Created"},
			succeeded: true,
			message:   "Created",
			shouldLog: true,
		},
		{
			name:      "empty response is success",
			raw:       nil,
			succeeded: true,
			shouldLog: true,
		},
		{
			name: "failure status with code and field",
			raw: Raw{
				"Status":       "FAILURE",
				"ErrorCode":    "8000",
				"ErrorMessage": "Missing field",
				"FieldCode":    "VendorCode",
			},
			kind:    KindRemoteRejection,
			message: "ErrorCode: 8000 -> Missing field -> FieldCode: VendorCode",
		},
		{
			name:    "failure status falls back to message",
			raw:     Raw{"Status": "FAILURE", "Message": "Bad request"},
			kind:    KindRemoteRejection,
			message: "Bad request",
		},
		{
			name:    "transport error flag",
			raw:     Raw{"error": true, "ErrorCode": float64(401), "Message": "Unauthorized"},
			kind:    KindRemoteRejection,
			message: "ErrorCode: 401 -> Unauthorized",
		},
		{
			name: "error object",
			raw: Raw{"Error": map[string]any{
				"Message":     "Invalid Vendor",
				"Server-Time": "2024-01-01T00:00:00",
				"Id":          "ABC",
			}},
			kind:    KindRemoteRejection,
			message: "Invalid Vendor @ 2024-01-01T00:00:00 ID: ABC",
		},
		{
			name: "error object inside flagged http error",
			raw: Raw{
				"error":      true,
				"HTTPStatus": 400,
				"Error": map[string]any{
					"Message":     "Invalid line number",
					"Server-Time": "2024-01-01T00:00:00",
					"Id":          "ABC123",
				},
			},
			kind:    KindRemoteRejection,
			message: "Invalid line number @ 2024-01-01T00:00:00 ID: ABC123",
		},
		{
			name:      "create of existing entity confirms existence",
			raw:       Raw{"Status": "SUCCESS", "Message": "Vendor cannot be created as it does exist in system"},
			kind:      KindSoftConflict,
			message:   "Vendor cannot be created as it does exist in system",
			confirms:  true,
			shouldLog: true,
		},
		{
			name:    "update of missing entity does not confirm existence",
			raw:     Raw{"Message": "Purchase order cannot be updated as it does not exist in system"},
			kind:    KindSoftConflict,
			message: "Purchase order cannot be updated as it does not exist in system",
		},
		{
			name:      "existence phrase inside failure branch",
			raw:       Raw{"Status": "FAILURE", "Message": "PO cannot be created as it DOES EXIST in system"},
			kind:      KindSoftConflict,
			message:   "PO cannot be created as it DOES EXIST in system",
			confirms:  true,
			shouldLog: true,
		},
		{
			name: "custom check",
			rules: Rules{Checks: []Check{func(raw Raw) (string, bool) {
				if len(raw.Items("StatusList")) > 0 {
					return "WARNING: " + raw.Items("StatusList")[0].String("Message"), true
				}
				return "", false
			}}},
			raw:     Raw{"StatusList": []any{map[string]any{"Message": "duplicate tax id"}}},
			kind:    KindRemoteRejection,
			message: "WARNING: duplicate tax id",
		},
		{
			name:    "prefix applied to coded failures",
			rules:   receiptRules,
			raw:     Raw{"Status": "FAILURE", "ErrorCode": "12", "ErrorMessage": "No such line", "PurchaseOrderNumber": "PO-7"},
			kind:    KindRemoteRejection,
			message: "PO # PO-7 -> ErrorCode: 12 -> No such line",
		},
		{
			name:    "prefix skipped without error code",
			rules:   receiptRules,
			raw:     Raw{"Status": "FAILURE", "Message": "Oops", "PurchaseOrderNumber": "PO-7"},
			kind:    KindRemoteRejection,
			message: "Oops",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewClassifier(tt.rules).Classify("K1", tt.raw)

			assert.Equal(t, "K1", out.EntityKey)
			assert.Equal(t, tt.succeeded, out.Succeeded)
			assert.Equal(t, tt.kind, out.Kind)
			assert.Equal(t, tt.message, out.Message)
			assert.Equal(t, tt.confirms, out.ConfirmsExistence)
			assert.Equal(t, tt.shouldLog, out.ShouldLog())
		})
	}
}

func TestClassifier_Fields(t *testing.T) {
	out := NewClassifier(Rules{}).Classify("V1", Raw{
		"Status":       "FAILURE",
		"ErrorCode":    "8000",
		"ErrorMessage": "Missing field",
		"FieldCode":    "VendorCode",
	})

	assert.True(t, out.Failed())
	assert.Equal(t, "8000", out.ErrorCode)
	assert.Equal(t, "Missing field", out.ErrorMessage)
	assert.Equal(t, "VendorCode", out.FieldCode)
}

func TestFailure(t *testing.T) {
	out := Failure("V1", KindTransport, "connection refused")

	assert.False(t, out.Succeeded)
	assert.False(t, out.ShouldLog())
	assert.Equal(t, KindTransport, out.Kind)
	assert.Equal(t, "connection refused", out.Message)
}

func TestRaw_Helpers(t *testing.T) {
	r := Raw{
		"s":     "x",
		"n":     float64(3),
		"b":     true,
		"zero":  "0",
		"empty": "",
		"obj":   map[string]any{"a": "b"},
		"list":  []any{map[string]any{"a": 1}, "skip"},
	}

	assert.Equal(t, "x", r.String("s"))
	assert.Equal(t, "3", r.String("n"))
	assert.Equal(t, "true", r.String("b"))
	assert.Equal(t, "", r.String("missing"))

	assert.True(t, r.Truthy("b"))
	assert.False(t, r.Truthy("zero"))
	assert.False(t, r.Truthy("missing"))

	assert.True(t, r.Has("s"))
	assert.False(t, r.Has("empty"))

	obj, ok := r.Object("obj")
	assert.True(t, ok)
	assert.Equal(t, "b", obj.String("a"))

	assert.Len(t, r.Items("list"), 1)
	assert.Nil(t, r.Items("missing"))
}
