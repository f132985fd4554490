package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"concursync/internal/app/engine"
	mwlogger "concursync/internal/app/server/api/http/middleware/logger"
	"concursync/internal/domain/catalog"
	"concursync/internal/utils/logger"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func TestNew(t *testing.T) {
	registry := catalog.New(catalog.Config{})
	e, err := engine.Build(registry, nil, nil, nil, logger.Discard())
	assert.NoError(t, err)

	mux := New(e, okPinger{}, logger.Discard())

	tests := []struct {
		path     string
		code     int
		contains string
		traced   bool
	}{
		{path: "/api/v1/health", code: http.StatusOK, contains: `"store":"up"`, traced: true},
		{path: "/api/v1/sync/entities", code: http.StatusOK, contains: `"po_receipt"`, traced: true},
		{path: "/api/v1/sync/expense_report/log", code: http.StatusNotFound, traced: true},
		{path: "/openapi.json", code: http.StatusOK, contains: "Concur Sync API"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
			if tt.traced {
				assert.NotEmpty(t, rec.Header().Get(mwlogger.RequestIDHeader))
			}
		})
	}
}
