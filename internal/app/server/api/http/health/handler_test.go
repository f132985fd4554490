package health

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"concursync/internal/utils/logger"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestHandler_healthCheck(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus string
		expectedCode   int
		expectedStore  string
	}{
		{
			name:           "store up",
			expectedStatus: "OK",
			expectedCode:   http.StatusOK,
			expectedStore:  "up",
		},
		{
			name:           "store down",
			pingErr:        errors.New("connection refused"),
			expectedStatus: "DEGRADED",
			expectedCode:   http.StatusServiceUnavailable,
			expectedStore:  "down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			store := new(MockPinger)
			store.On("Ping", mock.Anything).Return(tt.pingErr)
			handler := NewHandler(store, logger.Discard(), huma.Middlewares{})

			// Act
			output, err := handler.healthCheck(context.Background(), &Input{})

			// Assert
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, output.Body.Status)
			assert.Equal(t, tt.expectedCode, output.Status)
			assert.Equal(t, tt.expectedStore, output.Body.Store)
		})
	}
}

func TestHandler_Route(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(nil, logger.Discard(), huma.Middlewares{}).SetupRoutes(api)

	resp := api.Get("/api/v1/health")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"store":"none"`)
}
