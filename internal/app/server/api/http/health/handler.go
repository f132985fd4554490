package health

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

const pingTimeout = 2 * time.Second

// Pinger проверка доступности хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	store      Pinger
	log        *slog.Logger
	middleware huma.Middlewares
}

// NewHandler создает обработчик проверки здоровья
func NewHandler(store Pinger, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		store:      store,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	if h.store == nil {
		return &Output{Status: http.StatusOK, Body: Response{Status: "OK", Store: "none"}}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Error("store ping failed", "error", err)
		return &Output{
			Status: http.StatusServiceUnavailable,
			Body:   Response{Status: "DEGRADED", Store: "down"},
		}, nil
	}

	return &Output{Status: http.StatusOK, Body: Response{Status: "OK", Store: "up"}}, nil
}
