// Package api собирает операторское HTTP API синхронизации.
//
//	GET  /api/v1/health
//	GET  /api/v1/sync/entities
//	POST /api/v1/sync/batch
//	POST /api/v1/sync/{entity}/batch
//	POST /api/v1/sync/{entity}/{key}/send
//	GET  /api/v1/sync/{entity}/{key}/preview
//	GET  /api/v1/sync/{entity}/{key}/remote
//	GET  /api/v1/sync/{entity}/{key}/exists
//	GET  /api/v1/sync/{entity}/remote
//	POST /api/v1/sync/{entity}/import
//	GET  /api/v1/sync/{entity}/log
package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"

	healthAPI "concursync/internal/app/server/api/http/health"
	"concursync/internal/app/server/api/http/middleware"
	"concursync/internal/app/server/api/http/middleware/logger"
	syncAPI "concursync/internal/app/server/api/http/sync"
)

type Handlers struct {
	Health *healthAPI.Handler
	Sync   *syncAPI.Handler
}

// New создает *chi.Mux со всеми операциями, зарегистрированными через huma.Register
func New(syncer syncAPI.Syncer, store healthAPI.Pinger, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()
	mux.Use(chimw.Recoverer)

	config := huma.DefaultConfig("Concur Sync API", "1.0.0")
	API := humachi.New(mux, config)

	h := handlers(syncer, store, log)
	h.Health.SetupRoutes(API)
	h.Sync.SetupRoutes(API)

	return mux
}

func handlers(syncer syncAPI.Syncer, store healthAPI.Pinger, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(store, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	syncHandler := syncAPI.NewHandler(syncer, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		Sync:   syncHandler,
	}
}
