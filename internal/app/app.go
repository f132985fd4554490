// Package app связывает конфигурацию, хранилище, транспорт и движок синхронизации.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"concursync/internal/app/client"
	"concursync/internal/app/engine"
	"concursync/internal/app/scheduler"
	"concursync/internal/app/server/api"
	"concursync/internal/config"
	"concursync/internal/domain/catalog"
	"concursync/internal/domain/entity"
	"concursync/internal/domain/sendlog"
	"concursync/internal/infrastructure/storage/postgres"
	"concursync/internal/infrastructure/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// store открытое хранилище с проверкой доступности
type store interface {
	Ping(ctx context.Context) error
	Close() error
}

type App struct {
	config    *config.Config
	log       *slog.Logger
	registry  *catalog.Registry
	transport *client.HTTPClient
	store     store
	engine    *engine.Engine
}

// New открывает хранилище и собирает движок синхронизации
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	registry := catalog.New(catalog.Config{
		BaseURL: cfg.Concur.BaseURL,
		ListID:  cfg.Concur.ListID,
	})

	transport := client.NewHTTPClient(client.Config{
		AccessToken: cfg.Concur.AccessToken,
		Timeout:     cfg.Concur.Timeout,
	}, log)

	st, records, sendLogs, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	eng, err := engine.Build(registry, records, sendLogs, transport, log,
		entity.WithConcurrency(cfg.Sync.Concurrency))
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}

	return &App{
		config:    cfg,
		log:       log,
		registry:  registry,
		transport: transport,
		store:     st,
		engine:    eng,
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (store, entity.Store, sendlog.Repository, error) {
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		st, err := sqlite.New(cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return st, sqlite.NewRecordRepository(st.DB(), nil, log), sqlite.NewSendLogRepository(st.DB(), log), nil
	case config.DriverPostgres:
		st, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return st, postgres.NewRecordRepository(st.Pool(), nil, log), postgres.NewSendLogRepository(st.Pool(), log), nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.DB.Driver)
	}
}

func (a *App) Engine() *engine.Engine {
	return a.engine
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Close() error {
	return a.store.Close()
}

// Serve запускает HTTP API и останавливает его по отмене ctx
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.config.Server.RunAddress,
		Handler:           api.New(a.engine, a.store, a.log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server started", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	a.log.Info("http server stopped")
	return nil
}

// Schedule запускает прогоны по расписанию из конфигурации до отмены ctx
func (a *App) Schedule(ctx context.Context) error {
	s, err := scheduler.New(a.config.Sync.Schedule, a.engine, a.config.Sync.Entities, a.config.Sync.BatchLimit, a.log)
	if err != nil {
		return err
	}
	s.Start(ctx)
	return nil
}
