// Package engine собирает синхронизаторы всех типов сущностей и запускает пакетные прогоны.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"concursync/internal/domain/catalog"
	"concursync/internal/domain/entity"
	"concursync/internal/domain/sendlog"
)

var ErrUnknownEntity = errors.New("unknown entity type")

// Run итог одного прогона BatchAuto по типу сущности
type Run struct {
	ID         string            `json:"id"`
	EntityType string            `json:"entity_type"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Result     entity.AutoResult `json:"result"`
	Error      string            `json:"error,omitempty"`
}

// Counts число созданных, обновленных и неуспешных сущностей
func (r Run) Counts() (created, updated, failed int) {
	created = len(r.Result.Created.Success)
	updated = len(r.Result.Updated.Success)
	failed = len(r.Result.Created.Error) + len(r.Result.Updated.Error)
	return created, updated, failed
}

// SendLogLister чтение журнала отправки
type SendLogLister interface {
	List(ctx context.Context, entityType string, limit int, afterKey string) ([]sendlog.Entry, error)
}

type Engine struct {
	services map[string]entity.Servicer
	order    []string
	sendLogs SendLogLister
	log      *slog.Logger
	newID    func() string
	now      func() time.Time
}

// New движок над готовыми синхронизаторами; порядок прогонов совпадает с порядком services
func New(services []entity.Servicer, sendLogs SendLogLister, log *slog.Logger) *Engine {
	e := &Engine{
		services: make(map[string]entity.Servicer, len(services)),
		order:    make([]string, 0, len(services)),
		sendLogs: sendLogs,
		log:      log.With("component", "engine"),
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, s := range services {
		if _, dup := e.services[s.Type()]; !dup {
			e.order = append(e.order, s.Type())
		}
		e.services[s.Type()] = s
	}
	return e
}

// Build создает синхронизатор для каждого типа из каталога
func Build(registry *catalog.Registry, store entity.Store, repo sendlog.Repository, transport entity.Transport, log *slog.Logger, opts ...entity.Option) (*Engine, error) {
	// хранилище, умеющее сохранять записи, обслуживает ImportRecords
	if w, ok := store.(entity.RecordWriter); ok {
		opts = append(opts[:len(opts):len(opts)], entity.WithRecordWriter(w))
	}

	services := make([]entity.Servicer, 0, len(registry.Types()))
	for _, typ := range registry.Types() {
		def, err := registry.Get(typ)
		if err != nil {
			return nil, err
		}
		tracker := sendlog.NewTracker(repo, typ, log)
		services = append(services, entity.NewService(def, store, tracker, transport, log, opts...))
	}
	return New(services, repo, log), nil
}

func (e *Engine) Types() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

func (e *Engine) Service(entityType string) (entity.Servicer, error) {
	s, ok := e.services[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entityType)
	}
	return s, nil
}

// Run прогон BatchAuto по одному типу сущности
func (e *Engine) Run(ctx context.Context, entityType string, limit int, afterKey string) (Run, error) {
	svc, err := e.Service(entityType)
	if err != nil {
		return Run{}, err
	}

	run := Run{
		ID:         e.newID(),
		EntityType: entityType,
		StartedAt:  e.now().UTC(),
	}
	log := e.log.With("run_id", run.ID, "entity_type", entityType)
	log.Info("batch run started", "limit", limit, "after_key", afterKey)

	run.Result, err = svc.BatchAuto(ctx, limit, afterKey)
	run.FinishedAt = e.now().UTC()
	if err != nil {
		run.Error = err.Error()
		log.Error("batch run failed", "error", err)
		return run, err
	}

	created, updated, failed := run.Counts()
	log.Info("batch run finished", "created", created, "updated", updated, "failed", failed)
	return run, nil
}

// RunAll прогоняет типы по очереди; ошибка одного типа не останавливает остальные.
// Пустой список types означает все типы.
func (e *Engine) RunAll(ctx context.Context, types []string, limit int) []Run {
	if len(types) == 0 {
		types = e.order
	}

	runs := make([]Run, 0, len(types))
	for _, typ := range types {
		if ctx.Err() != nil {
			break
		}
		run, err := e.Run(ctx, typ, limit, "")
		if err != nil && run.ID == "" {
			run = Run{EntityType: typ, Error: err.Error()}
		}
		runs = append(runs, run)
	}
	return runs
}

// SendLog записи журнала отправки по типу сущности
func (e *Engine) SendLog(ctx context.Context, entityType string, limit int, afterKey string) ([]sendlog.Entry, error) {
	if _, err := e.Service(entityType); err != nil {
		return nil, err
	}
	entries, err := e.sendLogs.List(ctx, entityType, limit, afterKey)
	if err != nil {
		return nil, fmt.Errorf("list send log: %w", err)
	}
	if entries == nil {
		entries = []sendlog.Entry{}
	}
	return entries, nil
}
