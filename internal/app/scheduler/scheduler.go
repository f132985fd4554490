// Package scheduler запускает пакетные прогоны по расписанию cron.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"golang.org/x/exp/slog"

	"concursync/internal/app/engine"
)

var ErrEmptySchedule = errors.New("schedule is empty")

// Runner пакетный прогон по списку типов сущностей
type Runner interface {
	RunAll(ctx context.Context, types []string, limit int) []engine.Run
}

type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	types  []string
	limit  int
	log    *slog.Logger
	// ctx контекст Start; прогоны отменяются вместе с ним
	ctx context.Context
}

// New регистрирует задачу; прогон пропускается, если предыдущий еще не закончился
func New(spec string, runner Runner, types []string, limit int, log *slog.Logger) (*Scheduler, error) {
	if spec == "" {
		return nil, ErrEmptySchedule
	}

	log = log.With("component", "scheduler")
	cl := cronLogger{log: log}

	s := &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		runner: runner,
		types:  types,
		limit:  limit,
		log:    log,
		ctx:    context.Background(),
	}

	if _, err := s.cron.AddFunc(spec, func() { s.tick(s.ctx) }); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start блокирует до отмены ctx, затем дожидается текущего прогона
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("scheduler started", "types", s.types, "limit", s.limit)
	s.ctx = ctx
	s.cron.Start()

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) tick(ctx context.Context) {
	runs := s.runner.RunAll(ctx, s.types, s.limit)
	for _, run := range runs {
		created, updated, failed := run.Counts()
		s.log.Info("scheduled run finished",
			"run_id", run.ID,
			"entity_type", run.EntityType,
			"created", created,
			"updated", updated,
			"failed", failed,
			"error", run.Error,
		)
	}
}

// cronLogger пишет журнал cron в slog
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
