package sendlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

// Tracker журнал отправки для одного типа сущности
type Tracker struct {
	repo       Repository
	entityType string
	log        *slog.Logger
}

// NewTracker создает журнал отправки для типа сущности
func NewTracker(repo Repository, entityType string, log *slog.Logger) *Tracker {
	return &Tracker{
		repo:       repo,
		entityType: entityType,
		log:        log.With("component", "send_log", "entity_type", entityType),
	}
}

// Exists отправлялась ли сущность раньше
func (t *Tracker) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	ok, err := t.repo.Exists(ctx, t.entityType, key)
	if err != nil {
		return false, fmt.Errorf("check send log: %w", err)
	}
	return ok, nil
}

// Upsert обновляет время отправки, если запись есть, иначе вставляет новую.
// Гонка двух вставок разрешается хранилищем: проигравший переходит к обновлению.
func (t *Tracker) Upsert(ctx context.Context, key string, at time.Time) (bool, error) {
	exists, err := t.Exists(ctx, key)
	if err != nil {
		return false, err
	}

	entry := Entry{EntityType: t.entityType, EntityKey: key, LastSentAt: at.UTC()}

	if exists {
		err = t.repo.Update(ctx, entry)
		if errors.Is(err, ErrNotFound) {
			err = t.insert(ctx, entry)
		}
	} else {
		err = t.insert(ctx, entry)
	}

	if err != nil {
		t.log.Error("failed to upsert send log entry", "key", key, "error", err)
		return false, fmt.Errorf("upsert send log: %w", err)
	}

	t.log.Debug("send log entry updated", "key", key, "sent_at", entry.LastSentAt)
	return true, nil
}

// List записи журнала в порядке ключей
func (t *Tracker) List(ctx context.Context, limit int, afterKey string) ([]Entry, error) {
	entries, err := t.repo.List(ctx, t.entityType, limit, afterKey)
	if err != nil {
		return nil, fmt.Errorf("list send log: %w", err)
	}
	return entries, nil
}

func (t *Tracker) insert(ctx context.Context, entry Entry) error {
	err := t.repo.Insert(ctx, entry)
	if errors.Is(err, ErrDuplicate) {
		return t.repo.Update(ctx, entry)
	}
	return err
}
