package sendlog

import (
	"context"
)

// Repository хранилище журнала отправки.
// Уникальность (EntityType, EntityKey) обеспечивает хранилище.
type Repository interface {
	Exists(ctx context.Context, entityType, key string) (bool, error)
	// Insert возвращает ErrDuplicate, если запись уже есть
	Insert(ctx context.Context, entry Entry) error
	// Update возвращает ErrNotFound, если записи нет
	Update(ctx context.Context, entry Entry) error
	// List записи по возрастанию ключа, строго после afterKey; limit 0 без ограничения
	List(ctx context.Context, entityType string, limit int, afterKey string) ([]Entry, error)
}
