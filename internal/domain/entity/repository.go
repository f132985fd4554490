package entity

import (
	"context"
	"time"

	"concursync/internal/domain/response"
	"concursync/internal/domain/schema"
)

// Store локальное хранилище исходных записей.
// Ключи возвращаются по возрастанию, строго после afterKey; limit 0 без ограничения.
type Store interface {
	// NewKeys ключи сущностей без записи в журнале отправки
	NewKeys(ctx context.Context, entityType string, limit int, afterKey string) ([]string, error)
	// LoggedKeys ключи сущностей, уже отправленных ранее
	LoggedKeys(ctx context.Context, entityType string, limit int, afterKey string) ([]string, error)
	// Record запись с вложенными строками; ErrRecordNotFound, если ее нет
	Record(ctx context.Context, entityType, key string) (schema.Record, error)
}

// RecordWriter сохраняет в локальную базу запись, полученную из удаленной системы.
// Вложенные строки заменяются целиком.
type RecordWriter interface {
	SaveRecord(ctx context.Context, entityType string, rec schema.Record) error
}

// SendLog журнал отправки одного типа сущности
type SendLog interface {
	Exists(ctx context.Context, key string) (bool, error)
	Upsert(ctx context.Context, key string, at time.Time) (bool, error)
}

// Transport HTTP-вызовы удаленного API.
// Ошибка означает отсутствие ответа; ответ с ошибкой API возвращается как Raw.
type Transport interface {
	Get(ctx context.Context, url string) (response.Raw, error)
	Post(ctx context.Context, url string, body any) (response.Raw, error)
	Put(ctx context.Context, url string, body any) (response.Raw, error)
}
