package sendlog

import "time"

// Entry отметка об отправке сущности в удаленную систему
type Entry struct {
	EntityType string    `json:"entity_type"`
	EntityKey  string    `json:"entity_key"`
	LastSentAt time.Time `json:"last_sent_at"`
}
