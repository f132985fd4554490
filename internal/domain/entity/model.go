package entity

import (
	"net/http"
	"net/url"

	"concursync/internal/domain/response"
	"concursync/internal/domain/schema"
)

// Op вид отправки
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
)

// ExistsStrategy способ узнать, есть ли сущность в удаленной системе
type ExistsStrategy int

const (
	// ExistsRemote GET по ключу и проверка ответа
	ExistsRemote ExistsStrategy = iota
	// ExistsSendLog наличие записи в журнале отправки (для сущностей без GET)
	ExistsSendLog
)

const defaultListItems = "Items"

// Endpoints адреса API для одного типа сущности
type Endpoints struct {
	// Search список/поиск, ответы вида {Items, NextPage, TotalCount}
	Search string
	// Entity адрес одной сущности, ключ добавляется сегментом пути
	Entity string
	// KeyQuery если задан, поиск по ключу идет запросом Entity?KeyQuery=key
	KeyQuery string
	// UpdateWithKey обновление отправляется на Entity/key
	UpdateWithKey bool
	// ListQuery постоянные параметры списочных запросов
	ListQuery url.Values
}

// Definition неизменяемое описание типа сущности
type Definition struct {
	Type      string
	KeyField  string
	Schema    schema.Schema
	Endpoints Endpoints
	Rules     response.Rules

	// CreateMethod и UpdateMethod по умолчанию POST и PUT
	CreateMethod string
	UpdateMethod string

	ExistsBy ExistsStrategy
	// Exists проверка ответа GET; по умолчанию наличие поля KeyField
	Exists func(raw response.Raw, key string) bool

	// Prepare предобработка записи до маппинга, запись не изменяет
	Prepare func(rec schema.Record) schema.Record
	// Envelope обертка payload перед отправкой
	Envelope func(payload schema.Payload, op Op) any
	// Unmap обратное преобразование ответа GET в локальную запись; nil, если импорт не поддерживается
	Unmap func(raw response.Raw) schema.Record

	// ListItems ключ списка в ответах Search, по умолчанию "Items"
	ListItems string
	// ListKeyField поле элемента списка с натуральным ключом, по умолчанию KeyField
	ListKeyField string
}

func (d Definition) method(op Op) string {
	if op == OpCreate {
		if d.CreateMethod != "" {
			return d.CreateMethod
		}
		return http.MethodPost
	}
	if d.UpdateMethod != "" {
		return d.UpdateMethod
	}
	return http.MethodPut
}

func (d Definition) exists(raw response.Raw, key string) bool {
	if d.Exists != nil {
		return d.Exists(raw, key)
	}
	return raw.Has(d.KeyField)
}

func (d Definition) envelope(p schema.Payload, op Op) any {
	if d.Envelope != nil {
		return d.Envelope(p, op)
	}
	return p
}

func (d Definition) listItems() string {
	if d.ListItems != "" {
		return d.ListItems
	}
	return defaultListItems
}

func (d Definition) listKeyField() string {
	if d.ListKeyField != "" {
		return d.ListKeyField
	}
	return d.KeyField
}

// BatchResult итоги пакета, разложенные по ключу сущности
type BatchResult struct {
	Success map[string]response.Outcome `json:"success"`
	Error   map[string]response.Outcome `json:"error"`
}

// NewBatchResult пустой результат пакета
func NewBatchResult() BatchResult {
	return BatchResult{
		Success: make(map[string]response.Outcome),
		Error:   make(map[string]response.Outcome),
	}
}

func (r BatchResult) add(out response.Outcome) {
	if out.Succeeded {
		r.Success[out.EntityKey] = out
		return
	}
	r.Error[out.EntityKey] = out
}

// Len общее число обработанных сущностей
func (r BatchResult) Len() int {
	return len(r.Success) + len(r.Error)
}

// AutoResult итоги BatchAuto: сначала создание, затем обновление
type AutoResult struct {
	Created BatchResult `json:"created"`
	Updated BatchResult `json:"updated"`
}
