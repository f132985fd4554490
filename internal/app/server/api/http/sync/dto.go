package sync

import (
	"concursync/internal/app/engine"
	"concursync/internal/domain/entity"
	"concursync/internal/domain/response"
	"concursync/internal/domain/sendlog"
)

type entityInput struct {
	Entity string `path:"entity" example:"vendor" doc:"Тип сущности: vendor, purchase_order, po_receipt, invoice, list_item"`
}

type keyInput struct {
	Entity string `path:"entity" example:"vendor" doc:"Тип сущности"`
	Key    string `path:"key" example:"V100" doc:"Ключ сущности"`
}

// ==================== Batch ====================

type batchInput struct {
	Entity string `path:"entity" example:"vendor" doc:"Тип сущности"`
	Body   batchRequest
}

type batchRequest struct {
	Limit    int    `json:"limit,omitempty" minimum:"0" doc:"Сколько сущностей отправить в каждой фазе; 0 без ограничения"`
	AfterKey string `json:"after_key,omitempty" doc:"Обрабатывать только ключи строго после этого"`
}

type batchOutput struct {
	Body engine.Run
}

type batchAllInput struct {
	Body batchAllRequest
}

type batchAllRequest struct {
	Types []string `json:"types,omitempty" doc:"Типы сущностей; пусто означает все"`
	Limit int      `json:"limit,omitempty" minimum:"0" doc:"Лимит на каждую фазу каждого типа"`
}

type batchAllOutput struct {
	Body batchAllResponse
}

type batchAllResponse struct {
	Runs []engine.Run `json:"runs"`
}

// ==================== Single entity ====================

type sendInput struct {
	Entity string `path:"entity" example:"vendor" doc:"Тип сущности"`
	Key    string `path:"key" example:"V100" doc:"Ключ сущности"`
	Op     string `query:"op" enum:"auto,create,update" default:"auto" doc:"auto выбирает создание или обновление сам"`
}

type sendOutput struct {
	Body response.Outcome
}

type previewInput struct {
	Entity string `path:"entity" example:"vendor" doc:"Тип сущности"`
	Key    string `path:"key" example:"V100" doc:"Ключ сущности"`
	Op     string `query:"op" enum:"create,update" default:"create" doc:"Вид отправки"`
}

type previewOutput struct {
	Body previewResponse
}

type previewResponse struct {
	Payload any `json:"payload"`
}

type remoteOutput struct {
	Body response.Raw
}

type existsOutput struct {
	Body existsResponse
}

type existsResponse struct {
	Key    string `json:"key"`
	Exists bool   `json:"exists"`
}

// ==================== Remote listing ====================

type listInput struct {
	Entity        string `path:"entity" example:"invoice" doc:"Тип сущности"`
	CreatedAfter  string `query:"created_after" doc:"Счета, созданные после даты; по умолчанию сегодня"`
	CreatedBefore string `query:"created_before" doc:"Счета, созданные до даты"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Count int            `json:"count"`
	Items []response.Raw `json:"items"`
}

type importOutput struct {
	Body importResponse
}

type importResponse struct {
	Imported int `json:"imported"`
}

type importRecordsOutput struct {
	Body entity.BatchResult
}

// ==================== Send log ====================

type sendLogInput struct {
	Entity   string `path:"entity" example:"vendor" doc:"Тип сущности"`
	Limit    int    `query:"limit" minimum:"0" default:"100" doc:"Размер страницы; 0 без ограничения"`
	AfterKey string `query:"after_key" doc:"Ключ, после которого начинается страница"`
}

type sendLogOutput struct {
	Body sendLogResponse
}

type sendLogResponse struct {
	Entries []sendlog.Entry `json:"entries"`
}

type typesOutput struct {
	Body typesResponse
}

type typesResponse struct {
	Types []string `json:"types"`
}
