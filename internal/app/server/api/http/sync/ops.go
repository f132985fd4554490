package sync

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const basePath = "/api/v1/sync"

func (h *Handler) typesOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-types",
		Method:      http.MethodGet,
		Path:        basePath + "/entities",
		Summary:     "Поддерживаемые типы сущностей",
		Tags:        []string{"sync"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) batchAllOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-batch-all",
		Method:      http.MethodPost,
		Path:        basePath + "/batch",
		Summary:     "Пакетная отправка по нескольким типам",
		Description: "Для каждого типа по очереди: создание новых сущностей, затем обновление ранее отправленных.",
		Tags:        []string{"sync", "batch"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) batchOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-batch",
		Method:      http.MethodPost,
		Path:        basePath + "/{entity}/batch",
		Summary:     "Пакетная отправка одного типа",
		Tags:        []string{"sync", "batch"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) sendOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-send",
		Method:      http.MethodPost,
		Path:        basePath + "/{entity}/{key}/send",
		Summary:     "Отправить одну сущность",
		Tags:        []string{"sync"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) previewOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-preview",
		Method:      http.MethodGet,
		Path:        basePath + "/{entity}/{key}/preview",
		Summary:     "Тело запроса без отправки",
		Tags:        []string{"sync"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) remoteOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-remote-get",
		Method:      http.MethodGet,
		Path:        basePath + "/{entity}/{key}/remote",
		Summary:     "Сущность в удаленной системе",
		Tags:        []string{"remote"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) existsOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-remote-exists",
		Method:      http.MethodGet,
		Path:        basePath + "/{entity}/{key}/exists",
		Summary:     "Есть ли сущность в удаленной системе",
		Tags:        []string{"remote"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-remote-list",
		Method:      http.MethodGet,
		Path:        basePath + "/{entity}/remote",
		Summary:     "Список сущностей удаленной системы",
		Description: "Проходит все страницы. Для счетов учитываются даты создания.",
		Tags:        []string{"remote"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) importOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-import",
		Method:      http.MethodPost,
		Path:        basePath + "/{entity}/import",
		Summary:     "Отметить удаленные сущности в журнале отправки",
		Tags:        []string{"remote", "send-log"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) importRecordsOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-import-records",
		Method:      http.MethodPost,
		Path:        basePath + "/{entity}/import-records",
		Summary:     "Загрузить сущности из удаленной системы в локальную базу",
		Description: "Проходит список, запрашивает каждую сущность целиком и сохраняет заголовок и строки. Поддерживается для счетов.",
		Tags:        []string{"remote"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) sendLogOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-send-log",
		Method:      http.MethodGet,
		Path:        basePath + "/{entity}/log",
		Summary:     "Журнал отправки",
		Tags:        []string{"send-log"},
		Middlewares: h.middleware,
	}
}
