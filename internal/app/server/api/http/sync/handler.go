package sync

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"concursync/internal/app/engine"
	"concursync/internal/domain/catalog"
	"concursync/internal/domain/entity"
	"concursync/internal/domain/response"
	"concursync/internal/domain/schema"
	"concursync/internal/domain/sendlog"
)

// Syncer операции движка, доступные через API
type Syncer interface {
	Types() []string
	Service(entityType string) (entity.Servicer, error)
	Run(ctx context.Context, entityType string, limit int, afterKey string) (engine.Run, error)
	RunAll(ctx context.Context, types []string, limit int) []engine.Run
	SendLog(ctx context.Context, entityType string, limit int, afterKey string) ([]sendlog.Entry, error)
}

type Handler struct {
	syncer     Syncer
	log        *slog.Logger
	middleware huma.Middlewares
	now        func() time.Time
}

// NewHandler создает обработчики API синхронизации
func NewHandler(syncer Syncer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		syncer:     syncer,
		log:        log,
		middleware: mws,
		now:        time.Now,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.typesOp(), h.types)
	huma.Register(api, h.batchAllOp(), h.batchAll)
	huma.Register(api, h.batchOp(), h.batch)
	huma.Register(api, h.sendOp(), h.send)
	huma.Register(api, h.previewOp(), h.preview)
	huma.Register(api, h.remoteOp(), h.remote)
	huma.Register(api, h.existsOp(), h.exists)
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.importOp(), h.importKeys)
	huma.Register(api, h.importRecordsOp(), h.importRecords)
	huma.Register(api, h.sendLogOp(), h.sendLog)
}

func (h *Handler) types(_ context.Context, _ *struct{}) (*typesOutput, error) {
	return &typesOutput{Body: typesResponse{Types: h.syncer.Types()}}, nil
}

func (h *Handler) batchAll(ctx context.Context, input *batchAllInput) (*batchAllOutput, error) {
	runs := h.syncer.RunAll(ctx, input.Body.Types, input.Body.Limit)
	return &batchAllOutput{Body: batchAllResponse{Runs: runs}}, nil
}

func (h *Handler) batch(ctx context.Context, input *batchInput) (*batchOutput, error) {
	run, err := h.syncer.Run(ctx, input.Entity, input.Body.Limit, input.Body.AfterKey)
	if err != nil {
		return nil, h.httpError(err)
	}
	return &batchOutput{Body: run}, nil
}

func (h *Handler) send(ctx context.Context, input *sendInput) (*sendOutput, error) {
	svc, err := h.syncer.Service(input.Entity)
	if err != nil {
		return nil, h.httpError(err)
	}

	var out response.Outcome
	switch entity.Op(input.Op) {
	case entity.OpCreate:
		out = svc.Create(ctx, input.Key)
	case entity.OpUpdate:
		out = svc.Update(ctx, input.Key)
	default:
		out = svc.SendOneAuto(ctx, input.Key)
	}
	return &sendOutput{Body: out}, nil
}

func (h *Handler) preview(ctx context.Context, input *previewInput) (*previewOutput, error) {
	svc, err := h.syncer.Service(input.Entity)
	if err != nil {
		return nil, h.httpError(err)
	}

	op := entity.OpCreate
	if entity.Op(input.Op) == entity.OpUpdate {
		op = entity.OpUpdate
	}

	payload, err := svc.Preview(ctx, input.Key, op)
	if err != nil {
		return nil, h.httpError(err)
	}
	return &previewOutput{Body: previewResponse{Payload: payload}}, nil
}

func (h *Handler) remote(ctx context.Context, input *keyInput) (*remoteOutput, error) {
	svc, err := h.syncer.Service(input.Entity)
	if err != nil {
		return nil, h.httpError(err)
	}

	raw, err := svc.GetOne(ctx, input.Key)
	if err != nil {
		return nil, h.httpError(err)
	}
	return &remoteOutput{Body: raw}, nil
}

func (h *Handler) exists(ctx context.Context, input *keyInput) (*existsOutput, error) {
	svc, err := h.syncer.Service(input.Entity)
	if err != nil {
		return nil, h.httpError(err)
	}

	ok, err := svc.ExistsRemotely(ctx, input.Key)
	if err != nil {
		return nil, h.httpError(err)
	}
	return &existsOutput{Body: existsResponse{Key: input.Key, Exists: ok}}, nil
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	svc, err := h.syncer.Service(input.Entity)
	if err != nil {
		return nil, h.httpError(err)
	}

	query, err := h.searchQuery(input)
	if err != nil {
		return nil, err
	}

	items, err := svc.ListRemote(ctx, query)
	if err != nil {
		return nil, h.httpError(err)
	}
	if items == nil {
		items = []response.Raw{}
	}
	return &listOutput{Body: listResponse{Count: len(items), Items: items}}, nil
}

func (h *Handler) importKeys(ctx context.Context, input *entityInput) (*importOutput, error) {
	svc, err := h.syncer.Service(input.Entity)
	if err != nil {
		return nil, h.httpError(err)
	}

	n, err := svc.ImportRemoteKeys(ctx)
	if err != nil {
		return nil, h.httpError(err)
	}
	return &importOutput{Body: importResponse{Imported: n}}, nil
}

func (h *Handler) importRecords(ctx context.Context, input *listInput) (*importRecordsOutput, error) {
	svc, err := h.syncer.Service(input.Entity)
	if err != nil {
		return nil, h.httpError(err)
	}

	query, err := h.searchQuery(input)
	if err != nil {
		return nil, err
	}

	res, err := svc.ImportRecords(ctx, query)
	if err != nil {
		return nil, h.httpError(err)
	}
	return &importRecordsOutput{Body: res}, nil
}

// searchQuery параметры списка; для счетов отбор по датам создания
func (h *Handler) searchQuery(input *listInput) (url.Values, error) {
	if input.Entity != catalog.TypeInvoice {
		return nil, nil
	}
	query, err := catalog.InvoiceSearchQuery(input.CreatedAfter, input.CreatedBefore, h.now())
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return query, nil
}

func (h *Handler) sendLog(ctx context.Context, input *sendLogInput) (*sendLogOutput, error) {
	entries, err := h.syncer.SendLog(ctx, input.Entity, input.Limit, input.AfterKey)
	if err != nil {
		return nil, h.httpError(err)
	}
	return &sendLogOutput{Body: sendLogResponse{Entries: entries}}, nil
}

// httpError переводит доменные ошибки в статусы HTTP
func (h *Handler) httpError(err error) error {
	var validationErr *schema.ValidationError
	var transportErr *entity.TransportError

	switch {
	case errors.Is(err, engine.ErrUnknownEntity), errors.Is(err, entity.ErrRecordNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, entity.ErrLookupUnsupported), errors.Is(err, entity.ErrImportUnsupported),
		errors.Is(err, entity.ErrNegativeLimit):
		return huma.Error400BadRequest(err.Error())
	case errors.As(err, &validationErr):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.As(err, &transportErr):
		h.log.Error("remote call failed", "error", err)
		return huma.Error502BadGateway(err.Error())
	default:
		h.log.Error("request failed", "error", err)
		return huma.Error500InternalServerError("internal error")
	}
}
