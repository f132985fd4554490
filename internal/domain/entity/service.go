package entity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"concursync/internal/domain/pagination"
	"concursync/internal/domain/response"
	"concursync/internal/domain/schema"
)

// Servicer операции синхронизации одного типа сущности
type Servicer interface {
	Type() string
	GetOne(ctx context.Context, key string) (response.Raw, error)
	ExistsRemotely(ctx context.Context, key string) (bool, error)
	Preview(ctx context.Context, key string, op Op) (any, error)
	Create(ctx context.Context, key string) response.Outcome
	Update(ctx context.Context, key string) response.Outcome
	SendOneAuto(ctx context.Context, key string) response.Outcome
	BatchCreate(ctx context.Context, limit int, afterKey string) (BatchResult, error)
	BatchUpdate(ctx context.Context, limit int, afterKey string) (BatchResult, error)
	BatchAuto(ctx context.Context, limit int, afterKey string) (AutoResult, error)
	ListRemote(ctx context.Context, query url.Values) ([]response.Raw, error)
	ImportRemoteKeys(ctx context.Context) (int, error)
	ImportRecords(ctx context.Context, query url.Values) (BatchResult, error)
}

// Service синхронизатор, параметризованный описанием сущности
type Service struct {
	def        Definition
	store      Store
	sendLog    SendLog
	transport  Transport
	writer     RecordWriter
	classifier *response.Classifier
	// listClassifier без правил сущности: проверки вроде StatusList относятся к ответам на отправку
	listClassifier *response.Classifier
	log            *slog.Logger
	workers        int
	now            func() time.Time
}

type Option func(*Service)

// WithConcurrency сколько сущностей пакета обрабатывается параллельно
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock источник времени для журнала отправки
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRecordWriter хранилище для ImportRecords
func WithRecordWriter(w RecordWriter) Option {
	return func(s *Service) {
		s.writer = w
	}
}

// NewService создает синхронизатор для описания def
func NewService(def Definition, store Store, sendLog SendLog, transport Transport, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		def:            def,
		store:          store,
		sendLog:        sendLog,
		transport:      transport,
		classifier:     response.NewClassifier(def.Rules),
		listClassifier: response.NewClassifier(response.Rules{}),
		log:            log.With("component", "entity_service", "entity_type", def.Type),
		workers:        1,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Type тип сущности сервиса
func (s *Service) Type() string {
	return s.def.Type
}

// GetOne запрашивает сущность по ключу
func (s *Service) GetOne(ctx context.Context, key string) (response.Raw, error) {
	if s.def.ExistsBy == ExistsSendLog {
		return nil, ErrLookupUnsupported
	}

	target := s.lookupURL(key)
	raw, err := s.transport.Get(ctx, target)
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: target, Err: err}
	}
	return raw, nil
}

// ExistsRemotely существование определяется по содержимому ответа, а не по HTTP-статусу
func (s *Service) ExistsRemotely(ctx context.Context, key string) (bool, error) {
	raw, err := s.GetOne(ctx, key)
	if err != nil {
		return false, err
	}
	return s.def.exists(raw, key), nil
}

// Preview тело запроса, которое было бы отправлено для ключа
func (s *Service) Preview(ctx context.Context, key string, op Op) (any, error) {
	rec, err := s.store.Record(ctx, s.def.Type, key)
	if err != nil {
		return nil, fmt.Errorf("load record: %w", err)
	}
	payload, err := s.payload(rec)
	if err != nil {
		return nil, err
	}
	return s.def.envelope(payload, op), nil
}

// Create отправляет сущность как новую
func (s *Service) Create(ctx context.Context, key string) response.Outcome {
	return s.send(ctx, key, OpCreate)
}

// Update отправляет сущность как уже существующую
func (s *Service) Update(ctx context.Context, key string) response.Outcome {
	return s.send(ctx, key, OpUpdate)
}

// SendOneAuto обновляет существующую сущность или создает новую
func (s *Service) SendOneAuto(ctx context.Context, key string) response.Outcome {
	exists, err := s.exists(ctx, key)
	if err != nil {
		out := response.Failure(key, kindOf(err), err.Error())
		s.report(out, "exists")
		return out
	}
	if exists {
		return s.Update(ctx, key)
	}
	return s.Create(ctx, key)
}

// BatchCreate отправляет сущности, которых еще нет в журнале
func (s *Service) BatchCreate(ctx context.Context, limit int, afterKey string) (BatchResult, error) {
	if limit < 0 {
		return BatchResult{}, fmt.Errorf("%w: %d", ErrNegativeLimit, limit)
	}
	keys, err := s.store.NewKeys(ctx, s.def.Type, limit, afterKey)
	if err != nil {
		s.log.Error("failed to list new keys", "error", err)
		return BatchResult{}, fmt.Errorf("list new keys: %w", err)
	}
	return s.run(ctx, keys, s.Create), nil
}

// BatchUpdate повторно отправляет сущности из журнала
func (s *Service) BatchUpdate(ctx context.Context, limit int, afterKey string) (BatchResult, error) {
	if limit < 0 {
		return BatchResult{}, fmt.Errorf("%w: %d", ErrNegativeLimit, limit)
	}
	keys, err := s.store.LoggedKeys(ctx, s.def.Type, limit, afterKey)
	if err != nil {
		s.log.Error("failed to list logged keys", "error", err)
		return BatchResult{}, fmt.Errorf("list logged keys: %w", err)
	}
	return s.run(ctx, keys, s.Update), nil
}

// BatchAuto сначала создает новые сущности, остаток лимита уходит на обновления.
// Оба списка ключей читаются до отправки, чтобы только что созданные не попали в обновление.
func (s *Service) BatchAuto(ctx context.Context, limit int, afterKey string) (AutoResult, error) {
	if limit < 0 {
		return AutoResult{}, fmt.Errorf("%w: %d", ErrNegativeLimit, limit)
	}
	newKeys, err := s.store.NewKeys(ctx, s.def.Type, limit, afterKey)
	if err != nil {
		s.log.Error("failed to list new keys", "error", err)
		return AutoResult{}, fmt.Errorf("list new keys: %w", err)
	}

	var loggedKeys []string
	quota := 0
	if limit > 0 {
		quota = max(limit-len(newKeys), 0)
	}
	if limit == 0 || quota > 0 {
		loggedKeys, err = s.store.LoggedKeys(ctx, s.def.Type, quota, afterKey)
		if err != nil {
			s.log.Error("failed to list logged keys", "error", err)
			return AutoResult{}, fmt.Errorf("list logged keys: %w", err)
		}
	}

	res := AutoResult{
		Created: s.run(ctx, newKeys, s.Create),
		Updated: s.run(ctx, loggedKeys, s.Update),
	}

	s.log.Info("batch finished",
		"created", len(res.Created.Success), "create_errors", len(res.Created.Error),
		"updated", len(res.Updated.Success), "update_errors", len(res.Updated.Error))

	return res, nil
}

// ListRemote проходит все страницы списка
func (s *Service) ListRemote(ctx context.Context, query url.Values) ([]response.Raw, error) {
	if s.def.Endpoints.Search == "" {
		return nil, ErrLookupUnsupported
	}

	first, err := s.listURL(query)
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, cursor string) (response.Raw, error) {
		target := first
		if cursor != "" {
			target = cursor
		}
		raw, err := s.transport.Get(ctx, target)
		if err != nil {
			return nil, &TransportError{Method: http.MethodGet, URL: target, Err: err}
		}
		if out := s.listClassifier.Classify("", raw); out.Failed() {
			return nil, fmt.Errorf("list %s: %s", s.def.Type, out.Message)
		}
		return raw, nil
	}

	items, err := pagination.Collect(ctx, fetch, pagination.Items(s.def.listItems()), pagination.NextPage)
	if err != nil {
		s.log.Error("failed to list remote entities", "error", err)
		return nil, err
	}
	return items, nil
}

// ImportRemoteKeys отмечает в журнале все сущности, уже существующие в удаленной системе
func (s *Service) ImportRemoteKeys(ctx context.Context) (int, error) {
	items, err := s.ListRemote(ctx, nil)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, item := range items {
		key := item.String(s.def.listKeyField())
		if key == "" {
			continue
		}
		if _, err := s.sendLog.Upsert(ctx, key, s.now()); err != nil {
			return imported, fmt.Errorf("import %s: %w", key, err)
		}
		imported++
	}

	s.log.Info("remote keys imported", "count", imported)
	return imported, nil
}

// ImportRecords загружает полные сущности по списку удаленной системы и сохраняет их локально.
// Ошибка возвращается, только если не удалось получить сам список.
func (s *Service) ImportRecords(ctx context.Context, query url.Values) (BatchResult, error) {
	if s.def.Unmap == nil || s.writer == nil {
		return BatchResult{}, ErrImportUnsupported
	}

	items, err := s.ListRemote(ctx, query)
	if err != nil {
		return BatchResult{}, err
	}

	keys := make([]string, 0, len(items))
	for _, item := range items {
		if key := item.String(s.def.listKeyField()); key != "" {
			keys = append(keys, key)
		}
	}

	res := s.run(ctx, keys, s.importOne)
	s.log.Info("remote records imported", "imported", len(res.Success), "errors", len(res.Error))
	return res, nil
}

func (s *Service) importOne(ctx context.Context, key string) response.Outcome {
	raw, err := s.GetOne(ctx, key)
	if err != nil {
		out := response.Failure(key, kindOf(err), err.Error())
		s.report(out, "import")
		return out
	}
	if out := s.listClassifier.Classify(key, raw); out.Failed() {
		s.report(out, "import")
		return out
	}

	rec := s.def.Unmap(raw)
	if s.def.Prepare != nil {
		rec = s.def.Prepare(rec)
	}
	if err := s.writer.SaveRecord(ctx, s.def.Type, rec); err != nil {
		out := response.Failure(key, response.KindStore, err.Error())
		s.report(out, "import")
		return out
	}

	out := response.Outcome{EntityKey: key, Succeeded: true, Message: "imported"}
	s.report(out, "import")
	return out
}

func (s *Service) send(ctx context.Context, key string, op Op) response.Outcome {
	rec, err := s.store.Record(ctx, s.def.Type, key)
	if err != nil {
		out := response.Failure(key, response.KindStore, err.Error())
		s.report(out, op)
		return out
	}

	payload, err := s.payload(rec)
	if err != nil {
		out := response.Failure(key, response.KindValidation, err.Error())
		s.report(out, op)
		return out
	}

	method := s.def.method(op)
	target := s.def.Endpoints.Entity
	if op == OpUpdate && s.def.Endpoints.UpdateWithKey {
		target = joinPath(target, key)
	}

	raw, err := s.call(ctx, method, target, s.def.envelope(payload, op))
	if err != nil {
		terr := &TransportError{Method: method, URL: target, Err: err}
		out := response.Failure(key, response.KindTransport, terr.Error())
		s.report(out, op)
		return out
	}

	out := s.classifier.Classify(key, raw)
	if out.ShouldLog() {
		if _, err := s.sendLog.Upsert(ctx, key, s.now()); err != nil {
			if out.Succeeded {
				out.Succeeded = false
				out.Kind = response.KindStore
				out.Message = fmt.Sprintf("sent, but send log not updated: %v", err)
			} else {
				s.log.Error("failed to record existing entity in send log", "key", key, "error", err)
				out.Message = fmt.Sprintf("%s (send log not updated: %v)", out.Message, err)
			}
		}
	}

	s.report(out, op)
	return out
}

func (s *Service) payload(rec schema.Record) (schema.Payload, error) {
	if s.def.Prepare != nil {
		rec = s.def.Prepare(rec)
	}
	return schema.Project(s.def.Schema, rec)
}

func (s *Service) call(ctx context.Context, method, target string, body any) (response.Raw, error) {
	switch method {
	case http.MethodPost:
		return s.transport.Post(ctx, target, body)
	case http.MethodPut:
		return s.transport.Put(ctx, target, body)
	}
	return nil, fmt.Errorf("unsupported method %s", method)
}

func (s *Service) exists(ctx context.Context, key string) (bool, error) {
	if s.def.ExistsBy == ExistsSendLog {
		ok, err := s.sendLog.Exists(ctx, key)
		if err != nil {
			return false, fmt.Errorf("check send log: %w", err)
		}
		return ok, nil
	}
	return s.ExistsRemotely(ctx, key)
}

// run обрабатывает ключи; для одного ключа все шаги идут последовательно в одной горутине
func (s *Service) run(ctx context.Context, keys []string, fn func(ctx context.Context, key string) response.Outcome) BatchResult {
	outcomes := make([]response.Outcome, len(keys))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = response.Failure(key, response.KindTransport, err.Error())
				return nil
			}
			outcomes[i] = fn(ctx, key)
			return nil
		})
	}
	_ = g.Wait()

	res := NewBatchResult()
	for _, out := range outcomes {
		res.add(out)
	}
	return res
}

func (s *Service) report(out response.Outcome, op any) {
	if out.Succeeded {
		s.log.Debug("entity sent", "key", out.EntityKey, "op", op)
		return
	}
	s.log.Error("failed to send entity",
		"key", out.EntityKey, "op", op, "kind", out.Kind, "message", out.Message)
}

func (s *Service) lookupURL(key string) string {
	base := s.def.Endpoints.Entity
	if s.def.Endpoints.KeyQuery == "" {
		return joinPath(base, key)
	}

	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + url.Values{s.def.Endpoints.KeyQuery: {key}}.Encode()
	}
	q := u.Query()
	q.Set(s.def.Endpoints.KeyQuery, key)
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Service) listURL(query url.Values) (string, error) {
	u, err := url.Parse(s.def.Endpoints.Search)
	if err != nil {
		return "", fmt.Errorf("parse search url: %w", err)
	}
	q := u.Query()
	for k, v := range s.def.Endpoints.ListQuery {
		q[k] = v
	}
	for k, v := range query {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func joinPath(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(key)
}

func kindOf(err error) response.Kind {
	var terr *TransportError
	if errors.As(err, &terr) {
		return response.KindTransport
	}
	return response.KindStore
}
