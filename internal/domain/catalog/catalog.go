// Package catalog описывает типы сущностей Concur: схемы, адреса API и правила разбора ответов.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"concursync/internal/domain/entity"
	"concursync/internal/domain/schema"
)

const (
	TypeVendor        = "vendor"
	TypePurchaseOrder = "purchase_order"
	TypeReceipt       = "po_receipt"
	TypeInvoice       = "invoice"
	TypeListItem      = "list_item"
)

// DetailKey ключ вложенных строк (строки заказа, строки счета) в локальной записи
const DetailKey = "lines"

const DefaultBaseURL = "https://www.concursolutions.com"

type Config struct {
	BaseURL string
	// ListID список Concur, в который выгружаются элементы списка
	ListID string
}

// Registry описания всех поддерживаемых типов сущностей
type Registry struct {
	defs map[string]entity.Definition
}

// New создает реестр всех поддерживаемых типов сущностей
func New(cfg Config) *Registry {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	defs := []entity.Definition{
		vendor(base),
		purchaseOrder(base),
		receipt(base),
		invoice(base),
		listItem(base, cfg.ListID),
	}

	r := &Registry{defs: make(map[string]entity.Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.Type] = d
	}
	return r
}

func (r *Registry) Get(entityType string) (entity.Definition, error) {
	d, ok := r.defs[entityType]
	if !ok {
		return entity.Definition{}, fmt.Errorf("unknown entity type %q", entityType)
	}
	return d, nil
}

// Types типы сущностей в порядке выгрузки: поставщики раньше заказов, заказы раньше приемок
func (r *Registry) Types() []string {
	order := map[string]int{
		TypeVendor:        0,
		TypePurchaseOrder: 1,
		TypeReceipt:       2,
		TypeInvoice:       3,
		TypeListItem:      4,
	}
	out := make([]string, 0, len(r.defs))
	for t := range r.defs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}

func endpoint(base, path string) string {
	return base + path
}

// clone поверхностная копия записи, чтобы Prepare не менял исходную
func clone(rec schema.Record) schema.Record {
	out := make(schema.Record, len(rec)+1)
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	if b, ok := v.([]byte); ok {
		return strings.TrimSpace(string(b)) == ""
	}
	return false
}

func records(v any) ([]schema.Record, bool) {
	switch t := v.(type) {
	case []schema.Record:
		return t, true
	case []map[string]any:
		out := make([]schema.Record, len(t))
		for i, m := range t {
			out[i] = schema.Record(m)
		}
		return out, true
	case []any:
		out := make([]schema.Record, 0, len(t))
		for _, item := range t {
			switch m := item.(type) {
			case schema.Record:
				out = append(out, m)
			case map[string]any:
				out = append(out, schema.Record(m))
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}
