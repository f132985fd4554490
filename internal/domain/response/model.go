package response

// Raw сырой ответ удаленного API (разобранный JSON)
type Raw map[string]any

// Kind вид результата отправки
type Kind string

const (
	KindNone            Kind = ""
	KindValidation      Kind = "validation"
	KindRemoteRejection Kind = "remote_rejection"
	KindTransport       Kind = "transport"
	KindSoftConflict    Kind = "soft_conflict"
	KindStore           Kind = "store"
)

// Outcome нормализованный результат одного удаленного вызова
type Outcome struct {
	EntityKey    string `json:"entity_key"`
	Succeeded    bool   `json:"succeeded"`
	Kind         Kind   `json:"kind,omitempty"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	FieldCode    string `json:"field_code,omitempty"`
	Message      string `json:"message,omitempty"`
	// ConfirmsExistence: вызов не удался, но сущность на стороне API точно есть
	ConfirmsExistence bool `json:"confirms_existence,omitempty"`
	Raw               Raw  `json:"raw,omitempty"`
}

// Failed удобный обратный флаг для сортировки по корзинам success/error
func (o Outcome) Failed() bool {
	return !o.Succeeded
}

// ShouldLog нужно ли обновить журнал отправки по итогам вызова
func (o Outcome) ShouldLog() bool {
	return o.Succeeded || o.ConfirmsExistence
}

// Failure создает неуспешный результат без ответа API (валидация, транспорт, хранилище)
func Failure(key string, kind Kind, message string) Outcome {
	return Outcome{
		EntityKey: key,
		Kind:      kind,
		Message:   message,
	}
}

// String значение по ключу как строка; отсутствующие ключи дают ""
func (r Raw) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return trimFloat(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	return stringify(r[key])
}

// Truthy истинность значения в духе слабо типизированного API
func (r Raw) Truthy(key string) bool {
	switch v := r[key].(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "0" && v != "false"
	case float64:
		return v != 0
	case int:
		return v != 0
	case map[string]any:
		return len(v) > 0
	case []any:
		return len(v) > 0
	}
	return true
}

// Has присутствует ли ключ с непустым значением
func (r Raw) Has(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

// Object вложенный объект по ключу
func (r Raw) Object(key string) (Raw, bool) {
	switch v := r[key].(type) {
	case map[string]any:
		return Raw(v), true
	case Raw:
		return v, true
	}
	return nil, false
}

// Items список вложенных объектов по ключу; не-объекты пропускаются
func (r Raw) Items(key string) []Raw {
	switch list := r[key].(type) {
	case []Raw:
		return list
	case []map[string]any:
		out := make([]Raw, len(list))
		for i, m := range list {
			out[i] = Raw(m)
		}
		return out
	case []any:
		out := make([]Raw, 0, len(list))
		for _, item := range list {
			switch m := item.(type) {
			case map[string]any:
				out = append(out, Raw(m))
			case Raw:
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
