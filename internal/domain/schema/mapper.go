package schema

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Project строит payload по схеме из локальной записи.
// Функция чистая: запись не изменяется, побочных эффектов нет.
func Project(s Schema, rec Record) (Payload, error) {
	return projectSchema(s, rec, "")
}

func projectSchema(s Schema, rec Record, prefix string) (Payload, error) {
	out := make(Payload, len(s))
	for _, f := range s {
		path := f.FieldName()
		if prefix != "" {
			path = prefix + "." + path
		}

		v, err := f.project(rec, path)
		if err != nil {
			return nil, err
		}
		out[f.FieldName()] = v
	}
	return out, nil
}

func (f ConstantField) project(_ Record, _ string) (any, error) {
	return f.Value, nil
}

func (f ScalarField) project(rec Record, path string) (any, error) {
	raw := unwrap(rec[f.sourceKey()])

	if isEmpty(raw) {
		if f.Default == nil {
			if f.Required {
				return nil, &ValidationError{Field: path, Err: ErrRequired}
			}
			return "", nil
		}
		raw = f.Default
	}

	v, err := f.format(raw)
	if err != nil {
		return nil, &ValidationError{Field: path, Err: err}
	}

	if f.MaxLength > 0 {
		v = truncate(toString(v), f.MaxLength)
	}
	return v, nil
}

func (f ScalarField) format(raw any) (any, error) {
	switch f.Format {
	case FormatCurrency:
		return formatCurrency(raw)
	case FormatDate:
		return formatDate(raw, f.DateFormat)
	case FormatString:
		return toString(raw), nil
	default:
		return raw, nil
	}
}

func (f ObjectField) project(rec Record, path string) (any, error) {
	src := rec
	if f.SourceKey != "" {
		nested, ok := asRecord(rec[f.SourceKey])
		if !ok {
			nested = Record{}
		}
		src = nested
	}
	return projectSchema(f.Children, src, path)
}

func (f ListField) project(rec Record, path string) (any, error) {
	if f.SourceKey == "" {
		el, err := projectSchema(f.Element, rec, path+"[0]")
		if err != nil {
			return nil, err
		}
		return []Payload{el}, nil
	}

	items, err := asRecords(rec[f.SourceKey])
	if err != nil {
		return nil, &ValidationError{Field: path, Err: err}
	}

	out := make([]Payload, 0, len(items))
	for i, item := range items {
		el, err := projectSchema(f.Element, item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// unwrap раскрывает значения драйверов БД (pgtype.Numeric и т.п.) и []byte
func unwrap(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case driver.Valuer:
		dv, err := t.Value()
		if err != nil {
			return v
		}
		if b, ok := dv.([]byte); ok {
			return string(b)
		}
		return dv
	}
	return v
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func asRecord(v any) (Record, bool) {
	switch t := v.(type) {
	case Record:
		return t, true
	case map[string]any:
		return Record(t), true
	}
	return nil, false
}

func asRecords(v any) ([]Record, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []Record:
		return t, nil
	case []map[string]any:
		out := make([]Record, len(t))
		for i, m := range t {
			out[i] = Record(m)
		}
		return out, nil
	case []any:
		out := make([]Record, 0, len(t))
		for _, item := range t {
			r, ok := asRecord(item)
			if !ok {
				return nil, ErrInvalidList
			}
			out = append(out, r)
		}
		return out, nil
	}
	return nil, ErrInvalidList
}
