package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"concursync/internal/domain/schema"
)

var ErrMissingKey = errors.New("record has no key value")

// Placeholder параметр запроса с номером n (с 1) в синтаксисе драйвера
type Placeholder func(n int) string

// Columns колонки записи по алфавиту и их значения; строки под DetailField пропускаются
func Columns(rec schema.Record) ([]string, []any) {
	columns := make([]string, 0, len(rec))
	for k := range rec {
		if k != DetailField {
			columns = append(columns, k)
		}
	}
	sort.Strings(columns)

	values := make([]any, len(columns))
	for i, c := range columns {
		values[i] = rec[c]
	}
	return columns, values
}

// RecordKey значение ключевой колонки записи
func RecordKey(src Source, rec schema.Record) (string, error) {
	v, ok := rec[src.KeyColumn]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingKey, src.KeyColumn)
	}
	key := strings.TrimSpace(fmt.Sprint(v))
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingKey, src.KeyColumn)
	}
	return key, nil
}

// DetailRows строки записи; nil, если их нет
func DetailRows(rec schema.Record) []schema.Record {
	lines, _ := rec[DetailField].([]schema.Record)
	return lines
}

// InsertQuery INSERT одной строки
func InsertQuery(table string, columns []string, ph Placeholder) string {
	quoted := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = QuoteIdent(c)
		params[i] = ph(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(table), strings.Join(quoted, ", "), strings.Join(params, ", "))
}

// UpsertQuery INSERT с обновлением переданных колонок при конфликте по ключу.
// Синтаксис ON CONFLICT ... excluded общий для postgres и sqlite.
func UpsertQuery(table, keyColumn string, columns []string, ph Placeholder) string {
	var set []string
	for _, c := range columns {
		if c == keyColumn {
			continue
		}
		set = append(set, fmt.Sprintf("%[1]s = excluded.%[1]s", QuoteIdent(c)))
	}

	query := InsertQuery(table, columns, ph) + " ON CONFLICT (" + QuoteIdent(keyColumn) + ")"
	if len(set) == 0 {
		return query + " DO NOTHING"
	}
	return query + " DO UPDATE SET " + strings.Join(set, ", ")
}

// DeleteQuery удаление строк по значению колонки
func DeleteQuery(table, column string, ph Placeholder) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = %s", QuoteIdent(table), QuoteIdent(column), ph(1))
}
