package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Форматы, в которых даты лежат в локальном хранилище
var storedDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"20060102",
	"01/02/2006",
	"01/02/06",
}

var phpDateTokens = strings.NewReplacer(
	"YYYY", "2006",
	"MM", "01",
	"DD", "02",
	"Y", "2006",
	"y", "06",
	"m", "01",
	"n", "1",
	"d", "02",
	"j", "2",
	"H", "15",
	"i", "04",
	"s", "05",
)

func formatCurrency(v any) (string, error) {
	f, err := toFloat(v)
	if err != nil {
		return "", err
	}
	s := strconv.FormatFloat(f, 'f', 2, 64)
	if s == "-0.00" {
		s = "0.00"
	}
	return s, nil
}

func formatDate(v any, layout string) (string, error) {
	t, err := toTime(v)
	if err != nil {
		return "", err
	}
	return t.Format(goLayout(layout)), nil
}

// goLayout принимает как Go-раскладку, так и токены вида Y-m-d / YYYY-MM-DD
func goLayout(layout string) string {
	if layout == "" {
		return DefaultDateFormat
	}
	if isGoLayout(layout) {
		return layout
	}
	return phpDateTokens.Replace(layout)
}

// goLayoutWords словесные элементы эталонной даты Go
var goLayoutWords = []string{"Jan", "Mon", "MST", "PM", "pm"}

func isGoLayout(layout string) bool {
	if strings.ContainsAny(layout, "0123456789") {
		return true
	}
	for _, w := range goLayoutWords {
		if strings.Contains(layout, w) {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case uint32:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, t)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrInvalidNumber, v)
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case int64:
		return toTime(fmt.Sprintf("%08d", t))
	case int:
		return toTime(fmt.Sprintf("%08d", t))
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range storedDateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, t)
	}
	return time.Time{}, fmt.Errorf("%w: %T", ErrInvalidDate, v)
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case time.Time:
		return t.Format(time.RFC3339)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
