package schema

// Record плоская запись локального хранилища: колонка -> скалярное значение.
// Детальные строки (позиции заказа, счета) лежат под отдельным ключом как []Record.
type Record map[string]any

// Payload вложенная структура, которая уходит в удаленное API
type Payload map[string]any

// Format формат вывода скалярного поля
type Format string

const (
	FormatNone     Format = ""
	FormatString   Format = "string"
	FormatCurrency Format = "currency"
	FormatDate     Format = "date"
)

// DefaultDateFormat формат даты по умолчанию (YYYY-MM-DD)
const DefaultDateFormat = "2006-01-02"

// Schema упорядоченное описание полей payload.
// Порядок объявления важен: при дублировании имени побеждает последнее поле.
type Schema []Field

// Field узел схемы. Реализации: ConstantField, ScalarField, ObjectField, ListField.
type Field interface {
	// FieldName имя поля в удаленном API
	FieldName() string
	project(rec Record, path string) (any, error)
}

// ConstantField всегда выводит Value, запись не читается
type ConstantField struct {
	Name  string
	Value any
}

func (f ConstantField) FieldName() string { return f.Name }

// ScalarField значение из колонки записи с форматированием
type ScalarField struct {
	Name       string
	SourceKey  string // по умолчанию совпадает с Name
	Default    any
	Required   bool
	MaxLength  int
	Format     Format
	DateFormat string
}

func (f ScalarField) FieldName() string { return f.Name }

func (f ScalarField) sourceKey() string {
	if f.SourceKey != "" {
		return f.SourceKey
	}
	return f.Name
}

// ObjectField вложенный объект.
// Если SourceKey указывает на вложенную запись, дочерние поля читаются из нее,
// иначе из той же плоской записи (адреса собираются из колонок заголовка).
type ObjectField struct {
	Name      string
	SourceKey string
	Children  Schema
}

func (f ObjectField) FieldName() string { return f.Name }

// ListField список объектов, Element применяется к каждому элементу.
// Пустой SourceKey означает список из одного элемента, построенного по текущей записи.
type ListField struct {
	Name      string
	SourceKey string
	Element   Schema
}

func (f ListField) FieldName() string { return f.Name }

// Names возвращает имена полей верхнего уровня в порядке объявления
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.FieldName())
	}
	return names
}
