package response

import (
	"fmt"
	"strconv"
	"strings"
)

const statusFailure = "FAILURE"

// SoftFailure фраза в сообщении API, которая означает неуспех при "успешном" ответе
type SoftFailure struct {
	Phrase string
	// ConfirmsExistence: сущность на стороне API существует, журнал отправки обновляется
	ConfirmsExistence bool
}

// Check дополнительная проверка ответа, специфичная для типа сущности
type Check func(raw Raw) (message string, failed bool)

// Rules набор правил классификации для одного типа сущности
type Rules struct {
	SoftFailures []SoftFailure
	Checks       []Check
	// Prefix добавляется к тексту ошибки вида ErrorCode/FieldCode
	Prefix func(key string, raw Raw) string
}

// DefaultSoftFailures фразы, которые API возвращает при конфликте существования
var DefaultSoftFailures = []SoftFailure{
	{Phrase: "cannot be updated as it does not exist in system"},
	{Phrase: "cannot be created as it does exist in system", ConfirmsExistence: true},
}

// Classifier сводит разнородные ответы API к единому Outcome
type Classifier struct {
	rules Rules
}

// NewClassifier создает классификатор, без SoftFailures берутся DefaultSoftFailures
func NewClassifier(rules Rules) *Classifier {
	if rules.SoftFailures == nil {
		rules.SoftFailures = DefaultSoftFailures
	}
	return &Classifier{rules: rules}
}

// Classify применяет правила по порядку, срабатывает первое подходящее
func (c *Classifier) Classify(key string, raw Raw) Outcome {
	if raw == nil {
		raw = Raw{}
	}

	status := raw.String("Status")
	message := raw.String("Message")

	out := Outcome{
		EntityKey:    key,
		ErrorCode:    raw.String("ErrorCode"),
		ErrorMessage: raw.String("ErrorMessage"),
		FieldCode:    raw.String("FieldCode"),
		Raw:          raw,
	}

	if raw.Truthy("error") || status == statusFailure {
		out.Kind = KindRemoteRejection
		out.Message = failureMessage(out.ErrorCode, out.ErrorMessage, message, out.FieldCode)
		if errObj, ok := raw.Object("Error"); ok && out.ErrorCode == "" && out.ErrorMessage == "" && message == "" {
			out.ErrorMessage = errObj.String("Message")
			out.Message = errorObjectMessage(errObj)
		}
		if out.ErrorCode != "" && c.rules.Prefix != nil {
			if prefix := c.rules.Prefix(key, raw); prefix != "" {
				out.Message = prefix + " -> " + out.Message
			}
		}
		c.markSoft(&out, out.Message)
		return out
	}

	if errObj, ok := raw.Object("Error"); ok {
		out.Kind = KindRemoteRejection
		out.ErrorMessage = errObj.String("Message")
		out.Message = errorObjectMessage(errObj)
		c.markSoft(&out, out.ErrorMessage)
		return out
	}

	if c.markSoft(&out, message) {
		out.Message = message
		return out
	}

	for _, check := range c.rules.Checks {
		if msg, failed := check(raw); failed {
			out.Kind = KindRemoteRejection
			out.Message = msg
			return out
		}
	}

	out.Succeeded = true
	out.Message = message
	return out
}

func (c *Classifier) markSoft(out *Outcome, message string) bool {
	lower := strings.ToLower(message)
	if lower == "" {
		return false
	}
	for _, sf := range c.rules.SoftFailures {
		if strings.Contains(lower, strings.ToLower(sf.Phrase)) {
			out.Succeeded = false
			out.Kind = KindSoftConflict
			out.ConfirmsExistence = sf.ConfirmsExistence
			return true
		}
	}
	return false
}

// failureMessage собирает "ErrorCode: X -> текст -> FieldCode: Y", пустые части опускаются
func failureMessage(code, errMessage, message, field string) string {
	parts := make([]string, 0, 3)
	if code != "" {
		parts = append(parts, "ErrorCode: "+code)
	}
	if errMessage != "" {
		parts = append(parts, errMessage)
	} else if message != "" {
		parts = append(parts, message)
	}
	if field != "" {
		parts = append(parts, "FieldCode: "+field)
	}
	return strings.Join(parts, " -> ")
}

// errorObjectMessage "Message @ Server-Time ID: Id" из объекта Error
func errorObjectMessage(errObj Raw) string {
	return fmt.Sprintf("%s @ %s ID: %s",
		errObj.String("Message"), errObj.String("Server-Time"), errObj.String("Id"))
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func stringify(v any) string {
	return fmt.Sprint(v)
}
