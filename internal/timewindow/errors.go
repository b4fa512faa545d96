package timewindow

import (
	"fmt"
	"sort"
	"strings"
)

// Field - поле формы, к которому привязана ошибка
type Field string

const (
	FieldStartDate Field = "start_date"
	FieldEndDate   Field = "end_date"
	FieldStartTime Field = "start_time"
	FieldEndTime   Field = "end_time"
)

// ValidationError - ошибки ввода, которые пользователь может исправить
type ValidationError struct {
	Fields map[Field]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, string(field))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, e.Fields[Field(key)]))
	}
	return "invalid time window: " + strings.Join(parts, "; ")
}

// Has проверяет, есть ли ошибка для поля
func (e *ValidationError) Has(field Field) bool {
	_, ok := e.Fields[field]
	return ok
}

// add сохраняет первую ошибку поля
func (e *ValidationError) add(field Field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[Field]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}
