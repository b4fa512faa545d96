// Package calendar оборачивает удалённые календари (Google, CalDAV) единым интерфейсом.
package calendar

import (
	"context"

	"github.com/Freeeeeet/pto_bot/internal/model"
)

// Event - событие, которое бот создаёт в календаре
type Event struct {
	Title       string
	Description string
	Window      model.TimeWindow
}

// Gateway - операции над удалённым календарём.
// Повторов нет: ошибка сразу возвращается вызывающему.
type Gateway interface {
	CreateEvent(ctx context.Context, calendarID string, event Event) (string, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}
