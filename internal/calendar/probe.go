package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/pto_bot/internal/model"
)

const (
	ProbeTitle       = "PTO Bot Test (safe to delete)"
	probeDescription = "Created by the PTO bot to verify write access"
	probeDelay       = 2 * time.Minute
	probeDuration    = 30 * time.Minute
)

// VerifyWritable создаёт и сразу удаляет пробное событие.
// Ошибка означает, что писать в календарь нельзя.
func VerifyWritable(ctx context.Context, gateway Gateway, calendarID string, now time.Time) error {
	start := now.UTC().Add(probeDelay).Truncate(time.Second)

	eventID, err := gateway.CreateEvent(ctx, calendarID, Event{
		Title:       ProbeTitle,
		Description: probeDescription,
		Window: model.TimeWindow{
			Kind:     model.WindowTimed,
			Start:    start,
			End:      start.Add(probeDuration),
			Location: time.UTC,
		},
	})
	if err != nil {
		return fmt.Errorf("create probe event: %w", err)
	}

	if err := gateway.DeleteEvent(ctx, calendarID, eventID); err != nil && !errors.Is(err, ErrEventNotFound) {
		return fmt.Errorf("delete probe event %s: %w", eventID, err)
	}

	return nil
}
