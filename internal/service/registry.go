package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/pto_bot/internal/model"
	"go.uber.org/zap"
)

// ChannelRegistry сопоставляет канал с календарём, в который пишутся его заявки.
// Проверку записи в календарь делает вызывающий код.
type ChannelRegistry struct {
	store           ChannelStore
	defaultCalendar string
	now             func() time.Time
	logger          *zap.Logger
}

func NewChannelRegistry(store ChannelStore, defaultCalendar string, logger *zap.Logger) *ChannelRegistry {
	return &ChannelRegistry{
		store:           store,
		defaultCalendar: defaultCalendar,
		now:             time.Now,
		logger:          logger,
	}
}

// Default возвращает календарь по умолчанию
func (r *ChannelRegistry) Default() string {
	return r.defaultCalendar
}

// Resolve возвращает календарь канала или календарь по умолчанию. Не падает никогда.
func (r *ChannelRegistry) Resolve(ctx context.Context, channelID string) string {
	if channelID == "" {
		return r.defaultCalendar
	}

	mapping, err := r.store.Get(ctx, channelID)
	if err != nil {
		r.logger.Warn("Failed to read channel calendar, using default",
			zap.String("channel_id", channelID),
			zap.Error(err))
		return r.defaultCalendar
	}
	if mapping == nil || mapping.CalendarID == "" {
		return r.defaultCalendar
	}

	return mapping.CalendarID
}

// Bind перезаписывает привязку канала
func (r *ChannelRegistry) Bind(ctx context.Context, channelID, calendarID string) error {
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return ErrEmptyCalendarID
	}

	err := r.store.Upsert(ctx, &model.ChannelCalendar{
		ChannelID:  channelID,
		CalendarID: calendarID,
		UpdatedAt:  r.now(),
	})
	if err != nil {
		return fmt.Errorf("bind channel %s: %w", channelID, err)
	}

	return nil
}

// Current возвращает явную привязку канала без fallback, "" если её нет
func (r *ChannelRegistry) Current(ctx context.Context, channelID string) (string, error) {
	mapping, err := r.store.Get(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("get channel calendar: %w", err)
	}
	if mapping == nil {
		return "", nil
	}
	return mapping.CalendarID, nil
}
