package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/pto_bot/internal/model"
	"github.com/Freeeeeet/pto_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ChannelCalendarRepository хранит привязки канал -> календарь в Postgres
type ChannelCalendarRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewChannelCalendarRepository(pool *pgxpool.Pool, logger *zap.Logger) *ChannelCalendarRepository {
	return &ChannelCalendarRepository{
		pool:   pool,
		logger: logger,
	}
}

// Get возвращает привязку канала или nil
func (r *ChannelCalendarRepository) Get(ctx context.Context, channelID string) (*model.ChannelCalendar, error) {
	query := `
		SELECT channel_id, calendar_id, updated_at
		FROM channel_calendars
		WHERE channel_id = $1
	`

	var mapping model.ChannelCalendar
	err := r.pool.QueryRow(ctx, query, channelID).Scan(
		&mapping.ChannelID,
		&mapping.CalendarID,
		&mapping.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get channel calendar: %w", err)
	}

	return &mapping, nil
}

// Upsert создаёт или перезаписывает привязку
func (r *ChannelCalendarRepository) Upsert(ctx context.Context, mapping *model.ChannelCalendar) error {
	query := `
		INSERT INTO channel_calendars (channel_id, calendar_id, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (channel_id) DO UPDATE SET
			calendar_id = EXCLUDED.calendar_id,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, mapping.ChannelID, mapping.CalendarID, mapping.UpdatedAt.UTC())
	if err != nil {
		r.logger.Error("Failed to upsert channel calendar",
			zap.String("channel_id", mapping.ChannelID),
			zap.String("calendar_id", mapping.CalendarID),
			zap.Error(err))
		return fmt.Errorf("upsert channel calendar: %w", err)
	}

	r.logger.Info("Channel calendar bound",
		zap.String("channel_id", mapping.ChannelID),
		zap.String("calendar_id", mapping.CalendarID))

	return nil
}
