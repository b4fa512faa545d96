package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Freeeeeet/pto_bot/internal/model"
	"github.com/Freeeeeet/pto_bot/internal/repository/base"
	"go.uber.org/zap"
)

type ChannelCalendarRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewChannelCalendarRepository(db *sql.DB, logger *zap.Logger) *ChannelCalendarRepository {
	return &ChannelCalendarRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ChannelCalendarRepository) Get(ctx context.Context, channelID string) (*model.ChannelCalendar, error) {
	var mapping model.ChannelCalendar
	err := r.db.QueryRowContext(ctx,
		`SELECT channel_id, calendar_id, updated_at FROM channel_calendars WHERE channel_id = ?`,
		channelID,
	).Scan(&mapping.ChannelID, &mapping.CalendarID, &mapping.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get channel calendar: %w", err)
	}
	return &mapping, nil
}

func (r *ChannelCalendarRepository) Upsert(ctx context.Context, mapping *model.ChannelCalendar) error {
	query := `
		INSERT INTO channel_calendars (channel_id, calendar_id, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (channel_id) DO UPDATE SET
			calendar_id = excluded.calendar_id,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, mapping.ChannelID, mapping.CalendarID, mapping.UpdatedAt.UTC()); err != nil {
		return fmt.Errorf("upsert channel calendar: %w", err)
	}

	r.logger.Info("Channel calendar bound",
		zap.String("channel_id", mapping.ChannelID),
		zap.String("calendar_id", mapping.CalendarID))

	return nil
}
