package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/pto_bot/internal/model"
	"github.com/Freeeeeet/pto_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// LinkRepository хранит связи сообщение -> событие в Postgres
type LinkRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewLinkRepository(pool *pgxpool.Pool, logger *zap.Logger) *LinkRepository {
	return &LinkRepository{
		pool:   pool,
		logger: logger,
	}
}

// Put сохраняет связь одной командой, существующая строка с тем же message_id заменяется
func (r *LinkRepository) Put(ctx context.Context, link *model.PTOLink) error {
	query := `
		INSERT INTO pto_links (message_id, channel_id, requester_id, subject_id, event_id, calendar_id, start_iso, end_iso, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (message_id) DO UPDATE SET
			channel_id = EXCLUDED.channel_id,
			requester_id = EXCLUDED.requester_id,
			subject_id = EXCLUDED.subject_id,
			event_id = EXCLUDED.event_id,
			calendar_id = EXCLUDED.calendar_id,
			start_iso = EXCLUDED.start_iso,
			end_iso = EXCLUDED.end_iso,
			note = EXCLUDED.note,
			created_at = EXCLUDED.created_at
	`

	_, err := r.pool.Exec(
		ctx, query,
		link.MessageID,
		link.ChannelID,
		link.RequesterID,
		link.SubjectID,
		link.EventID,
		link.CalendarID,
		link.StartISO,
		link.EndISO,
		link.Note,
		link.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to upsert pto link",
			zap.String("message_id", link.MessageID),
			zap.String("event_id", link.EventID),
			zap.Error(err))
		return fmt.Errorf("put pto link: %w", err)
	}

	return nil
}

// Find возвращает связь по id сообщения или nil
func (r *LinkRepository) Find(ctx context.Context, messageID string) (*model.PTOLink, error) {
	query := `
		SELECT message_id, channel_id, requester_id, subject_id, event_id, calendar_id, start_iso, end_iso, note, created_at
		FROM pto_links
		WHERE message_id = $1
	`

	var link model.PTOLink
	err := r.pool.QueryRow(ctx, query, messageID).Scan(
		&link.MessageID,
		&link.ChannelID,
		&link.RequesterID,
		&link.SubjectID,
		&link.EventID,
		&link.CalendarID,
		&link.StartISO,
		&link.EndISO,
		&link.Note,
		&link.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find pto link: %w", err)
	}

	return &link, nil
}

// Remove удаляет связь, отсутствие строки ошибкой не считается
func (r *LinkRepository) Remove(ctx context.Context, messageID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM pto_links WHERE message_id = $1`, messageID)
	if err != nil {
		return fmt.Errorf("remove pto link: %w", err)
	}
	return nil
}
