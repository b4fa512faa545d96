// Package sqlite - файловое хранилище на SQLite для одиночной установки бота.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Freeeeeet/pto_bot/internal/model"
	"github.com/Freeeeeet/pto_bot/internal/repository/base"
	"go.uber.org/zap"
)

// LinkRepository хранит связи сообщение -> событие в SQLite
type LinkRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewLinkRepository(db *sql.DB, logger *zap.Logger) *LinkRepository {
	return &LinkRepository{
		db:     db,
		logger: logger,
	}
}

// Put - атомарный upsert по message_id
func (r *LinkRepository) Put(ctx context.Context, link *model.PTOLink) error {
	query := `
		INSERT INTO pto_links (message_id, channel_id, requester_id, subject_id, event_id, calendar_id, start_iso, end_iso, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (message_id) DO UPDATE SET
			channel_id = excluded.channel_id,
			requester_id = excluded.requester_id,
			subject_id = excluded.subject_id,
			event_id = excluded.event_id,
			calendar_id = excluded.calendar_id,
			start_iso = excluded.start_iso,
			end_iso = excluded.end_iso,
			note = excluded.note,
			created_at = excluded.created_at
	`

	_, err := r.db.ExecContext(
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
			zap.Error(err))
		return fmt.Errorf("put pto link: %w", err)
	}

	return nil
}

func (r *LinkRepository) Find(ctx context.Context, messageID string) (*model.PTOLink, error) {
	query := `
		SELECT message_id, channel_id, requester_id, subject_id, event_id, calendar_id, start_iso, end_iso, note, created_at
		FROM pto_links
		WHERE message_id = ?
	`

	var link model.PTOLink
	err := r.db.QueryRowContext(ctx, query, messageID).Scan(
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

func (r *LinkRepository) Remove(ctx context.Context, messageID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pto_links WHERE message_id = ?`, messageID); err != nil {
		return fmt.Errorf("remove pto link: %w", err)
	}
	return nil
}
