package service

import (
	"context"

	"github.com/Freeeeeet/pto_bot/internal/model"
)

// LinkLedger - хранилище связей сообщение -> событие
type LinkLedger interface {
	Put(ctx context.Context, link *model.PTOLink) error
	Find(ctx context.Context, messageID string) (*model.PTOLink, error)
	Remove(ctx context.Context, messageID string) error
}

// ChannelStore - хранилище привязок канал -> календарь
type ChannelStore interface {
	Get(ctx context.Context, channelID string) (*model.ChannelCalendar, error)
	Upsert(ctx context.Context, mapping *model.ChannelCalendar) error
}

// Messenger - то, что оркестратору нужно от чат-платформы
type Messenger interface {
	Platform() string
	// Mention форматирует ссылку на пользователя для текста сообщения
	Mention(userID string) string
	// PostConfirmation публикует подтверждение с кнопкой удаления и возвращает id сообщения
	PostConfirmation(ctx context.Context, channelID string, confirmation Confirmation) (string, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// Notify отправляет пользователю личное сообщение
	Notify(ctx context.Context, userID, text string) error
	DisplayName(ctx context.Context, userID string) (string, error)
}
