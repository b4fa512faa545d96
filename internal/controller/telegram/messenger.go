package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Freeeeeet/pto_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/pto_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const deleteCallback = "pto_delete"

var errUnknownUser = errors.New("user not seen yet")

// Messenger реализует service.Messenger поверх Bot API.
// Имена пользователей берутся из входящих апдейтов: Bot API не отдаёт профиль по id.
type Messenger struct {
	bot *bot.Bot

	mu    sync.RWMutex
	names map[string]string
}

func NewMessenger(b *bot.Bot) *Messenger {
	return &Messenger{
		bot:   b,
		names: make(map[string]string),
	}
}

func (m *Messenger) Platform() string {
	return "Telegram"
}

func (m *Messenger) Mention(userID string) string {
	if name, err := m.DisplayName(context.Background(), userID); err == nil {
		return name
	}
	return userID
}

func (m *Messenger) PostConfirmation(ctx context.Context, channelID string, confirmation service.Confirmation) (string, error) {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("parse chat id %q: %w", channelID, err)
	}

	text := "🌴 " + confirmation.Text(m.Mention(confirmation.SubjectID)) +
		"\n\nНажмите «Удалить», чтобы убрать событие из календаря."

	msg, err := m.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard.Delete(deleteCallback),
	})
	if err != nil {
		return "", fmt.Errorf("send confirmation: %w", err)
	}

	return formatMessageID(chatID, msg.ID), nil
}

func (m *Messenger) DeleteMessage(ctx context.Context, _ string, messageID string) error {
	chatID, msgID, err := parseMessageID(messageID)
	if err != nil {
		return err
	}

	if _, err := m.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: msgID,
	}); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// Notify пишет в личку; работает, только если пользователь запускал бота
func (m *Messenger) Notify(ctx context.Context, userID, text string) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse user id %q: %w", userID, err)
	}

	if _, err := m.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "⚠️ " + text,
	}); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

func (m *Messenger) DisplayName(_ context.Context, userID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name, ok := m.names[userID]
	if !ok {
		return "", errUnknownUser
	}
	return name, nil
}

// remember запоминает имя автора апдейта
func (m *Messenger) remember(user *models.User) {
	if user == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.names[strconv.FormatInt(user.ID, 10)] = displayName(user)
}

func displayName(user *models.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name != "" {
		return name
	}
	if user.Username != "" {
		return "@" + user.Username
	}
	return strconv.FormatInt(user.ID, 10)
}

// formatMessageID - id сообщения уникален только внутри чата, поэтому храним пару
func formatMessageID(chatID int64, messageID int) string {
	return fmt.Sprintf("%d:%d", chatID, messageID)
}

func parseMessageID(value string) (int64, int, error) {
	chatPart, msgPart, ok := strings.Cut(value, ":")
	if !ok {
		return 0, 0, fmt.Errorf("malformed message id %q", value)
	}

	chatID, err := strconv.ParseInt(chatPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed chat id in %q: %w", value, err)
	}
	msgID, err := strconv.Atoi(msgPart)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed message id in %q: %w", value, err)
	}

	return chatID, msgID, nil
}
