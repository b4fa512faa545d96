package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/pto_bot/internal/controller/state"
	"github.com/Freeeeeet/pto_bot/internal/model"
	"github.com/Freeeeeet/pto_bot/internal/service"
	"github.com/Freeeeeet/pto_bot/internal/timewindow"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const skipInput = "-"

// HandleTextMessage разбирает команды и шаги диалога /pto
func (c *BotController) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	c.messenger.remember(update.Message.From)
	if reply := update.Message.ReplyToMessage; reply != nil {
		c.messenger.remember(reply.From)
	}

	command, args := parseCommand(update.Message.Text)
	switch command {
	case "/pto":
		c.handlePTOStart(ctx, update)
		return
	case "/ptocalendar":
		c.handleCalendarCommand(ctx, update, args)
		return
	case "/cancel":
		c.stateManager.ClearState(update.Message.From.ID)
		c.reply(ctx, update.Message.Chat.ID, "❌ Заявка отменена")
		return
	case "/start", "/help":
		c.reply(ctx, update.Message.Chat.ID, helpText)
		return
	}

	telegramID := update.Message.From.ID
	switch c.stateManager.GetState(telegramID) {
	case state.StatePTOStartDate:
		c.handleStartDateStep(ctx, update)
	case state.StatePTOEndDate:
		c.handleEndDateStep(ctx, update)
	case state.StatePTOTimeRange:
		c.handleTimeRangeStep(ctx, update)
	case state.StatePTONote:
		c.handleNoteStep(ctx, update)
	}
}

const helpText = "🌴 PTO бот\n\n" +
	"/pto - Оформить отсутствие (ответом на сообщение коллеги - за него)\n" +
	"/ptocalendar - Показать календарь чата\n" +
	"/ptocalendar <id> - Привязать чат к календарю\n" +
	"/cancel - Отменить заявку"

// handlePTOStart начинает диалог заявки
func (c *BotController) handlePTOStart(ctx context.Context, update *models.Update) {
	msg := update.Message
	requester := strconv.FormatInt(msg.From.ID, 10)

	subject := requester
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil && !msg.ReplyToMessage.From.IsBot {
		subject = strconv.FormatInt(msg.ReplyToMessage.From.ID, 10)
	}

	c.stateManager.Start(msg.From.ID, model.PTORequest{
		RequesterID:     requester,
		SubjectID:       subject,
		OriginChannelID: strconv.FormatInt(msg.Chat.ID, 10),
	})

	c.logger.Info("Starting pto dialog",
		zap.Int64("telegram_id", msg.From.ID),
		zap.String("subject_id", subject))

	c.reply(ctx, msg.Chat.ID, fmt.Sprintf("🌴 Заявка на отсутствие для %s\n\n"+
		"Шаг 1 из 4: Дата начала (YYYY-MM-DD)\n\n"+
		"Например: 2024-06-10\n\n"+
		"Для отмены используйте /cancel", c.messenger.Mention(subject)))
}

func (c *BotController) handleStartDateStep(ctx context.Context, update *models.Update) {
	telegramID := update.Message.From.ID
	draft, ok := c.stateManager.Draft(telegramID)
	if !ok {
		return
	}

	draft.StartDate = strings.TrimSpace(update.Message.Text)
	if msg, bad := fieldError(c.pto.Validate(draft), timewindow.FieldStartDate); bad {
		c.reply(ctx, update.Message.Chat.ID, "❌ "+msg+"\n\nПопробуйте ещё раз:")
		return
	}

	c.stateManager.Advance(telegramID, state.StatePTOEndDate, draft)
	c.reply(ctx, update.Message.Chat.ID, fmt.Sprintf("✅ Начало: %s\n\n"+
		"Шаг 2 из 4: Дата окончания (YYYY-MM-DD)\n\n"+
		"Отправьте - если отсутствие на один день", draft.StartDate))
}

func (c *BotController) handleEndDateStep(ctx context.Context, update *models.Update) {
	telegramID := update.Message.From.ID
	draft, ok := c.stateManager.Draft(telegramID)
	if !ok {
		return
	}

	draft.EndDate = optionalInput(update.Message.Text)
	if msg, bad := fieldError(c.pto.Validate(draft), timewindow.FieldEndDate); bad {
		c.reply(ctx, update.Message.Chat.ID, "❌ "+msg+"\n\nПопробуйте ещё раз:")
		return
	}

	c.stateManager.Advance(telegramID, state.StatePTOTimeRange, draft)
	c.reply(ctx, update.Message.Chat.ID, "Шаг 3 из 4: Время (HH:MM-HH:MM)\n\n"+
		"Например: 09:00-13:00\n\n"+
		"Отправьте - если отсутствие на весь день")
}

func (c *BotController) handleTimeRangeStep(ctx context.Context, update *models.Update) {
	telegramID := update.Message.From.ID
	draft, ok := c.stateManager.Draft(telegramID)
	if !ok {
		return
	}

	start, end, ok := parseTimeRange(update.Message.Text)
	if !ok {
		c.reply(ctx, update.Message.Chat.ID, "❌ Формат времени: 09:00-17:00 или -\n\nПопробуйте ещё раз:")
		return
	}

	draft.StartTime, draft.EndTime = start, end
	if msg, bad := fieldError(c.pto.Validate(draft), timewindow.FieldStartTime, timewindow.FieldEndTime); bad {
		c.reply(ctx, update.Message.Chat.ID, "❌ "+msg+"\n\nПопробуйте ещё раз:")
		return
	}

	c.stateManager.Advance(telegramID, state.StatePTONote, draft)
	c.reply(ctx, update.Message.Chat.ID, "Шаг 4 из 4: Комментарий\n\n"+
		"Отправьте - если без комментария")
}

func (c *BotController) handleNoteStep(ctx context.Context, update *models.Update) {
	telegramID := update.Message.From.ID
	draft, ok := c.stateManager.Draft(telegramID)
	if !ok {
		return
	}

	draft.Note = optionalInput(update.Message.Text)
	c.stateManager.ClearState(telegramID)

	result, err := c.pto.Submit(ctx, draft)
	if err == nil {
		return
	}

	var verr *timewindow.ValidationError
	switch {
	case errors.As(err, &verr):
		c.reply(ctx, update.Message.Chat.ID, "❌ "+verr.Error()+"\n\nНачните заново: /pto")
	case result != nil && result.State == service.StateFailed:
		c.reply(ctx, update.Message.Chat.ID, "❌ Не удалось создать событие в календаре. Попробуйте позже.")
	default:
		c.logger.Error("PTO submission failed", zap.Error(err))
		c.reply(ctx, update.Message.Chat.ID, "❌ Произошла ошибка")
	}
}

// handleCalendarCommand - /ptocalendar [id]
func (c *BotController) handleCalendarCommand(ctx context.Context, update *models.Update, calendarID string) {
	chatID := update.Message.Chat.ID
	channelID := strconv.FormatInt(chatID, 10)

	if calendarID == "" {
		current, isDefault, err := c.pto.ChannelCalendar(ctx, channelID)
		if err != nil {
			c.logger.Error("Failed to read channel calendar", zap.Error(err))
			c.reply(ctx, chatID, "❌ Произошла ошибка")
			return
		}
		if isDefault {
			c.reply(ctx, chatID, fmt.Sprintf("🗓 Чат пишет в календарь по умолчанию: %s", current))
			return
		}
		c.reply(ctx, chatID, fmt.Sprintf("🗓 Календарь чата: %s", current))
		return
	}

	if err := c.pto.BindChannel(ctx, channelID, calendarID); err != nil {
		c.reply(ctx, chatID, fmt.Sprintf("❌ Не удалось привязать календарь %s: %v", calendarID, err))
		return
	}
	c.reply(ctx, chatID, fmt.Sprintf("✅ Чат привязан к календарю %s", calendarID))
}

// HandleDeleteCallback - кнопка «Удалить» под подтверждением
func (c *BotController) HandleDeleteCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}

	c.messenger.remember(&query.From)

	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		c.logger.Warn("Failed to answer callback", zap.Error(err))
	}

	chatID, messageID, ok := callbackMessage(query)
	if !ok {
		c.logger.Warn("Delete callback without message", zap.String("callback_id", query.ID))
		return
	}

	err := c.pto.HandleDeleteAction(ctx, model.DeletionSignal{
		ChannelID: strconv.FormatInt(chatID, 10),
		MessageID: formatMessageID(chatID, messageID),
	})
	if err != nil {
		c.logger.Error("Failed to handle delete action", zap.Error(err))
	}
}

func callbackMessage(query *models.CallbackQuery) (int64, int, bool) {
	switch {
	case query.Message.Message != nil:
		return query.Message.Message.Chat.ID, query.Message.Message.ID, true
	case query.Message.InaccessibleMessage != nil:
		return query.Message.InaccessibleMessage.Chat.ID, query.Message.InaccessibleMessage.MessageID, true
	default:
		return 0, 0, false
	}
}

// parseCommand возвращает команду без @botname и её аргумент
func parseCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}

	command, args, _ := strings.Cut(text, " ")
	command, _, _ = strings.Cut(command, "@")
	return strings.ToLower(command), strings.TrimSpace(args)
}

// parseTimeRange принимает "09:00-17:00" или "-"
func parseTimeRange(text string) (string, string, bool) {
	text = strings.TrimSpace(text)
	if text == skipInput {
		return "", "", true
	}

	start, end, ok := strings.Cut(text, "-")
	if !ok {
		return "", "", false
	}
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return "", "", false
	}
	return start, end, true
}

func optionalInput(text string) string {
	text = strings.TrimSpace(text)
	if text == skipInput {
		return ""
	}
	return text
}

// fieldError возвращает текст ошибки первого из полей, если она есть
func fieldError(err error, fields ...timewindow.Field) (string, bool) {
	var verr *timewindow.ValidationError
	if !errors.As(err, &verr) {
		return "", false
	}
	for _, field := range fields {
		if verr.Has(field) {
			return verr.Fields[field], true
		}
	}
	return "", false
}
