// Package telegram - транспорт заявок через Telegram Bot API
package telegram

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/pto_bot/internal/controller/state"
	"github.com/Freeeeeet/pto_bot/internal/model"
	"github.com/Freeeeeet/pto_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// PTOHandler - операции оркестратора, нужные транспорту
type PTOHandler interface {
	Validate(req model.PTORequest) error
	Submit(ctx context.Context, req model.PTORequest) (*service.SubmitResult, error)
	HandleDeleteAction(ctx context.Context, signal model.DeletionSignal) error
	BindChannel(ctx context.Context, channelID, calendarID string) error
	ChannelCalendar(ctx context.Context, channelID string) (string, bool, error)
}

// allowedUpdates - только то, на что зарегистрированы обработчики
var allowedUpdates = bot.AllowedUpdates{"message", "callback_query"}

type BotController struct {
	bot          *bot.Bot
	messenger    *Messenger
	pto          PTOHandler
	stateManager *state.Manager
	logger       *zap.Logger
}

// New создаёт бота; newService строит оркестратор поверх мессенджера этого бота
func New(token string, newService func(service.Messenger) *service.PTOService, logger *zap.Logger) (*BotController, error) {
	c := &BotController{
		stateManager: state.NewManager(),
		logger:       logger.Named("telegram"),
	}

	b, err := bot.New(token,
		bot.WithDefaultHandler(c.handleDefault),
		bot.WithAllowedUpdates(allowedUpdates),
	)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	c.bot = b
	c.messenger = NewMessenger(b)
	c.pto = newService(c.messenger)

	c.registerHandlers()
	return c, nil
}

func (c *BotController) Name() string {
	return "telegram"
}

// registerHandlers регистрирует все обработчики
func (c *BotController) registerHandlers() {
	// Текст: команды и шаги диалога
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	// Bot API не сообщает об удалении сообщений в обычных чатах, поэтому удаление только через кнопку
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, deleteCallback, bot.MatchTypeExact, c.HandleDeleteCallback)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "pto", Description: "🌴 Оформить отсутствие"},
		{Command: "ptocalendar", Description: "🗓 Календарь этого чата"},
		{Command: "cancel", Description: "❌ Отменить заявку"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает long polling до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	if err := c.setCommands(ctx); err != nil {
		c.logger.Warn("Continuing without commands menu", zap.Error(err))
	}

	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return ctx.Err()
}

func (c *BotController) handleDefault(_ context.Context, _ *bot.Bot, update *models.Update) {
	c.logger.Debug("Unhandled update", zap.Int64("update_id", update.ID))
}

func (c *BotController) reply(ctx context.Context, chatID int64, text string) {
	if _, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		c.logger.Warn("Failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
