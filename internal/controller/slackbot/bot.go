// Package slackbot - транспорт заявок через Slack Socket Mode
package slackbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/pto_bot/internal/model"
	"github.com/Freeeeeet/pto_bot/internal/service"
	"github.com/Freeeeeet/pto_bot/internal/timewindow"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"
)

// PTOHandler - операции оркестратора, нужные транспорту
type PTOHandler interface {
	Validate(req model.PTORequest) error
	Submit(ctx context.Context, req model.PTORequest) (*service.SubmitResult, error)
	HandleMessageDeleted(ctx context.Context, signal model.DeletionSignal) error
	HandleDeleteAction(ctx context.Context, signal model.DeletionSignal) error
	BindChannel(ctx context.Context, channelID, calendarID string) error
	ChannelCalendar(ctx context.Context, channelID string) (string, bool, error)
}

type Bot struct {
	client *socketmode.Client
	api    slackAPI
	pto    PTOHandler
	logger *zap.Logger
}

// New создаёт Socket Mode клиента; newService строит оркестратор поверх мессенджера Slack
func New(botToken, appToken string, newService func(service.Messenger) *service.PTOService, logger *zap.Logger) *Bot {
	logger = logger.Named("slack")

	api := slack.New(botToken,
		slack.OptionAppLevelToken(appToken),
		slack.OptionLog(zap.NewStdLog(logger.Named("api"))),
	)
	client := socketmode.New(api,
		socketmode.OptionLog(zap.NewStdLog(logger.Named("socketmode"))),
	)

	return &Bot{
		client: client,
		api:    api,
		pto:    newService(NewMessenger(api)),
		logger: logger,
	}
}

func (b *Bot) Name() string {
	return "slack"
}

// Start держит соединение до отмены ctx
func (b *Bot) Start(ctx context.Context) error {
	go b.consume(ctx)

	if err := b.client.RunContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run socket mode: %w", err)
	}
	return ctx.Err()
}

// consume раздаёт события по горутинам: каждое обрабатывается независимо
func (b *Bot) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-b.client.Events:
			if !ok {
				return
			}
			go b.handleEvent(ctx, evt)
		}
	}
}

func (b *Bot) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		b.logger.Info("Connecting to Slack...")
	case socketmode.EventTypeConnected:
		b.logger.Info("✅ Connected to Slack")
	case socketmode.EventTypeConnectionError:
		b.logger.Warn("Slack connection error, retrying")

	case socketmode.EventTypeEventsAPI:
		data, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		b.client.Ack(*evt.Request)
		b.handleEventsAPI(ctx, data)

	case socketmode.EventTypeInteractive:
		callback, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		if response := b.handleInteraction(ctx, callback); response != nil {
			b.client.Ack(*evt.Request, response)
		} else {
			b.client.Ack(*evt.Request)
		}

	case socketmode.EventTypeSlashCommand:
		command, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		b.client.Ack(*evt.Request)
		b.handleSlashCommand(ctx, command)
	}
}

func (b *Bot) handleEventsAPI(ctx context.Context, event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}

	message, ok := event.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok || message.SubType != "message_deleted" {
		return
	}

	ts := message.DeletedTimeStamp
	if ts == "" && message.PreviousMessage != nil {
		ts = message.PreviousMessage.Timestamp
	}
	if ts == "" {
		return
	}

	err := b.pto.HandleMessageDeleted(ctx, model.DeletionSignal{
		ChannelID: message.Channel,
		MessageID: ts,
	})
	if err != nil {
		b.logger.Error("Failed to reconcile deleted message",
			zap.String("channel_id", message.Channel),
			zap.String("message_id", ts),
			zap.Error(err))
	}
}

// handleInteraction возвращает ответ для ack или nil
func (b *Bot) handleInteraction(ctx context.Context, callback slack.InteractionCallback) *slack.ViewSubmissionResponse {
	switch callback.Type {
	case slack.InteractionTypeShortcut, slack.InteractionTypeMessageAction:
		if callback.CallbackID == shortcutCallbackID {
			b.openModal(ctx, callback.TriggerID, callback.User.ID, callback.Channel.ID)
		}

	case slack.InteractionTypeViewSubmission:
		if callback.View.CallbackID == modalCallbackID {
			return b.handleSubmission(ctx, callback)
		}

	case slack.InteractionTypeBlockActions:
		for _, action := range callback.ActionCallback.BlockActions {
			if action.ActionID != deleteActionID {
				continue
			}
			err := b.pto.HandleDeleteAction(ctx, model.DeletionSignal{
				ChannelID: callback.Container.ChannelID,
				MessageID: callback.Container.MessageTs,
			})
			if err != nil {
				b.logger.Error("Failed to handle delete action", zap.Error(err))
			}
		}
	}

	return nil
}

func (b *Bot) openModal(ctx context.Context, triggerID, userID, channelID string) {
	if _, err := b.api.OpenViewContext(ctx, triggerID, ptoModal(userID, channelID)); err != nil {
		b.logger.Error("Failed to open pto modal", zap.String("user_id", userID), zap.Error(err))
	}
}

// handleSubmission проверяет форму синхронно, а создаёт событие уже после ack:
// Slack ждёт ответа на view_submission не больше трёх секунд
func (b *Bot) handleSubmission(ctx context.Context, callback slack.InteractionCallback) *slack.ViewSubmissionResponse {
	req := requestFromView(callback.User.ID, callback.View)

	var verr *timewindow.ValidationError
	if err := b.pto.Validate(req); errors.As(err, &verr) {
		b.logger.Info("PTO form rejected", zap.String("user_id", req.RequesterID), zap.String("reason", verr.Error()))
		return slack.NewErrorsViewSubmissionResponse(viewErrors(verr))
	}

	go func() {
		if _, err := b.pto.Submit(ctx, req); err != nil {
			b.logger.Warn("PTO submission did not complete", zap.String("user_id", req.RequesterID), zap.Error(err))
		}
	}()

	return nil
}

func (b *Bot) handleSlashCommand(ctx context.Context, command slack.SlashCommand) {
	switch command.Command {
	case "/pto":
		b.openModal(ctx, command.TriggerID, command.UserID, command.ChannelID)
	case "/pto-calendar":
		b.replyEphemeral(ctx, command, b.calendarCommand(ctx, command.ChannelID, command.Text))
	}
}

// calendarCommand - /pto-calendar [calendar-id]
func (b *Bot) calendarCommand(ctx context.Context, channelID, text string) string {
	calendarID := strings.TrimSpace(text)

	if calendarID == "" {
		current, isDefault, err := b.pto.ChannelCalendar(ctx, channelID)
		if err != nil {
			b.logger.Error("Failed to read channel calendar", zap.Error(err))
			return "Couldn't read this channel's calendar."
		}
		if isDefault {
			return fmt.Sprintf("This channel uses the default calendar: `%s`", current)
		}
		return fmt.Sprintf("This channel posts to calendar `%s`", current)
	}

	if err := b.pto.BindChannel(ctx, channelID, calendarID); err != nil {
		return fmt.Sprintf("Couldn't bind calendar `%s`: %v", calendarID, err)
	}
	return fmt.Sprintf("This channel now posts to calendar `%s`", calendarID)
}

func (b *Bot) replyEphemeral(ctx context.Context, command slack.SlashCommand, text string) {
	if _, err := b.api.PostEphemeralContext(ctx, command.ChannelID, command.UserID, slack.MsgOptionText(text, false)); err != nil {
		b.logger.Warn("Failed to send ephemeral reply", zap.Error(err))
	}
}
