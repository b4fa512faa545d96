package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/pto_bot/internal/calendar"
	"github.com/Freeeeeet/pto_bot/internal/model"
	"github.com/Freeeeeet/pto_bot/internal/timewindow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestState - состояние обработки заявки
type RequestState string

const (
	StateValidating RequestState = "validating"
	StateResolving  RequestState = "resolving"
	StateCreating   RequestState = "creating"
	StatePosting    RequestState = "posting"
	StateLinked     RequestState = "linked"
	StateRejected   RequestState = "rejected"
	StateFailed     RequestState = "failed"
)

const failureTextPrefix = "Couldn't create calendar event: "

// SubmitResult - итог Submit. Link заполнен только в StateLinked.
type SubmitResult struct {
	State RequestState
	Link  *model.PTOLink
}

type Options struct {
	// DefaultChannel используется, если в заявке нет ни выбранного канала, ни канала вызова
	DefaultChannel string
	// VerifyOnBind - создавать пробное событие перед привязкой календаря
	VerifyOnBind bool
}

// PTOService ведёт заявку от формы до записи в ledger и разбирает удаления.
// Один экземпляр на чат-платформу.
type PTOService struct {
	ledger    LinkLedger
	registry  *ChannelRegistry
	gateway   calendar.Gateway
	messenger Messenger
	resolver  *timewindow.Resolver
	opts      Options
	now       func() time.Time
	logger    *zap.Logger
}

func NewPTOService(
	ledger LinkLedger,
	registry *ChannelRegistry,
	gateway calendar.Gateway,
	messenger Messenger,
	resolver *timewindow.Resolver,
	opts Options,
	logger *zap.Logger,
) *PTOService {
	return &PTOService{
		ledger:    ledger,
		registry:  registry,
		gateway:   gateway,
		messenger: messenger,
		resolver:  resolver,
		opts:      opts,
		now:       time.Now,
		logger:    logger.With(zap.String("platform", messenger.Platform())),
	}
}

// Validate проверяет только даты и время заявки, без побочных эффектов
func (s *PTOService) Validate(req model.PTORequest) error {
	_, err := s.resolver.Resolve(windowInput(req))
	return err
}

// Submit проводит заявку через все состояния.
// При ошибке до StateLinked в ledger ничего не остаётся.
func (s *PTOService) Submit(ctx context.Context, req model.PTORequest) (*SubmitResult, error) {
	log := s.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("requester_id", req.RequesterID),
		zap.String("subject_id", req.SubjectID),
	)

	// Validating
	log.Info("PTO request received", zap.String("state", string(StateValidating)))
	window, err := s.resolver.Resolve(windowInput(req))
	if err != nil {
		log.Info("PTO request rejected",
			zap.String("state", string(StateRejected)),
			zap.String("reason", err.Error()))
		return &SubmitResult{State: StateRejected}, err
	}

	// Resolving
	channelID := s.targetChannel(req)
	if channelID == "" {
		log.Warn("PTO request has no target channel", zap.String("state", string(StateFailed)))
		s.notify(ctx, log, req.RequesterID, failureTextPrefix+ErrNoTargetChannel.Error())
		return &SubmitResult{State: StateFailed}, ErrNoTargetChannel
	}
	calendarID := s.registry.Resolve(ctx, channelID)
	log = log.With(zap.String("channel_id", channelID), zap.String("calendar_id", calendarID))
	log.Info("Target resolved", zap.String("state", string(StateResolving)))

	// Creating
	subjectName := s.displayName(ctx, log, req.SubjectID)
	requesterName := subjectName
	if req.RequesterID != req.SubjectID {
		requesterName = s.displayName(ctx, log, req.RequesterID)
	}

	eventID, err := s.gateway.CreateEvent(ctx, calendarID, calendar.Event{
		Title:       "PTO - " + subjectName,
		Description: s.eventDescription(requesterName, subjectName, req.Note),
		Window:      window,
	})
	if err != nil {
		log.Error("Failed to create calendar event",
			zap.String("state", string(StateFailed)),
			zap.Error(err))
		s.notify(ctx, log, req.RequesterID, failureTextPrefix+err.Error())
		return &SubmitResult{State: StateFailed}, fmt.Errorf("create event: %w", err)
	}
	log = log.With(zap.String("event_id", eventID))
	log.Info("Calendar event created", zap.String("state", string(StateCreating)))

	// Posting
	messageID, err := s.messenger.PostConfirmation(ctx, channelID, Confirmation{
		SubjectID:   req.SubjectID,
		SubjectName: subjectName,
		RequesterID: req.RequesterID,
		Window:      window,
		Note:        req.Note,
	})
	if err != nil {
		log.Error("Failed to post confirmation",
			zap.String("state", string(StateFailed)),
			zap.Error(err))
		s.discardEvent(ctx, log, calendarID, eventID)
		s.notify(ctx, log, req.RequesterID, failureTextPrefix+"failed to post confirmation message")
		return &SubmitResult{State: StateFailed}, fmt.Errorf("post confirmation: %w", err)
	}
	log = log.With(zap.String("message_id", messageID))
	log.Info("Confirmation posted", zap.String("state", string(StatePosting)))

	// Linked
	link := &model.PTOLink{
		MessageID:   messageID,
		ChannelID:   channelID,
		RequesterID: req.RequesterID,
		SubjectID:   req.SubjectID,
		EventID:     eventID,
		CalendarID:  calendarID,
		StartISO:    window.StartISO(),
		EndISO:      window.EndISO(),
		Note:        req.Note,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.ledger.Put(ctx, link); err != nil {
		log.Error("Failed to record pto link",
			zap.String("state", string(StateFailed)),
			zap.Error(err))
		s.discardEvent(ctx, log, calendarID, eventID)
		if delErr := s.messenger.DeleteMessage(ctx, channelID, messageID); delErr != nil {
			log.Warn("Failed to delete unlinked confirmation", zap.Error(delErr))
		}
		s.notify(ctx, log, req.RequesterID, failureTextPrefix+"failed to save the request")
		return &SubmitResult{State: StateFailed}, fmt.Errorf("put link: %w", err)
	}

	log.Info("PTO request linked", zap.String("state", string(StateLinked)))
	return &SubmitResult{State: StateLinked, Link: link}, nil
}

// Link возвращает связь по id сообщения или ErrNotFound
func (s *PTOService) Link(ctx context.Context, messageID string) (*model.PTOLink, error) {
	link, err := s.ledger.Find(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("find link: %w", err)
	}
	if link == nil {
		return nil, ErrNotFound
	}
	return link, nil
}

// HandleMessageDeleted - сообщение удалено в чате
func (s *PTOService) HandleMessageDeleted(ctx context.Context, signal model.DeletionSignal) error {
	return s.reconcile(ctx, signal, false)
}

// HandleDeleteAction - нажата кнопка удаления; сообщение удаляется вместе с событием
func (s *PTOService) HandleDeleteAction(ctx context.Context, signal model.DeletionSignal) error {
	return s.reconcile(ctx, signal, true)
}

func (s *PTOService) reconcile(ctx context.Context, signal model.DeletionSignal, removeMessage bool) error {
	log := s.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("channel_id", signal.ChannelID),
		zap.String("message_id", signal.MessageID),
	)

	link, err := s.Link(ctx, signal.MessageID)
	if errors.Is(err, ErrNotFound) {
		log.Debug("No pto link for message, nothing to reconcile")
		return nil
	}
	if err != nil {
		log.Error("Failed to look up pto link", zap.Error(err))
		if removeMessage {
			s.deleteConfirmation(ctx, log, signal)
		}
		return nil
	}

	log = log.With(zap.String("event_id", link.EventID), zap.String("calendar_id", link.CalendarID))

	if err := s.gateway.DeleteEvent(ctx, link.CalendarID, link.EventID); err != nil {
		if errors.Is(err, calendar.ErrEventNotFound) {
			log.Info("Calendar event already gone")
		} else {
			log.Error("Failed to delete calendar event", zap.Error(err))
		}
	}

	if err := s.ledger.Remove(ctx, link.MessageID); err != nil {
		log.Error("Failed to remove pto link", zap.Error(err))
	} else {
		log.Info("PTO link reconciled")
	}

	if removeMessage {
		s.deleteConfirmation(ctx, log, signal)
	}

	return nil
}

func (s *PTOService) deleteConfirmation(ctx context.Context, log *zap.Logger, signal model.DeletionSignal) {
	if err := s.messenger.DeleteMessage(ctx, signal.ChannelID, signal.MessageID); err != nil {
		log.Warn("Failed to delete confirmation message", zap.Error(err))
	}
}

// BindChannel привязывает канал к календарю, при VerifyOnBind сначала проверяет запись
func (s *PTOService) BindChannel(ctx context.Context, channelID, calendarID string) error {
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return ErrEmptyCalendarID
	}

	log := s.logger.With(zap.String("channel_id", channelID), zap.String("calendar_id", calendarID))

	if s.opts.VerifyOnBind {
		if err := calendar.VerifyWritable(ctx, s.gateway, calendarID, s.now()); err != nil {
			log.Warn("Calendar failed write check", zap.Error(err))
			return fmt.Errorf("verify calendar: %w", err)
		}
	}

	if err := s.registry.Bind(ctx, channelID, calendarID); err != nil {
		return err
	}

	log.Info("Channel bound to calendar")
	return nil
}

// ChannelCalendar возвращает календарь канала; isDefault - привязки нет
func (s *PTOService) ChannelCalendar(ctx context.Context, channelID string) (string, bool, error) {
	calendarID, err := s.registry.Current(ctx, channelID)
	if err != nil {
		return "", false, err
	}
	if calendarID == "" {
		return s.registry.Default(), true, nil
	}
	return calendarID, false, nil
}

func (s *PTOService) targetChannel(req model.PTORequest) string {
	switch {
	case req.TargetChannelID != "":
		return req.TargetChannelID
	case req.OriginChannelID != "":
		return req.OriginChannelID
	default:
		return s.opts.DefaultChannel
	}
}

// displayName не падает: при ошибке возвращается сам id
func (s *PTOService) displayName(ctx context.Context, log *zap.Logger, userID string) string {
	name, err := s.messenger.DisplayName(ctx, userID)
	if err != nil || strings.TrimSpace(name) == "" {
		if err != nil {
			log.Debug("Display name lookup failed", zap.String("user_id", userID), zap.Error(err))
		}
		return userID
	}
	return name
}

func (s *PTOService) eventDescription(requester, subject, note string) string {
	description := fmt.Sprintf("Requested via %s by %s for %s.", s.messenger.Platform(), requester, subject)
	if note = strings.TrimSpace(note); note != "" {
		description += "\n" + note
	}
	return description
}

func (s *PTOService) discardEvent(ctx context.Context, log *zap.Logger, calendarID, eventID string) {
	if err := s.gateway.DeleteEvent(ctx, calendarID, eventID); err != nil && !errors.Is(err, calendar.ErrEventNotFound) {
		log.Error("Failed to delete orphan calendar event", zap.Error(err))
	}
}

func (s *PTOService) notify(ctx context.Context, log *zap.Logger, userID, text string) {
	if userID == "" {
		return
	}
	if err := s.messenger.Notify(ctx, userID, text); err != nil {
		log.Warn("Failed to notify requester", zap.Error(err))
	}
}

func windowInput(req model.PTORequest) timewindow.Input {
	return timewindow.Input{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
}
