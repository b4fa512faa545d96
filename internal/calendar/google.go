package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Freeeeeet/pto_bot/internal/model"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type GoogleGateway struct {
	service *gcal.Service
	logger  *zap.Logger
}

// NewGoogleGateway создаёт клиент по ключу сервисного аккаунта.
// impersonate - пользователь для domain-wide delegation, может быть пустым.
func NewGoogleGateway(ctx context.Context, credentialsFile, impersonate string, timeout time.Duration, logger *zap.Logger) (*GoogleGateway, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}
	if impersonate != "" {
		jwtConfig.Subject = impersonate
	}

	// Таймаут нужен и для получения токена, и для запросов к API
	baseClient := &http.Client{Timeout: timeout}
	httpClient := jwtConfig.Client(context.WithValue(ctx, oauth2.HTTPClient, baseClient))
	httpClient.Timeout = timeout

	service, err := gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return NewGoogleGatewayFromService(service, logger), nil
}

// NewGoogleGatewayFromService нужен тестам с подменённым endpoint
func NewGoogleGatewayFromService(service *gcal.Service, logger *zap.Logger) *GoogleGateway {
	return &GoogleGateway{
		service: service,
		logger:  logger,
	}
}

func (g *GoogleGateway) CreateEvent(ctx context.Context, calendarID string, event Event) (string, error) {
	googleEvent := &gcal.Event{
		Summary:     event.Title,
		Description: event.Description,
		Start:       eventDateTime(event.Window, event.Window.Start),
		End:         eventDateTime(event.Window, event.Window.End),
	}

	created, err := g.service.Events.Insert(calendarID, googleEvent).Context(ctx).Do()
	if err != nil {
		return "", classifyGoogleError("create event", err, ErrRemoteRejected)
	}

	g.logger.Debug("Google event created",
		zap.String("calendar_id", calendarID),
		zap.String("event_id", created.Id))

	return created.Id, nil
}

func (g *GoogleGateway) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	err := g.service.Events.Delete(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return classifyGoogleError("delete event", err, ErrEventNotFound)
	}
	return nil
}

func eventDateTime(window model.TimeWindow, t time.Time) *gcal.EventDateTime {
	if window.IsAllDay() {
		return &gcal.EventDateTime{Date: t.Format(model.ISODateLayout)}
	}
	// Смещение не передаём: время интерпретируется в TimeZone
	return &gcal.EventDateTime{
		DateTime: t.Format(model.ISODateTimeLayout),
		TimeZone: window.TimeZone(),
	}
}

// classifyGoogleError раскладывает ошибку API по классам.
// notFound - во что превращается 404/410 для данной операции.
func classifyGoogleError(op string, err error, notFound error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone:
			return remoteError(op, notFound, err)
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError:
			return remoteError(op, ErrRemoteUnavailable, err)
		default:
			return remoteError(op, ErrRemoteRejected, err)
		}
	}
	return remoteError(op, ErrRemoteUnavailable, err)
}
