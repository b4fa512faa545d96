package calendar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const productID = "-//Freeeeeet//pto_bot//EN"

// go-webdav пишет HTTP ошибку как "<code> <status text>[: details]"
var davStatusPattern = regexp.MustCompile(`^([45]\d\d) [A-Z]`)

// CalDAVGateway пишет события в CalDAV коллекцию.
// calendarID - URL или путь коллекции, eventID - UID события.
type CalDAVGateway struct {
	client *caldav.Client
	now    func() time.Time
	logger *zap.Logger
}

func NewCalDAVGateway(serverURL, username, password string, timeout time.Duration, logger *zap.Logger) (*CalDAVGateway, error) {
	if _, err := url.Parse(serverURL); err != nil {
		return nil, fmt.Errorf("invalid CalDAV server URL: %w", err)
	}

	var httpClient webdav.HTTPClient = &http.Client{Timeout: timeout}
	if username != "" && password != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, username, password)
	}

	client, err := caldav.NewClient(httpClient, serverURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create CalDAV client: %w", err)
	}

	return &CalDAVGateway{
		client: client,
		now:    time.Now,
		logger: logger,
	}, nil
}

func (c *CalDAVGateway) CreateEvent(ctx context.Context, calendarID string, event Event) (string, error) {
	collection, err := collectionPath(calendarID)
	if err != nil {
		return "", remoteError("create event", ErrRemoteRejected, err)
	}

	uid := uuid.NewString()
	cal := buildCalendar(uid, event, c.now())

	if _, err := c.client.PutCalendarObject(ctx, objectPath(collection, uid), cal); err != nil {
		return "", classifyDAVError("create event", err, ErrRemoteRejected)
	}

	c.logger.Debug("CalDAV event created",
		zap.String("calendar_id", calendarID),
		zap.String("event_id", uid))

	return uid, nil
}

func (c *CalDAVGateway) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	collection, err := collectionPath(calendarID)
	if err != nil {
		return remoteError("delete event", ErrRemoteRejected, err)
	}

	if err := c.client.RemoveAll(ctx, objectPath(collection, eventID)); err != nil {
		return classifyDAVError("delete event", err, ErrEventNotFound)
	}
	return nil
}

// buildCalendar собирает VCALENDAR с одним VEVENT
func buildCalendar(uid string, event Event, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, uid)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	vevent.Props.SetText(ical.PropSummary, event.Title)
	if event.Description != "" {
		vevent.Props.SetText(ical.PropDescription, event.Description)
	}

	if event.Window.IsAllDay() {
		vevent.Props.SetDate(ical.PropDateTimeStart, event.Window.Start)
		vevent.Props.SetDate(ical.PropDateTimeEnd, event.Window.End)
	} else {
		vevent.Props.SetDateTime(ical.PropDateTimeStart, event.Window.Start)
		vevent.Props.SetDateTime(ical.PropDateTimeEnd, event.Window.End)
	}
	vevent.Props.SetText(ical.PropStatus, "CONFIRMED")

	cal.Children = append(cal.Children, vevent.Component)
	return cal
}

func collectionPath(calendarID string) (string, error) {
	calURL, err := url.Parse(strings.TrimSpace(calendarID))
	if err != nil {
		return "", fmt.Errorf("invalid calendar URL: %w", err)
	}
	if calURL.Path == "" {
		return "", fmt.Errorf("calendar URL %q has no path", calendarID)
	}
	return strings.TrimRight(calURL.Path, "/"), nil
}

func objectPath(collection, uid string) string {
	return collection + "/" + uid + ".ics"
}

// classifyDAVError определяет класс по HTTP статусу в тексте ошибки,
// go-webdav не экспортирует свой тип HTTP ошибки
func classifyDAVError(op string, err error, notFound error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return remoteError(op, ErrRemoteUnavailable, err)
	}

	code, ok := davStatus(err)
	if !ok {
		return remoteError(op, ErrRemoteUnavailable, err)
	}

	switch {
	case code == http.StatusNotFound || code == http.StatusGone:
		return remoteError(op, notFound, err)
	case code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
		return remoteError(op, ErrRemoteUnavailable, err)
	default:
		return remoteError(op, ErrRemoteRejected, err)
	}
}

// davStatus ищет код в начале сообщения на каждом уровне обёртки
func davStatus(err error) (int, bool) {
	for ; err != nil; err = errors.Unwrap(err) {
		if match := davStatusPattern.FindStringSubmatch(err.Error()); match != nil {
			code, _ := strconv.Atoi(match[1])
			return code, true
		}
	}
	return 0, false
}
