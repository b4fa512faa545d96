// Package timewindow превращает строки даты и времени из формы в проверенный интервал.
package timewindow

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/pto_bot/internal/model"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Input - поля формы заявки
type Input struct {
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
}

// Resolver проверяет ввод и строит model.TimeWindow.
// Время всегда трактуется в одной заранее заданной зоне.
type Resolver struct {
	location *time.Location
}

func NewResolver(location *time.Location) *Resolver {
	if location == nil {
		location = time.UTC
	}
	return &Resolver{location: location}
}

// Location возвращает зону, в которой строятся timed интервалы
func (r *Resolver) Location() *time.Location {
	return r.location
}

// Resolve возвращает интервал или *ValidationError со всеми найденными ошибками
func (r *Resolver) Resolve(in Input) (model.TimeWindow, error) {
	verr := &ValidationError{}

	startDate, startDateOK := parseDate(in.StartDate)
	if !startDateOK {
		if strings.TrimSpace(in.StartDate) == "" {
			verr.add(FieldStartDate, "Start date is required")
		} else {
			verr.add(FieldStartDate, "Use YYYY-MM-DD, like 2024-06-10")
		}
	}

	endDate, endDateOK := startDate, startDateOK
	if strings.TrimSpace(in.EndDate) != "" {
		endDate, endDateOK = parseDate(in.EndDate)
		if !endDateOK {
			verr.add(FieldEndDate, "Use YYYY-MM-DD, like 2024-06-12")
		}
	}

	startClock := strings.TrimSpace(in.StartTime)
	endClock := strings.TrimSpace(in.EndTime)
	hasStart, hasEnd := startClock != "", endClock != ""

	var startHour, startMinute, endHour, endMinute int
	if hasStart {
		var ok bool
		if startHour, startMinute, ok = ParseClock(startClock); !ok {
			verr.add(FieldStartTime, "Use HH:MM (24h), like 09:00")
		}
	}
	if hasEnd {
		var ok bool
		if endHour, endMinute, ok = ParseClock(endClock); !ok {
			verr.add(FieldEndTime, "Use HH:MM (24h), like 17:00")
		}
	}

	// Время задаётся либо полностью, либо не задаётся вовсе
	switch {
	case hasStart && !hasEnd:
		verr.add(FieldEndTime, "End time is required when start time is set")
	case hasEnd && !hasStart:
		verr.add(FieldStartTime, "Start time is required when end time is set")
	}

	if startDateOK && endDateOK && endDate.Before(startDate) {
		verr.add(FieldEndDate, "End date must be on or after start date")
	}

	if !verr.empty() {
		return model.TimeWindow{}, verr
	}

	if !hasStart {
		return model.TimeWindow{
			Kind:     model.WindowAllDay,
			Start:    startDate,
			End:      endDate.AddDate(0, 0, 1),
			Location: r.location,
		}, nil
	}

	// Сравниваем по настенным часам, чтобы переход на летнее время не менял порядок
	wallStart := combine(startDate, startHour, startMinute, time.UTC)
	wallEnd := combine(endDate, endHour, endMinute, time.UTC)
	if !wallEnd.After(wallStart) {
		verr.add(FieldEndTime, "End must be after start")
		return model.TimeWindow{}, verr
	}

	// В час перехода на летнее время time.Date сдвигает несуществующее время вперёд
	start := combine(startDate, startHour, startMinute, r.location)
	if !sameClock(start, startHour, startMinute) {
		verr.add(FieldStartTime, "This time doesn't exist in "+r.location.String()+" (clock change)")
	}
	end := combine(endDate, endHour, endMinute, r.location)
	if !sameClock(end, endHour, endMinute) {
		verr.add(FieldEndTime, "This time doesn't exist in "+r.location.String()+" (clock change)")
	}
	if verr.empty() && !end.After(start) {
		verr.add(FieldEndTime, "End must be after start")
	}
	if !verr.empty() {
		return model.TimeWindow{}, verr
	}

	return model.TimeWindow{
		Kind:     model.WindowTimed,
		Start:    start,
		End:      end,
		Location: r.location,
	}, nil
}

func sameClock(t time.Time, hour, minute int) bool {
	return t.Hour() == hour && t.Minute() == minute
}

// ParseClock разбирает HH:MM, час в [0,24), минуты в [0,60)
func ParseClock(value string) (hour, minute int, ok bool) {
	match := clockPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, 0, false
	}

	hour, _ = strconv.Atoi(match[1])
	minute, _ = strconv.Atoi(match[2])
	if hour < 0 || hour >= 24 || minute < 0 || minute >= 60 {
		return 0, 0, false
	}
	return hour, minute, true
}

func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse(model.ISODateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func combine(date time.Time, hour, minute int, location *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, location)
}
