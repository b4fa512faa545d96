package model

import (
	"fmt"
	"time"
)

const (
	ISODateLayout     = "2006-01-02"
	ISODateTimeLayout = "2006-01-02T15:04:05"
	ClockLayout       = "15:04"
)

type WindowKind string

const (
	WindowTimed  WindowKind = "timed"
	WindowAllDay WindowKind = "all_day"
)

// TimeWindow - проверенный интервал заявки.
// Для WindowTimed Start/End - локальное время в Location.
// Для WindowAllDay Start/End - полночь UTC, End не включается.
type TimeWindow struct {
	Kind     WindowKind
	Start    time.Time
	End      time.Time
	Location *time.Location
}

func (w TimeWindow) IsAllDay() bool {
	return w.Kind == WindowAllDay
}

// StartISO возвращает начало в виде, в котором оно хранится в ledger
func (w TimeWindow) StartISO() string {
	if w.IsAllDay() {
		return w.Start.Format(ISODateLayout)
	}
	return w.Start.Format(ISODateTimeLayout)
}

// EndISO возвращает конец в виде, в котором он хранится в ledger
func (w TimeWindow) EndISO() string {
	if w.IsAllDay() {
		return w.End.Format(ISODateLayout)
	}
	return w.End.Format(ISODateTimeLayout)
}

// TimeZone возвращает имя зоны для timed интервала
func (w TimeWindow) TimeZone() string {
	if w.Location == nil {
		return "UTC"
	}
	return w.Location.String()
}

// LastDay возвращает последний включённый день интервала
func (w TimeWindow) LastDay() time.Time {
	if w.IsAllDay() {
		return w.End.AddDate(0, 0, -1)
	}
	return w.End
}

// Summary форматирует интервал для сообщений в чат
func (w TimeWindow) Summary() string {
	first := w.Start.Format(ISODateLayout)
	last := w.LastDay().Format(ISODateLayout)

	if w.IsAllDay() {
		if first == last {
			return first
		}
		return fmt.Sprintf("%s to %s", first, last)
	}

	if first == last {
		return fmt.Sprintf("%s %s-%s", first, w.Start.Format(ClockLayout), w.End.Format(ClockLayout))
	}
	return fmt.Sprintf("%s %s to %s %s",
		first, w.Start.Format(ClockLayout),
		last, w.End.Format(ClockLayout))
}
