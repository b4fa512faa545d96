package timewindow

import (
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/pto_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTimedWindow(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	w, err := NewResolver(loc).Resolve(Input{
		StartDate: "2024-06-10",
		EndDate:   "2024-06-10",
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	require.NoError(t, err)

	assert.Equal(t, model.WindowTimed, w.Kind)
	assert.Equal(t, "2024-06-10T09:00:00", w.StartISO())
	assert.Equal(t, "2024-06-10T17:00:00", w.EndISO())
	assert.Equal(t, "Europe/Berlin", w.TimeZone())
	assert.Equal(t, loc, w.Start.Location())
	assert.Greater(t, w.EndISO(), w.StartISO())
}

func TestResolveEndDateDefaultsToStart(t *testing.T) {
	w, err := NewResolver(time.UTC).Resolve(Input{StartDate: "2024-06-10", StartTime: "9:30", EndTime: "10:00"})
	require.NoError(t, err)

	assert.Equal(t, "2024-06-10T09:30:00", w.StartISO())
	assert.Equal(t, "2024-06-10T10:00:00", w.EndISO())
}

func TestResolveAllDayExclusiveEnd(t *testing.T) {
	cases := []struct {
		name, start, end, wantEnd string
	}{
		{"single day", "2024-06-10", "2024-06-10", "2024-06-11"},
		{"implicit end", "2024-06-10", "", "2024-06-11"},
		{"multi day", "2024-06-10", "2024-06-12", "2024-06-13"},
		{"month boundary", "2024-06-28", "2024-06-30", "2024-07-01"},
		{"leap day", "2024-02-29", "2024-02-29", "2024-03-01"},
	}

	resolver := NewResolver(time.UTC)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, err := resolver.Resolve(Input{StartDate: tc.start, EndDate: tc.end})
			require.NoError(t, err)

			assert.True(t, w.IsAllDay())
			assert.Equal(t, tc.start, w.StartISO())
			assert.Equal(t, tc.wantEnd, w.EndISO())
		})
	}
}

func TestResolveRejectsHalfSpecifiedTimes(t *testing.T) {
	resolver := NewResolver(time.UTC)

	cases := []struct {
		name    string
		in      Input
		missing Field
	}{
		{"only start", Input{StartDate: "2024-06-10", StartTime: "09:00"}, FieldEndTime},
		{"only end", Input{StartDate: "2024-06-10", EndTime: "17:00"}, FieldStartTime},
		{"only start with inverted dates", Input{StartDate: "2024-06-12", EndDate: "2024-06-10", StartTime: "09:00"}, FieldEndTime},
		{"only end with bad date", Input{StartDate: "junk", EndTime: "17:00"}, FieldStartTime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.Resolve(tc.in)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.True(t, verr.Has(tc.missing), "expected %s to be tagged, got %v", tc.missing, verr.Fields)
		})
	}
}

func TestResolveRejectsInvertedDates(t *testing.T) {
	_, err := NewResolver(time.UTC).Resolve(Input{StartDate: "2024-06-12", EndDate: "2024-06-10"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has(FieldEndDate))
	assert.Len(t, verr.Fields, 1)
}

func TestResolveRejectsEndNotAfterStart(t *testing.T) {
	resolver := NewResolver(time.UTC)

	for _, end := range []string{"09:00", "08:59"} {
		_, err := resolver.Resolve(Input{StartDate: "2024-06-10", StartTime: "09:00", EndTime: end})

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.True(t, verr.Has(FieldEndTime))
	}

	// Переход через полночь на следующий день допустим
	w, err := resolver.Resolve(Input{StartDate: "2024-06-10", EndDate: "2024-06-11", StartTime: "22:00", EndTime: "02:00"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-11T02:00:00", w.EndISO())
}

func TestResolveRejectsTimeSkippedByClockChange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	resolver := NewResolver(loc)

	// 31 марта 2024 в Берлине часы переводятся с 02:00 сразу на 03:00
	_, err = resolver.Resolve(Input{StartDate: "2024-03-31", StartTime: "02:30", EndTime: "03:15"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has(FieldStartTime))
	assert.False(t, verr.Has(FieldEndTime))

	_, err = resolver.Resolve(Input{StartDate: "2024-03-31", StartTime: "01:30", EndTime: "02:15"})
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has(FieldEndTime))

	w, err := resolver.Resolve(Input{StartDate: "2024-03-31", StartTime: "01:30", EndTime: "03:15"})
	require.NoError(t, err)
	assert.True(t, w.End.After(w.Start))
	assert.Greater(t, w.EndISO(), w.StartISO())

	// Повторяющийся час осенью существует, порядок сохраняется
	w, err = resolver.Resolve(Input{StartDate: "2024-10-27", StartTime: "02:10", EndTime: "02:50"})
	require.NoError(t, err)
	assert.True(t, w.End.After(w.Start))
	assert.Greater(t, w.EndISO(), w.StartISO())
}

func TestResolveRejectsMalformedInput(t *testing.T) {
	resolver := NewResolver(time.UTC)

	cases := []struct {
		name  string
		in    Input
		field Field
	}{
		{"missing start date", Input{}, FieldStartDate},
		{"bad start date", Input{StartDate: "10.06.2024"}, FieldStartDate},
		{"bad end date", Input{StartDate: "2024-06-10", EndDate: "2024-13-01"}, FieldEndDate},
		{"hour out of range", Input{StartDate: "2024-06-10", StartTime: "24:00", EndTime: "25:00"}, FieldStartTime},
		{"minute out of range", Input{StartDate: "2024-06-10", StartTime: "09:00", EndTime: "17:60"}, FieldEndTime},
		{"garbage time", Input{StartDate: "2024-06-10", StartTime: "nine", EndTime: "17:00"}, FieldStartTime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.Resolve(tc.in)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.True(t, verr.Has(tc.field), "got %v", verr.Fields)
		})
	}
}

func TestParseClock(t *testing.T) {
	cases := map[string]bool{
		"00:00": true,
		"23:59": true,
		"9:05":  true,
		"24:00": false,
		"12:60": false,
		"12":    false,
		"12:5":  false,
		"-1:00": false,
		"":      false,
	}
	for in, want := range cases {
		_, _, ok := ParseClock(in)
		assert.Equal(t, want, ok, in)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{}
	err.add(FieldEndTime, "b")
	err.add(FieldEndDate, "a")
	err.add(FieldEndDate, "ignored")

	assert.Equal(t, "invalid time window: end_date: a; end_time: b", err.Error())
}
