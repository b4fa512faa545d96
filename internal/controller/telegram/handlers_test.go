package telegram

import (
	"context"
	"testing"

	"github.com/Freeeeeet/pto_bot/internal/timewindow"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text        string
		wantCommand string
		wantArgs    string
	}{
		{"/pto", "/pto", ""},
		{"/pto@pto_bot", "/pto", ""},
		{"/ptocalendar team@group.calendar.google.com", "/ptocalendar", "team@group.calendar.google.com"},
		{"/PTOCalendar@pto_bot   cal-1 ", "/ptocalendar", "cal-1"},
		{"2024-06-10", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			command, args := parseCommand(tt.text)
			assert.Equal(t, tt.wantCommand, command)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	start, end, ok := parseTimeRange("09:00-17:00")
	require.True(t, ok)
	assert.Equal(t, "09:00", start)
	assert.Equal(t, "17:00", end)

	start, end, ok = parseTimeRange(" 9:30 - 12:00 ")
	require.True(t, ok)
	assert.Equal(t, "9:30", start)
	assert.Equal(t, "12:00", end)

	start, end, ok = parseTimeRange("-")
	require.True(t, ok)
	assert.Empty(t, start)
	assert.Empty(t, end)

	for _, bad := range []string{"09:00", "09:00-", "-17:00", ""} {
		_, _, ok := parseTimeRange(bad)
		assert.False(t, ok, bad)
	}
}

func TestMessageIDRoundTrip(t *testing.T) {
	id := formatMessageID(-1001234567890, 42)
	assert.Equal(t, "-1001234567890:42", id)

	chatID, messageID, err := parseMessageID(id)
	require.NoError(t, err)
	assert.Equal(t, int64(-1001234567890), chatID)
	assert.Equal(t, 42, messageID)

	for _, bad := range []string{"42", "abc:1", "1:abc"} {
		_, _, err := parseMessageID(bad)
		assert.Error(t, err, bad)
	}
}

func TestCallbackMessage(t *testing.T) {
	accessible := &models.CallbackQuery{
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{ID: 7, Chat: models.Chat{ID: -100}},
		},
	}
	chatID, messageID, ok := callbackMessage(accessible)
	require.True(t, ok)
	assert.Equal(t, int64(-100), chatID)
	assert.Equal(t, 7, messageID)

	inaccessible := &models.CallbackQuery{
		Message: models.MaybeInaccessibleMessage{
			InaccessibleMessage: &models.InaccessibleMessage{MessageID: 9, Chat: models.Chat{ID: 5}},
		},
	}
	chatID, messageID, ok = callbackMessage(inaccessible)
	require.True(t, ok)
	assert.Equal(t, int64(5), chatID)
	assert.Equal(t, 9, messageID)

	_, _, ok = callbackMessage(&models.CallbackQuery{})
	assert.False(t, ok)
}

func TestFieldError(t *testing.T) {
	resolver := timewindow.NewResolver(nil)
	_, err := resolver.Resolve(timewindow.Input{StartDate: "2024-06-12", EndDate: "2024-06-10"})

	msg, bad := fieldError(err, timewindow.FieldEndDate)
	assert.True(t, bad)
	assert.NotEmpty(t, msg)

	_, bad = fieldError(err, timewindow.FieldStartDate)
	assert.False(t, bad)

	_, bad = fieldError(nil, timewindow.FieldStartDate)
	assert.False(t, bad)
}

func TestMessengerDisplayName(t *testing.T) {
	m := NewMessenger(nil)

	_, err := m.DisplayName(context.Background(), "42")
	assert.ErrorIs(t, err, errUnknownUser)
	assert.Equal(t, "42", m.Mention("42"))

	m.remember(&models.User{ID: 42, FirstName: "Ada", LastName: "Lovelace"})
	m.remember(&models.User{ID: 43, Username: "grace"})

	name, err := m.DisplayName(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", name)
	assert.Equal(t, "@grace", m.Mention("43"))
	assert.Equal(t, "Telegram", m.Platform())
}

func TestAllowedUpdates(t *testing.T) {
	// Удаление подтверждений идёт через кнопку, апдейты об удалении не нужны
	assert.ElementsMatch(t, []string{"message", "callback_query"}, []string(allowedUpdates))
}
