package model

import "time"

// ChannelCalendar - календарь, в который пишут заявки из канала
type ChannelCalendar struct {
	ChannelID  string    `json:"channel_id"`
	CalendarID string    `json:"calendar_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}
