package model

import "time"

// PTOLink связывает опубликованное подтверждение с событием в календаре.
// MessageID назначается чат-платформой при публикации и является ключом.
type PTOLink struct {
	MessageID   string    `json:"message_id"`
	ChannelID   string    `json:"channel_id"`
	RequesterID string    `json:"requester_id"`
	SubjectID   string    `json:"subject_id"`
	EventID     string    `json:"event_id"`
	CalendarID  string    `json:"calendar_id"`
	StartISO    string    `json:"start_iso"` // дата или дата-время
	EndISO      string    `json:"end_iso"`   // для all-day - день после последнего
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}
