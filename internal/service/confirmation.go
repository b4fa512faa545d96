package service

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/pto_bot/internal/model"
)

const DeleteHint = "Delete this message to remove from calendar."

// Confirmation - содержимое сообщения-подтверждения
type Confirmation struct {
	SubjectID   string
	SubjectName string
	RequesterID string
	Window      model.TimeWindow
	Note        string
}

// Text собирает текст подтверждения; subject уже отформатирован платформой
func (c Confirmation) Text(subject string) string {
	text := fmt.Sprintf("PTO booked for %s on %s.", subject, c.Window.Summary())
	if note := strings.TrimSpace(c.Note); note != "" {
		text += " — " + note
	}
	return text
}
