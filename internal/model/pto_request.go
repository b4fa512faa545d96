package model

// PTORequest - сырые данные заявки из формы или диалога
type PTORequest struct {
	RequesterID     string
	SubjectID       string
	TargetChannelID string // явно выбранный канал, может быть пустым
	OriginChannelID string // канал, из которого вызвали команду
	StartDate       string // YYYY-MM-DD
	EndDate         string // опционально, по умолчанию StartDate
	StartTime       string // HH:MM, опционально
	EndTime         string // HH:MM, опционально
	Note            string
}

// DeletionSignal - сообщение удалено в чате или нажата кнопка удаления
type DeletionSignal struct {
	ChannelID string
	MessageID string
}
