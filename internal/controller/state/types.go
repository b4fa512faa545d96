package state

import "github.com/Freeeeeet/pto_bot/internal/model"

// UserState представляет текущий шаг диалога /pto
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	StatePTOStartDate UserState = "pto_start_date"
	StatePTOEndDate   UserState = "pto_end_date"
	StatePTOTimeRange UserState = "pto_time_range"
	StatePTONote      UserState = "pto_note"
)

// UserData хранит черновик заявки во время диалога
type UserData struct {
	State UserState
	Draft model.PTORequest
}
