package state

import (
	"sync"

	"github.com/Freeeeeet/pto_bot/internal/model"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State
	}
	return StateNone
}

// Start начинает новый диалог, старый черновик теряется
func (sm *Manager) Start(telegramID int64, draft model.PTORequest) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[telegramID] = &UserData{
		State: StatePTOStartDate,
		Draft: draft,
	}
}

// Draft возвращает копию черновика
func (sm *Manager) Draft(telegramID int64) (model.PTORequest, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.Draft, true
	}
	return model.PTORequest{}, false
}

// Advance сохраняет черновик и переводит диалог на следующий шаг
func (sm *Manager) Advance(telegramID int64, next UserState, draft model.PTORequest) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if next == StateNone {
		// Если состояние None, удаляем запись
		delete(sm.states, telegramID)
		return
	}

	sm.states[telegramID] = &UserData{
		State: next,
		Draft: draft,
	}
}

// ClearState очищает состояние и черновик пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}
