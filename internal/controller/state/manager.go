package state

import (
	"sync"

	"github.com/Freeeeeet/lesson_calendar/internal/reschedule"
)

// Manager хранит состояние мастера переноса для каждого пользователя
type Manager struct {
	mu     sync.RWMutex
	states map[int64]reschedule.State // telegramID -> состояние
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]reschedule.State),
	}
}

// Get получает состояние пользователя, нулевое если диалога не было
func (sm *Manager) Get(telegramID int64) reschedule.State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.states[telegramID]
}

// Set сохраняет состояние пользователя
func (sm *Manager) Set(telegramID int64, s reschedule.State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[telegramID] = s
}

// Active открыт ли у пользователя диалог переноса
func (sm *Manager) Active(telegramID int64) bool {
	s := sm.Get(telegramID)
	return s.Step != "" && s.Step != reschedule.StepClosed
}

// Clear удаляет состояние пользователя
func (sm *Manager) Clear(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}
