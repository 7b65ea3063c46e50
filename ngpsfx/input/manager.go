package input

import (
	"time"

	"github.com/valerio/go-ngpsfx/ngpsfx/input/action"
)

const (
	// debounceDuration is the minimum time between two triggers of the same
	// debounced action
	debounceDuration = 300 * time.Millisecond
)

// Manager dispatches actions to their registered callbacks. Mix and stop
// actions are debounced so a held key does not flip a channel back and forth.
type Manager struct {
	handlers      map[action.Action][]func()
	lastTriggered map[action.Action]time.Time
	now           func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		handlers:      make(map[action.Action][]func()),
		lastTriggered: make(map[action.Action]time.Time),
		now:           time.Now,
	}
}

// On registers a callback for a specific action
func (m *Manager) On(act action.Action, callback func()) {
	m.handlers[act] = append(m.handlers[act], callback)
}

// Trigger runs the callbacks of act. Returns false if the action was
// debounced or has no callbacks.
func (m *Manager) Trigger(act action.Action) bool {
	if debounced(act) {
		now := m.now()
		if last, ok := m.lastTriggered[act]; ok && now.Sub(last) < debounceDuration {
			return false
		}
		m.lastTriggered[act] = now
	}

	callbacks := m.handlers[act]
	for _, callback := range callbacks {
		callback()
	}
	return len(callbacks) > 0
}

// TriggerKey looks key up in the default map and triggers its action.
func (m *Manager) TriggerKey(key string) bool {
	act, ok := GetDefaultMapping(key)
	if !ok {
		return false
	}
	return m.Trigger(act)
}

func debounced(act action.Action) bool {
	switch act {
	case action.Quit, action.LogLevelIncrease, action.LogLevelDecrease:
		return false
	}
	return true
}
