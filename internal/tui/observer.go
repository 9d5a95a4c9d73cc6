package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/syncpanel/internal/domain"
)

// EventBus adapts collaborator callbacks to a channel for Bubble Tea.
// Callbacks run on collaborator goroutines; the panel only sees them as
// messages inside Update.
type EventBus struct {
	ch chan tea.Msg
}

// NewEventBus creates a bus buffering up to size events
func NewEventBus(size int) *EventBus {
	return &EventBus{ch: make(chan tea.Msg, size)}
}

// Send enqueues msg. It blocks when the buffer is full: sync notifications
// must not be dropped.
func (b *EventBus) Send(msg tea.Msg) {
	b.ch <- msg
}

// OnSyncChange is registered as the sync bridge listener
func (b *EventBus) OnSyncChange(info domain.SyncInfo) {
	b.Send(SyncChangeMsg{Info: info})
}

// OnSetting returns a settings observer callback for key
func (b *EventBus) OnSetting(key string) func(any) {
	return func(v any) {
		b.Send(SettingChangedMsg{Key: key, Value: v})
	}
}

// pending returns the number of queued events
func (b *EventBus) pending() int {
	return len(b.ch)
}
