package tui

import (
	"github.com/mmcdole/syncpanel/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SyncChangeMsg carries a sync bridge notification, pushed or polled
type SyncChangeMsg struct {
	Info domain.SyncInfo
}

// SettingChangedMsg carries a settings observer callback
type SettingChangedMsg struct {
	Key   string
	Value any
}

// SettingsLoadedMsg signals that the settings observers are registered
type SettingsLoadedMsg struct{}

// SyncErrorResolvedMsg carries the localized text for an errored notification
type SyncErrorResolvedMsg struct {
	Generation  int
	Code        string
	Title       string
	Explanation string
}

// SyncErrorAckMsg signals that the user dismissed a sync error alert
type SyncErrorAckMsg struct {
	Generation int
}

// IdentityLoginMsg signals a successful re-authentication
type IdentityLoginMsg struct{}

// IdentityErrorMsg signals an asynchronous identity failure
type IdentityErrorMsg struct {
	Err error
}

// ShowSettingsMsg asks the host to bring the settings surface to the foreground
type ShowSettingsMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// eventMsg wraps a message delivered through the collaborator event channel
type eventMsg struct {
	msg interface{}
}
