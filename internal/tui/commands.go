package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/syncpanel/internal/domain"
)

// Command factories for async operations

// WaitForEventCmd waits for the next collaborator event. It must be re-armed
// after every delivered event.
func WaitForEventCmd(bus *EventBus) tea.Cmd {
	return func() tea.Msg {
		return eventMsg{msg: <-bus.ch}
	}
}

// RefreshCmd polls the bridge for the current sync status
func RefreshCmd(bridge domain.SyncBridge) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		info, err := bridge.Info(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "refreshing sync status"}
		}
		return SyncChangeMsg{Info: info}
	}
}

// LoadSettingsCmd registers one observer per collection setting. Each
// observer reports through the bus, starting with the current value.
func LoadSettingsCmd(settings domain.SettingsObserver, bus *EventBus) tea.Cmd {
	return func() tea.Msg {
		for _, key := range domain.CollectionSettings {
			settings.Observe(key, true, bus.OnSetting(key))
		}
		return SettingsLoadedMsg{}
	}
}

// ignoredSyncErrors never produce an alert
var ignoredSyncErrors = map[string]bool{
	domain.ErrorDialogClosedByUser: true,
}

// knownSyncErrors have a dedicated explanation
var knownSyncErrors = map[string]bool{
	domain.ErrorInvalidSyncAccount: true,
	domain.ErrorOffline:            true,
}

// syncErrorIDs returns the localization ids for an error code: the code and
// its explanation for known errors, the generic message otherwise.
func syncErrorIDs(code string) []string {
	if knownSyncErrors[code] {
		return []string{code, code + "-explanation"}
	}
	return []string{domain.ErrorUnknown}
}

// ResolveSyncErrorCmd localizes the alert text for an errored notification
func ResolveSyncErrorCmd(l10n domain.Localizer, code string, generation int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ids := syncErrorIDs(code)
		text := make([]string, len(ids))
		for i, id := range ids {
			s, err := l10n.FormatValue(ctx, id)
			if err != nil {
				slog.Warn("sync error text unresolved", "id", id, "error", err)
			}
			text[i] = s
		}

		msg := SyncErrorResolvedMsg{Generation: generation, Code: code, Title: text[0]}
		if len(text) > 1 {
			msg.Explanation = text[1]
		}
		return msg
	}
}

// bridgeCmd runs a fire-and-forget bridge command off the event loop
func bridgeCmd(action func()) tea.Cmd {
	return func() tea.Msg {
		action()
		return nil
	}
}

// ClearStatusCmd returns a command that clears the status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
