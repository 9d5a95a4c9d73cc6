package domain

import "context"

// SyncState is the lifecycle state reported by the sync bridge
type SyncState string

const (
	SyncDisabled SyncState = "disabled"
	SyncEnabling SyncState = "enabling" // client-side marker, never emitted by the bridge
	SyncEnabled  SyncState = "enabled"
	SyncSyncing  SyncState = "syncing"
	SyncErrored  SyncState = "errored"
)

// Error codes carried by errored notifications
const (
	ErrorDialogClosedByUser = "ERROR_DIALOG_CLOSED_BY_USER"
	ErrorInvalidSyncAccount = "ERROR_INVALID_SYNC_ACCOUNT"
	ErrorOffline            = "ERROR_OFFLINE"
	ErrorUnknown            = "ERROR_UNKNOWN"
)

// SyncInfo is the message shape delivered by the bridge, both on demand and on push
type SyncInfo struct {
	State SyncState `json:"state"`
	User  string    `json:"user,omitempty"`
	Error string    `json:"error,omitempty"`
}

// Validate reports a contract violation by the bridge
func (i *SyncInfo) Validate() error {
	if i == nil || i.State == "" {
		return ErrMissingSyncState
	}
	return nil
}

// SyncBridge is the in-process proxy to the sync engine.
// Enable, Disable and Sync are fire-and-forget.
type SyncBridge interface {
	Info(ctx context.Context) (SyncInfo, error)
	AddListener(fn func(SyncInfo))
	Enable()
	Disable()
	Sync()
}
