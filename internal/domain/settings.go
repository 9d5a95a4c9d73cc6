package domain

// Setting keys for the synchronized collections
const (
	BookmarksSetting = "sync.collections.bookmarks.enabled"
	HistorySetting   = "sync.collections.history.enabled"
)

// CollectionSettings lists every collection key the panel observes
var CollectionSettings = []string{BookmarksSetting, HistorySetting}

// SettingsObserver delivers the current value of a key immediately and again on
// every change. There is no unobserve; observers live for the process lifetime.
type SettingsObserver interface {
	Observe(key string, defaultValue any, fn func(any))
}

// SettingsStore persists settings. Writes are asynchronous and unacknowledged.
type SettingsStore interface {
	Set(values map[string]any)
}

// Settings is the combined settings service used by the panel
type Settings interface {
	SettingsObserver
	SettingsStore
}
