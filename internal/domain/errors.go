package domain

import "errors"

// Sentinel errors for sync settings operations
var (
	// ErrMissingSyncState indicates a bridge notification without a state field
	ErrMissingSyncState = errors.New("missing sync state")

	// ErrNotWatching indicates an identity request issued before any watcher was registered
	ErrNotWatching = errors.New("no identity watcher registered")

	// ErrNoAccount indicates an identity request with no sync account configured
	ErrNoAccount = errors.New("no sync account configured")

	// ErrNoIssuer indicates an identity watch without an issuer
	ErrNoIssuer = errors.New("identity watch requires an issuer")

	// ErrMissingString indicates a localization id absent from the catalog
	ErrMissingString = errors.New("missing localized string")
)
