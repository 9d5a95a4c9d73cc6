package domain

import "time"

// IssuerFirefoxAccounts is the only issuer the panel asks for
const IssuerFirefoxAccounts = "firefox-accounts"

// WatchOptions registers the one-shot callbacks of an identity watcher.
// Callbacks run on identity goroutines.
type WatchOptions struct {
	WantIssuer string
	OnLogin    func(assertion string)
	OnLogout   func()
	OnReady    func()
	OnError    func(err error)
}

// RequestOptions asks the identity service to (re)authenticate the user
type RequestOptions struct {
	OnCancel func()
	// RefreshAuthentication is the freshness window after which the user must
	// authenticate again
	RefreshAuthentication time.Duration
}

// Identity is the authentication provider
type Identity interface {
	Watch(opts WatchOptions) error
	Request(opts RequestOptions)
}
