// Package identity re-authenticates the sync account before sensitive
// settings changes. The account token is looked up in the OS keyring; a
// successful lookup counts as an authentication for the freshness window.
package identity

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/syncpanel/internal/domain"
	"github.com/zalando/go-keyring"
)

// Service implements domain.Identity
type Service struct {
	keyringService string
	account        string
	logger         *slog.Logger
	now            func() time.Time

	mu       sync.Mutex
	watcher  *domain.WatchOptions
	lastAuth time.Time
}

// NewService creates an identity service for account, whose token lives under
// keyringService in the OS keyring.
func NewService(keyringService, account string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		keyringService: keyringService,
		account:        account,
		logger:         logger,
		now:            time.Now,
	}
}

// Watch registers opts as the watcher, replacing any previous one
func (s *Service) Watch(opts domain.WatchOptions) error {
	if opts.WantIssuer == "" {
		return domain.ErrNoIssuer
	}

	s.mu.Lock()
	s.watcher = &opts
	s.mu.Unlock()

	if opts.OnReady != nil {
		go opts.OnReady()
	}
	return nil
}

// Request authenticates asynchronously and reports to the current watcher
func (s *Service) Request(opts domain.RequestOptions) {
	s.mu.Lock()
	w := s.watcher
	s.mu.Unlock()

	id := uuid.NewString()
	go s.authenticate(id, w, opts)
}

func (s *Service) authenticate(id string, w *domain.WatchOptions, opts domain.RequestOptions) {
	s.mu.Lock()
	account := s.account
	fresh := !s.lastAuth.IsZero() && s.now().Sub(s.lastAuth) <= opts.RefreshAuthentication
	s.mu.Unlock()

	logger := s.logger.With("request", id, "account", account)

	if w == nil {
		logger.Warn("identity request dropped", "error", domain.ErrNotWatching)
		return
	}

	if fresh {
		logger.Debug("identity still fresh")
		login(w, account)
		return
	}

	if account == "" {
		call(w.OnError, domain.ErrNoAccount)
		return
	}

	_, err := keyring.Get(s.keyringService, account)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		logger.Info("identity request cancelled, no stored token")
		if opts.OnCancel != nil {
			opts.OnCancel()
		}
	case err != nil:
		logger.Error("identity lookup failed", "error", err)
		call(w.OnError, fmt.Errorf("read token for %q: %w", account, err))
	default:
		s.mu.Lock()
		s.lastAuth = s.now()
		s.mu.Unlock()
		logger.Info("identity authenticated")
		login(w, account)
	}
}

func login(w *domain.WatchOptions, account string) {
	if w.OnLogin != nil {
		w.OnLogin(account)
	}
}

// SetAccount switches the account. A different account invalidates the
// last authentication.
func (s *Service) SetAccount(account string) {
	s.mu.Lock()
	changed := s.account != account
	s.account = account
	s.mu.Unlock()

	if changed {
		s.Logout()
	}
}

// StoreToken saves the account token in the OS keyring
func StoreToken(keyringService, account, token string) error {
	if account == "" {
		return domain.ErrNoAccount
	}
	if err := keyring.Set(keyringService, account, token); err != nil {
		return fmt.Errorf("store token for %q: %w", account, err)
	}
	return nil
}

// Logout forgets the last authentication and notifies the watcher
func (s *Service) Logout() {
	s.mu.Lock()
	s.lastAuth = time.Time{}
	w := s.watcher
	s.mu.Unlock()

	if w != nil && w.OnLogout != nil {
		go w.OnLogout()
	}
}

func call(fn func(error), err error) {
	if fn != nil {
		fn(err)
	}
}
