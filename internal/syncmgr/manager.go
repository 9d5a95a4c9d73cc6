// Package syncmgr is an in-process sync manager exposed through the
// domain.SyncBridge contract. It drives the lifecycle states only; no data is
// transferred.
package syncmgr

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmcdole/syncpanel/internal/domain"
)

const recordKey = "state"

// Records persists the manager state between runs
type Records interface {
	LoadSyncRecord(key string, dest interface{}) bool
	SaveSyncRecord(key string, value interface{}) error
	DeleteSyncRecord(key string)
}

// record is the persisted form of the manager state
type record struct {
	State    domain.SyncState `json:"state"`
	User     string           `json:"user"`
	LastSync time.Time        `json:"last_sync"`
}

// Options configures a Manager
type Options struct {
	Account  string
	Duration time.Duration // length of one sync
	Offline  bool
	Records  Records
	Logger   *slog.Logger
}

// Manager implements domain.SyncBridge
type Manager struct {
	mu       sync.Mutex
	info     domain.SyncInfo
	account  string
	offline  bool
	duration time.Duration
	lastSync time.Time
	timer    *time.Timer
	closed   bool

	lmu       sync.Mutex // Protects listeners; never held while mu is wanted
	listeners []func(domain.SyncInfo)

	records Records
	logger  *slog.Logger

	events chan domain.SyncInfo
	done   chan struct{}
}

// NewManager creates a manager, restoring an enabled state from a previous run
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		info:     domain.SyncInfo{State: domain.SyncDisabled},
		account:  opts.Account,
		offline:  opts.Offline,
		duration: opts.Duration,
		records:  opts.Records,
		logger:   logger,
		events:   make(chan domain.SyncInfo, 16),
		done:     make(chan struct{}),
	}

	if info, last, ok := LoadState(m.records); ok && info.State == domain.SyncEnabled && info.User == m.account && m.account != "" {
		m.info = info
		m.lastSync = last
	}

	go m.notify()
	return m
}

// LoadState returns the state persisted by a previous run
func LoadState(records Records) (domain.SyncInfo, time.Time, bool) {
	if records == nil {
		return domain.SyncInfo{}, time.Time{}, false
	}
	var rec record
	if !records.LoadSyncRecord(recordKey, &rec) {
		return domain.SyncInfo{}, time.Time{}, false
	}
	return domain.SyncInfo{State: rec.State, User: rec.User}, rec.LastSync, true
}

// notify delivers state changes to listeners in emission order
func (m *Manager) notify() {
	defer close(m.done)
	for info := range m.events {
		m.lmu.Lock()
		listeners := slices.Clone(m.listeners)
		m.lmu.Unlock()

		for _, fn := range listeners {
			fn(info)
		}
	}
}

// Close stops the manager. Pending notifications are still delivered.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.timer != nil {
		m.timer.Stop()
	}
	close(m.events)
	m.mu.Unlock()
	<-m.done
}

// Info returns the current state
func (m *Manager) Info(ctx context.Context) (domain.SyncInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.SyncInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.info, nil
}

// lastSyncTime returns the time of the last completed sync
func (m *Manager) lastSyncTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSync
}

// AddListener registers fn for every subsequent state change
func (m *Manager) AddListener(fn func(domain.SyncInfo)) {
	m.lmu.Lock()
	m.listeners = append(m.listeners, fn)
	m.lmu.Unlock()
}

// SetOffline simulates losing or regaining the network
func (m *Manager) SetOffline(offline bool) {
	m.mu.Lock()
	m.offline = offline
	m.mu.Unlock()
	m.logger.Info("sync network changed", "offline", offline)
}

// SetAccount changes the account used by the next Enable
func (m *Manager) SetAccount(account string) {
	m.mu.Lock()
	m.account = account
	m.mu.Unlock()
}

// Enable signs in with the configured account and starts a first sync
func (m *Manager) Enable() {
	m.mu.Lock()
	if m.info.State == domain.SyncEnabled || m.info.State == domain.SyncSyncing {
		m.mu.Unlock()
		return
	}

	switch {
	case m.account == "":
		m.failLocked(domain.ErrorInvalidSyncAccount)
		m.mu.Unlock()
		return
	case m.offline:
		m.failLocked(domain.ErrorOffline)
		m.mu.Unlock()
		return
	}

	m.info = domain.SyncInfo{State: domain.SyncEnabled, User: m.account}
	m.persistLocked()
	m.emitLocked()
	m.mu.Unlock()

	m.logger.Info("sync enabled", "user", m.account)
	m.Sync()
}

// Disable signs out and forgets the persisted state
func (m *Manager) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.info = domain.SyncInfo{State: domain.SyncDisabled}
	if m.records != nil {
		m.records.DeleteSyncRecord(recordKey)
	}
	m.emitLocked()
	m.logger.Info("sync disabled")
}

// Sync runs one sync. Ignored unless enabled.
func (m *Manager) Sync() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.info.State != domain.SyncEnabled {
		m.logger.Debug("sync ignored", "state", m.info.State)
		return
	}

	m.info = domain.SyncInfo{State: domain.SyncSyncing, User: m.info.User}
	m.emitLocked()
	m.timer = time.AfterFunc(m.duration, m.finishSync)
}

func (m *Manager) finishSync() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.info.State != domain.SyncSyncing {
		return
	}
	m.timer = nil

	if m.offline {
		m.failLocked(domain.ErrorOffline)
		return
	}

	m.lastSync = time.Now()
	m.info = domain.SyncInfo{State: domain.SyncEnabled, User: m.info.User}
	m.persistLocked()
	m.emitLocked()
	m.logger.Info("sync finished", "user", m.info.User)
}

// failLocked emits an errored notification. The manager itself falls back to
// disabled without a further notification so the panel keeps the error alert.
func (m *Manager) failLocked(code string) {
	m.logger.Warn("sync errored", "error", code)
	m.info = domain.SyncInfo{State: domain.SyncErrored, Error: code}
	m.emitLocked()
	m.info = domain.SyncInfo{State: domain.SyncDisabled}
	if m.records != nil {
		m.records.DeleteSyncRecord(recordKey)
	}
}

func (m *Manager) persistLocked() {
	if m.records == nil {
		return
	}
	rec := record{State: domain.SyncEnabled, User: m.info.User, LastSync: m.lastSync}
	if err := m.records.SaveSyncRecord(recordKey, rec); err != nil {
		m.logger.Error("failed to persist sync state", "error", err)
	}
}

func (m *Manager) emitLocked() {
	if m.closed {
		return
	}
	m.events <- m.info
}
