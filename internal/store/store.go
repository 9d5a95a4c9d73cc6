package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketSettings = []byte("settings")
	bucketSync     = []byte("sync")
)

// op is a queued unit of work for the writer goroutine.
// Exactly one of values, observe or done is set.
type op struct {
	values  map[string]any
	observe *observer
	done    chan struct{}
}

type observer struct {
	key          string
	defaultValue any
	fn           func(any)
}

// SettingsStore implements domain.Settings using BoltDB.
// Writes and observer notifications are serialized through one goroutine so
// observers see changes in write order.
type SettingsStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache and observers

	// In-memory cache for hot-path reads (promoted on access)
	cache     map[string][]byte
	observers map[string][]*observer

	queue chan op
	wg    sync.WaitGroup
	once  sync.Once
}

// NewSettingsStore opens the settings db under dir. An empty dir keeps
// everything in memory.
func NewSettingsStore(dir string) (*SettingsStore, error) {
	s := &SettingsStore{
		cache:     make(map[string][]byte),
		observers: make(map[string][]*observer),
		queue:     make(chan op, 64),
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}

		dbPath := filepath.Join(dir, "settings.db")
		db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt db: %w", err)
		}

		err = db.Update(func(tx *bolt.Tx) error {
			for _, bucket := range [][]byte{bucketSettings, bucketSync} {
				if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, err
		}
		s.db = db
	}

	s.wg.Add(1)
	go s.run()

	return s, nil
}

// Close drains pending writes and closes the db
func (s *SettingsStore) Close() error {
	s.once.Do(func() { close(s.queue) })
	s.wg.Wait()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SettingsStore) run() {
	defer s.wg.Done()
	for o := range s.queue {
		switch {
		case o.values != nil:
			s.apply(o.values)
		case o.observe != nil:
			o.observe.fn(s.current(o.observe.key, o.observe.defaultValue))
		case o.done != nil:
			close(o.done)
		}
	}
}

// apply writes values and notifies observers of each written key
func (s *SettingsStore) apply(values map[string]any) {
	for key, value := range values {
		if err := s.set(bucketSettings, key, value); err != nil {
			slog.Error("settings write failed", "key", key, "error", err)
			continue
		}

		s.mu.RLock()
		obs := append([]*observer(nil), s.observers[key]...)
		s.mu.RUnlock()

		for _, o := range obs {
			o.fn(s.current(key, o.defaultValue))
		}
	}
}

func (s *SettingsStore) current(key string, defaultValue any) any {
	var v any
	if !s.get(bucketSettings, key, &v) {
		return defaultValue
	}
	return v
}

// === Settings service ===

// Observe registers fn for key. fn receives the current value (or defaultValue
// when unset) once, then again after every write to key.
func (s *SettingsStore) Observe(key string, defaultValue any, fn func(any)) {
	o := &observer{key: key, defaultValue: defaultValue, fn: fn}

	s.mu.Lock()
	s.observers[key] = append(s.observers[key], o)
	s.mu.Unlock()

	s.queue <- op{observe: o}
}

// Set queues values for writing. It does not wait for the write.
func (s *SettingsStore) Set(values map[string]any) {
	if len(values) == 0 {
		return
	}
	cp := make(map[string]any, len(values))
	for k, v := range values {
		cp[k] = v
	}
	s.queue <- op{values: cp}
}

// Flush blocks until every queued write and notification has been delivered
func (s *SettingsStore) Flush() {
	done := make(chan struct{})
	s.queue <- op{done: done}
	<-done
}

// Get decodes the stored value of a setting into dest
func (s *SettingsStore) Get(key string, dest interface{}) bool {
	return s.get(bucketSettings, key, dest)
}

// === Sync manager state ===

// LoadSyncRecord decodes a sync manager record into dest
func (s *SettingsStore) LoadSyncRecord(key string, dest interface{}) bool {
	return s.get(bucketSync, key, dest)
}

// SaveSyncRecord persists a sync manager record
func (s *SettingsStore) SaveSyncRecord(key string, value interface{}) error {
	return s.set(bucketSync, key, value)
}

// DeleteSyncRecord removes a sync manager record
func (s *SettingsStore) DeleteSyncRecord(key string) {
	s.delete(bucketSync, key)
}

// === Generic helpers ===

func (s *SettingsStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *SettingsStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *SettingsStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}
