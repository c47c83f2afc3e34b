package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/nsrpc/nsrpc/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPins     = []byte("pins")
	bucketCatalogs = []byte("catalogs")
)

const pinsKey = "list"

// Store implements domain.PinStore and domain.CatalogCache using BoltDB.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	pinsMu sync.Mutex // Serializes pin read-modify-write

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open opens (or creates) nsrpc.db under dir. An empty dir gives a
// memory-only store, used by tests and when persistence is disabled.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "nsrpc.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPins, bucketCatalogs} {
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

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

// get reads raw bytes; ok is false when the key is absent.
func (s *Store) get(bucket []byte, key string) ([]byte, bool, error) {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return data, true, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
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
	if err != nil {
		return nil, false, fmt.Errorf("%w: read %s: %v", domain.ErrUnavailable, cacheKey, err)
	}
	if data == nil {
		return nil, false, nil
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return data, true, nil
}

func (s *Store) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return fmt.Errorf("%w: write %s:%s: %v", domain.ErrUnavailable, bucket, key, err)
		}
	}

	s.mu.Lock()
	s.cache[string(bucket)+":"+key] = data
	s.mu.Unlock()
	return nil
}

// === Pins ===

// ListPins returns pinned names in the order they were added
func (s *Store) ListPins() ([]string, error) {
	data, ok, err := s.get(bucketPins, pinsKey)
	if err != nil || !ok {
		return nil, err
	}
	return decodePins(data)
}

// AddPin appends name unless it is already pinned
func (s *Store) AddPin(name string) error {
	return s.updatePins(func(pins []string) []string {
		if slices.Contains(pins, name) {
			return pins
		}
		return append(pins, name)
	})
}

// RemovePin drops name from the pin set
func (s *Store) RemovePin(name string) error {
	return s.updatePins(func(pins []string) []string {
		return slices.DeleteFunc(pins, func(p string) bool { return p == name })
	})
}

func (s *Store) updatePins(update func([]string) []string) error {
	s.pinsMu.Lock()
	defer s.pinsMu.Unlock()

	pins, err := s.ListPins()
	if err != nil {
		return err
	}
	next := update(slices.Clone(pins))
	if slices.Equal(next, pins) {
		return nil
	}
	if next == nil {
		next = []string{}
	}
	return s.set(bucketPins, pinsKey, next)
}

// decodePins validates a stored pin list: a JSON array of non-empty strings
func decodePins(data []byte) ([]string, error) {
	var pins []string
	if err := json.Unmarshal(data, &pins); err != nil {
		return nil, fmt.Errorf("%w: pins: %v", domain.ErrInvalidPayload, err)
	}
	for i, p := range pins {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("%w: pins: empty name at index %d", domain.ErrInvalidPayload, i)
		}
	}
	return pins, nil
}

// ImportLegacyPins seeds the pin set from a pinned.json file written by
// older releases (~/NS-RPC/pinned.json). It only runs when no pins are
// stored yet and reports how many pins were imported.
func (s *Store) ImportLegacyPins(path string) (int, error) {
	if _, ok, err := s.get(bucketPins, pinsKey); err != nil || ok {
		return 0, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: read legacy pins: %v", domain.ErrUnavailable, err)
	}

	legacy, err := decodePins(data)
	if err != nil {
		return 0, err
	}

	var pins []string
	for _, p := range legacy {
		if !slices.Contains(pins, p) {
			pins = append(pins, p)
		}
	}
	if pins == nil {
		pins = []string{}
	}
	if err := s.set(bucketPins, pinsKey, pins); err != nil {
		return 0, err
	}
	return len(pins), nil
}

// LegacyPinsPath returns where older releases kept pinned.json
func LegacyPinsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "NS-RPC", "pinned.json")
}

// === Catalog cache ===

// GetCatalog returns the last saved catalog for target.
// A corrupt entry is treated as a miss.
func (s *Store) GetCatalog(target domain.ConsoleTarget) ([]domain.Title, bool) {
	data, ok, err := s.get(bucketCatalogs, string(target))
	if err != nil || !ok {
		return nil, false
	}
	var titles []domain.Title
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, false
	}
	return titles, true
}

// SaveCatalog replaces the cached catalog for target
func (s *Store) SaveCatalog(target domain.ConsoleTarget, titles []domain.Title) error {
	return s.set(bucketCatalogs, string(target), titles)
}
