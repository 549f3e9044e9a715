package store

import (
	"context"
	"sync"
	"time"

	"shorturl-go/internal/model"
)

// MemoryStore keeps records in a mutex-guarded map. Used for development
// (store.driver: memory) and for unit tests. A single lock serializes
// conflicting writes, which gives the same atomicity guarantees the MySQL
// store gets from its unique index and per-row click inserts.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint
	urls   map[string]*model.ShortURL
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		urls: make(map[string]*model.ShortURL),
	}
}

func (m *MemoryStore) FindByShortcode(ctx context.Context, shortcode string) (*model.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, exists := m.urls[shortcode]
	if !exists {
		return nil, ErrNotFound
	}

	// Copy so callers cannot mutate the stored click log.
	out := *record
	out.Clicks = make([]model.ClickEvent, len(record.Clicks))
	copy(out.Clicks, record.Clicks)
	return &out, nil
}

func (m *MemoryStore) Insert(ctx context.Context, record *model.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.urls[record.Shortcode]; exists {
		return ErrDuplicateKey
	}

	m.nextID++
	record.ID = m.nextID
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	stored := *record
	stored.Clicks = make([]model.ClickEvent, len(record.Clicks))
	copy(stored.Clicks, record.Clicks)
	m.urls[record.Shortcode] = &stored
	return nil
}

func (m *MemoryStore) AppendClick(ctx context.Context, shortcode string, event model.ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, exists := m.urls[shortcode]
	if !exists {
		return ErrNotFound
	}

	event.ShortURLID = record.ID
	record.Clicks = append(record.Clicks, event)
	return nil
}
