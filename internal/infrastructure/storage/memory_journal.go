package storage

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

// MemoryJournal in-memory action journal
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []entity.JournalEntry
	maxSize int
}

// NewMemoryJournal keeps at most maxSize entries
func NewMemoryJournal(maxSize int) *MemoryJournal {
	if maxSize <= 0 {
		maxSize = DefaultJournalSize
	}
	return &MemoryJournal{
		entries: []entity.JournalEntry{},
		maxSize: maxSize,
	}
}

// Record appends the entry, dropping the oldest past maxSize
func (m *MemoryJournal) Record(ctx context.Context, entry entity.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	m.entries = append(m.entries, entry)
	if over := len(m.entries) - m.maxSize; over > 0 {
		m.entries = append([]entity.JournalEntry(nil), m.entries[over:]...)
	}
	return nil
}

// Recent newest first
func (m *MemoryJournal) Recent(ctx context.Context, limit int) ([]entity.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]entity.JournalEntry, 0, n)
	for i := len(m.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}
