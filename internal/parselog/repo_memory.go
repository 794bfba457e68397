package parselog

import (
	"context"
	"sort"
	"sync"
)

const defaultMemoryCapacity = 1000

// MemoryRepo keeps the most recent entries in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

// NewMemoryRepo constructs a MemoryRepo holding at most capacity entries.
func NewMemoryRepo(capacity int) *MemoryRepo {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryRepo{capacity: capacity}
}

// Create stores the entry, evicting the oldest one when full.
func (r *MemoryRepo) Create(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if over := len(r.entries) - r.capacity; over > 0 {
		r.entries = append([]Entry(nil), r.entries[over:]...)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = clampLimit(limit)

	r.mu.RLock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
