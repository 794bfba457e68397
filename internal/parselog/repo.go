package parselog

import "context"

// DefaultListLimit applies when a caller asks for zero or fewer entries.
const DefaultListLimit = 20

// MaxListLimit caps a single listing.
const MaxListLimit = 200

// Repo defines persistence operations for parse audit entries.
type Repo interface {
	Create(ctx context.Context, entry Entry) error
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
