package content

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu  sync.RWMutex
	doc map[string]any
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Load returns a copy of the stored overrides.
func (r *MemoryRepo) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.doc == nil {
		return nil, ErrNoOverrides
	}
	return deepCopy(r.doc).(map[string]any), nil
}

// Save replaces the stored overrides.
func (r *MemoryRepo) Save(ctx context.Context, doc map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = deepCopy(doc).(map[string]any)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
