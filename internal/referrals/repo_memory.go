package referrals

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows []Referral
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create appends a referral.
func (r *MemoryRepo) Create(ctx context.Context, ref Referral) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, ref)
	return nil
}

// Get returns the referral with id.
func (r *MemoryRepo) Get(ctx context.Context, id string) (Referral, error) {
	if err := ctx.Err(); err != nil {
		return Referral{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ref := range r.rows {
		if ref.ID == id {
			return ref, nil
		}
	}
	return Referral{}, ErrNotFound
}

// ListRecent returns referrals newest first.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit, offset int) ([]Referral, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Referral
	for i := len(r.rows) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.rows[i])
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
