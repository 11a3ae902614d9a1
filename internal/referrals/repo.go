package referrals

import "context"

// Repo persists referral rows.
type Repo interface {
	Create(ctx context.Context, ref Referral) error
	Get(ctx context.Context, id string) (Referral, error)
	ListRecent(ctx context.Context, limit, offset int) ([]Referral, error)
}
