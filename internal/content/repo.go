package content

import (
	"context"
	"errors"
)

// ErrNoOverrides is returned when no override document has been saved.
var ErrNoOverrides = errors.New("no content overrides stored")

// Repo stores the single override document.
type Repo interface {
	Load(ctx context.Context) (map[string]any, error)
	Save(ctx context.Context, doc map[string]any) error
}
