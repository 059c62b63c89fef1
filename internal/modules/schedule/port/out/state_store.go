package out

import (
	"context"

	"recap/internal/modules/schedule/domain"
)

// StateStore persists the quiz state. Mutate applies fn under the store's
// write lock and persists the result atomically; fn returning an error
// aborts without writing.
type StateStore interface {
	Load(ctx context.Context) (domain.State, error)
	Mutate(ctx context.Context, fn func(domain.State) (domain.State, error)) (domain.State, error)
}
