package probe

import (
	"context"
	"fmt"
)

// Chain tries each resolver in order. The first success wins, and the
// first error that is not ErrNotFound stops the chain.
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, id string) error {
	for _, r := range c {
		err := r.Resolve(ctx, id)
		if err == nil || !IsNotFound(err) {
			return err
		}
	}
	return fmt.Errorf("%q: no resolver located it: %w", id, ErrNotFound)
}
