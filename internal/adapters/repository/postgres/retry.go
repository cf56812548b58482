package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ballotbox/api/internal/core/domain"
)

const retryBackoff = 50 * time.Millisecond

// retryRead runs a read-only query and retries it once after a short backoff
// if the failure looks transient. A failure that is still transient after the
// retry is surfaced as ErrTransient so callers can report it as retryable.
// Mutating statements must not go through here; their retry semantics belong
// to the caller.
func retryRead(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || !isTransient(err) {
		return err
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := fn(); err != nil {
		if isTransient(err) {
			return fmt.Errorf("%w: %v", domain.ErrTransient, err)
		}
		return err
	}
	return nil
}
