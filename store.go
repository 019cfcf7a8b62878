package papertrade

import (
	"context"
	"errors"
)

// ErrNoState is returned by a Store when no snapshot exists for the account.
var ErrNoState = errors.New("no state for account")

// Store persists opaque account snapshots keyed by account identity.
// Implementations are best-effort: a failed Save is reported to the caller,
// who logs it and keeps operating on the in-memory state. Delivery is
// last-write-wins; the engine never depends on the store for correctness.
type Store interface {
	// Load returns the snapshot for the account, or ErrNoState.
	Load(ctx context.Context, accountID string) (*State, error)
	// Save replaces the snapshot for the account.
	Save(ctx context.Context, accountID string, s *State) error
}
