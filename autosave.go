package papertrade

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Autosaver persists state transitions. The local cache is written
// synchronously on every commit; the remote save is fire-and-forget,
// coalesced by a debounce window after the last mutation, so rapid
// successive operations produce a single remote write. A pending save is
// superseded, not run, when a newer commit arrives before the timer fires.
type Autosaver struct {
	remote    Store // may be nil for local-only operation
	cache     Store
	accountID string
	debounce  time.Duration
	logger    zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *State
}

// NewAutosaver wires the two stores for an account. Either store may be nil.
func NewAutosaver(remote, cache Store, accountID string, debounce time.Duration, logger zerolog.Logger) *Autosaver {
	return &Autosaver{
		remote:    remote,
		cache:     cache,
		accountID: accountID,
		debounce:  debounce,
		logger:    logger,
	}
}

// Commit records a new state snapshot: the cache is written immediately,
// and a remote save is (re)scheduled. Persistence failures are logged and
// never propagate; the engine keeps operating on the in-memory state.
func (a *Autosaver) Commit(s *State) {
	if a.cache != nil {
		if err := a.cache.Save(context.Background(), a.accountID, s); err != nil {
			a.logger.Warn().Err(err).Str("account", a.accountID).Msg("local cache save failed")
		}
	}
	if a.remote == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = s
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, a.flush)
}

// flush writes the latest pending snapshot to the remote store.
func (a *Autosaver) flush() {
	a.mu.Lock()
	s := a.pending
	a.pending = nil
	a.mu.Unlock()
	if s == nil {
		return
	}
	if err := a.remote.Save(context.Background(), a.accountID, s); err != nil {
		a.logger.Warn().Err(err).Str("account", a.accountID).Msg("remote save failed")
		return
	}
	a.logger.Debug().Str("account", a.accountID).Msg("remote snapshot saved")
}

// Close cancels the debounce timer and flushes any pending snapshot.
func (a *Autosaver) Close() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	a.flush()
}
