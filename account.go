package papertrade

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// OpenAccount loads the account's state: remote store first, then the local
// cache, then a fresh state seeded with the given cash. When only the cache
// has a record, it is adopted and immediately pushed back to the remote
// store to reconcile. Loaded snapshots are migrated best-effort; a corrupt
// or unreachable store degrades to the next source rather than failing.
func OpenAccount(ctx context.Context, remote, cache Store, accountID string, seed Money, logger zerolog.Logger) (*State, error) {
	if remote != nil {
		s, err := remote.Load(ctx, accountID)
		if err == nil {
			return s.migrate(time.Now()), nil
		}
		if !errors.Is(err, ErrNoState) {
			logger.Warn().Err(err).Str("account", accountID).Msg("remote load failed, falling back to local cache")
		}
	}

	if cache != nil {
		s, err := cache.Load(ctx, accountID)
		if err == nil {
			s = s.migrate(time.Now())
			if remote != nil {
				if err := remote.Save(ctx, accountID, s); err != nil {
					logger.Warn().Err(err).Str("account", accountID).Msg("could not reconcile cached snapshot to remote store")
				}
			}
			return s, nil
		}
		if !errors.Is(err, ErrNoState) {
			logger.Warn().Err(err).Str("account", accountID).Msg("local cache load failed, starting fresh")
		}
	}

	return NewState(seed, time.Now()), nil
}
