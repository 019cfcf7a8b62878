package papertrade

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store recording every save.
type memStore struct {
	mu     sync.Mutex
	states map[string]*State
	saves  int
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]*State)}
}

func (m *memStore) Load(_ context.Context, accountID string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[accountID]
	if !ok {
		return nil, ErrNoState
	}
	return s, nil
}

func (m *memStore) Save(_ context.Context, accountID string, s *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[accountID] = s
	m.saves++
	return nil
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func TestAutosaver_CacheIsSynchronous(t *testing.T) {
	remote, cache := newMemStore(), newMemStore()
	saver := NewAutosaver(remote, cache, "a", time.Hour, zerolog.Nop())
	defer saver.Close()

	s := NewState(M(100, "USD"), at(0))
	saver.Commit(s)

	got, err := cache.Load(context.Background(), "a")
	require.NoError(t, err)
	assert.Same(t, s, got)
	// The remote save is still pending behind the debounce window.
	assert.Equal(t, 0, remote.saveCount())
}

func TestAutosaver_DebounceCoalesces(t *testing.T) {
	remote, cache := newMemStore(), newMemStore()
	saver := NewAutosaver(remote, cache, "a", 30*time.Millisecond, zerolog.Nop())
	defer saver.Close()

	first := NewState(M(100, "USD"), at(0))
	second, err := first.Deposit(M(1, "USD"), at(1))
	require.NoError(t, err)
	third, err := second.Deposit(M(1, "USD"), at(2))
	require.NoError(t, err)

	// Three rapid commits: only the last snapshot reaches the remote.
	saver.Commit(first)
	saver.Commit(second)
	saver.Commit(third)

	assert.Eventually(t, func() bool { return remote.saveCount() == 1 }, time.Second, 5*time.Millisecond)
	got, err := remote.Load(context.Background(), "a")
	require.NoError(t, err)
	assert.Same(t, third, got)
	// Every commit hits the cache.
	assert.Equal(t, 3, cache.saveCount())
}

func TestAutosaver_CloseFlushesPending(t *testing.T) {
	remote := newMemStore()
	saver := NewAutosaver(remote, nil, "a", time.Hour, zerolog.Nop())

	s := NewState(M(100, "USD"), at(0))
	saver.Commit(s)
	require.Equal(t, 0, remote.saveCount())

	saver.Close()
	assert.Equal(t, 1, remote.saveCount())
}

func TestAutosaver_NilRemote(t *testing.T) {
	cache := newMemStore()
	saver := NewAutosaver(nil, cache, "a", time.Millisecond, zerolog.Nop())

	saver.Commit(NewState(M(100, "USD"), at(0)))
	saver.Close()
	assert.Equal(t, 1, cache.saveCount())
}

func TestOpenAccount_Fallbacks(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	seed := M(1000, "USD")

	t.Run("remote wins", func(t *testing.T) {
		remote, cache := newMemStore(), newMemStore()
		remoteState := NewState(M(500, "USD"), at(0))
		require.NoError(t, remote.Save(ctx, "a", remoteState))
		require.NoError(t, cache.Save(ctx, "a", NewState(M(900, "USD"), at(0))))

		got, err := OpenAccount(ctx, remote, cache, "a", seed, logger)
		require.NoError(t, err)
		assert.True(t, got.Cash.Equal(M(500, "USD")), "cash %s", got.Cash)
	})

	t.Run("cache adopted and pushed to remote", func(t *testing.T) {
		remote, cache := newMemStore(), newMemStore()
		require.NoError(t, cache.Save(ctx, "a", NewState(M(900, "USD"), at(0))))
		remote.saves = 0

		got, err := OpenAccount(ctx, remote, cache, "a", seed, logger)
		require.NoError(t, err)
		assert.True(t, got.Cash.Equal(M(900, "USD")), "cash %s", got.Cash)
		// The adopted snapshot is reconciled back to the remote store.
		assert.Equal(t, 1, remote.saveCount())
	})

	t.Run("fresh account", func(t *testing.T) {
		got, err := OpenAccount(ctx, newMemStore(), newMemStore(), "a", seed, logger)
		require.NoError(t, err)
		assert.True(t, got.Cash.Equal(seed), "cash %s", got.Cash)
		assert.Len(t, got.NetWorthHistory, 1)
	})
}
