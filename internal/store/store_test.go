package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(":memory:", 1, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newFileTestDB opens a WAL database on disk with a real connection pool, so
// concurrent callers run on separate connections.
func newFileTestDB(t *testing.T, maxOpen int) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"), maxOpen, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestRepo(t *testing.T, opts ...Option) (*Repository, *testClock) {
	t.Helper()
	clock := newTestClock()
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewRepository(newTestDB(t), opts...), clock
}

func ptr[T any](v T) *T { return &v }

func TestRepositoryTimeout(t *testing.T) {
	repo, _ := newTestRepo(t, WithTimeout(time.Nanosecond))
	time.Sleep(time.Millisecond)

	_, err := repo.GetPaymentLink(context.Background(), "abcd1234")
	require.ErrorIs(t, err, ErrTimeout)
}
