package searchcache

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestStore(t *testing.T, ttl time.Duration) (*SQLiteStore, *clock) {
	t.Helper()
	s, err := NewSQLiteStore(":memory:", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	s.now = c.now
	return s, c
}

func TestSQLiteStore_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	s, c := newTestStore(t, time.Minute)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", json.RawMessage(`{"results":[]}`)))
	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"results":[]}`, string(got))

	c.t = c.t.Add(time.Minute)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entry expires after ttl")
}

func TestSQLiteStore_SetReplaces(t *testing.T) {
	ctx := context.Background()
	s, c := newTestStore(t, time.Minute)

	require.NoError(t, s.Set(ctx, "k", json.RawMessage(`1`)))
	c.t = c.t.Add(50 * time.Second)
	require.NoError(t, s.Set(ctx, "k", json.RawMessage(`2`)))
	c.t = c.t.Add(30 * time.Second)

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok, "rewrite extends expiry")
	assert.Equal(t, "2", string(got))
}

func TestSQLiteStore_Sweep(t *testing.T) {
	ctx := context.Background()
	s, c := newTestStore(t, time.Minute)

	require.NoError(t, s.Set(ctx, "old", json.RawMessage(`1`)))
	c.t = c.t.Add(45 * time.Second)
	require.NoError(t, s.Set(ctx, "new", json.RawMessage(`2`)))
	c.t = c.t.Add(30 * time.Second)

	n, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteStore_FilePersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewSQLiteStore(path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", json.RawMessage(`"v"`)))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path, time.Hour)
	require.NoError(t, err)
	defer s.Close()
	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"v"`, string(got))
}

func TestNewSQLiteStore_RejectsBadTTL(t *testing.T) {
	_, err := NewSQLiteStore(":memory:", 0)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	type params struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	a, err := Key(params{Query: "q", Limit: 20})
	require.NoError(t, err)
	b, err := Key(params{Query: "q", Limit: 20})
	require.NoError(t, err)
	c, err := Key(params{Query: "q", Limit: 5})
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, err = Key(func() {})
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	require.NoError(t, c.Set(context.Background(), "k", json.RawMessage(`1`)))
	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

type countingSweep struct{ calls atomic.Int32 }

func (c *countingSweep) Sweep(context.Context) (int64, error) {
	c.calls.Add(1)
	return 1, nil
}

func TestSweeper_RunsPeriodically(t *testing.T) {
	target := &countingSweep{}
	sw, err := NewSweeper(target, 20*time.Millisecond, nil)
	require.NoError(t, err)
	sw.Start()
	defer func() { require.NoError(t, sw.Stop()) }()

	assert.Eventually(t, func() bool { return target.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}
