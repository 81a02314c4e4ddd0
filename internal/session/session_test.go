package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// database/sql keeps a connection opener goroutine per pool until Close.
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type purger interface {
	Store
	Purge(ctx context.Context) (int, error)
}

func stores() map[string]func(*testing.T, *clock) purger {
	return map[string]func(*testing.T, *clock) purger{
		"memory": func(_ *testing.T, c *clock) purger {
			m := NewMemory()
			m.now = c.now
			return m
		},
		"sqlite": func(t *testing.T, c *clock) purger {
			s, err := NewSQLite(filepath.Join(t.TempDir(), "sessions.db"))
			require.NoError(t, err)
			s.now = c.now
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func TestStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	for name, open := range stores() {
		t.Run(name, func(t *testing.T) {
			s := open(t, &clock{t: time.Unix(1_700_000_000, 0)})

			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "token:abc", "user-1", 0))
			v, ok, err := s.Get(ctx, "token:abc")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "user-1", v)

			require.NoError(t, s.Set(ctx, "token:abc", "user-2", 0))
			v, _, err = s.Get(ctx, "token:abc")
			require.NoError(t, err)
			assert.Equal(t, "user-2", v)

			require.NoError(t, s.Clear(ctx, "token:abc"))
			_, ok, err = s.Get(ctx, "token:abc")
			require.NoError(t, err)
			assert.False(t, ok)

			assert.NoError(t, s.Clear(ctx, "never-set"))
		})
	}
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	for name, open := range stores() {
		t.Run(name, func(t *testing.T) {
			c := &clock{t: time.Unix(1_700_000_000, 0)}
			s := open(t, c)

			require.NoError(t, s.Set(ctx, "short", "a", time.Minute))
			require.NoError(t, s.Set(ctx, "forever", "b", 0))

			c.advance(59 * time.Second)
			_, ok, err := s.Get(ctx, "short")
			require.NoError(t, err)
			assert.True(t, ok)

			c.advance(time.Second)
			_, ok, err = s.Get(ctx, "short")
			require.NoError(t, err)
			assert.False(t, ok, "entry expires at exactly its ttl")

			v, ok, err := s.Get(ctx, "forever")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "b", v)
		})
	}
}

func TestStore_Purge(t *testing.T) {
	ctx := context.Background()
	for name, open := range stores() {
		t.Run(name, func(t *testing.T) {
			c := &clock{t: time.Unix(1_700_000_000, 0)}
			s := open(t, c)

			require.NoError(t, s.Set(ctx, "a", "1", time.Second))
			require.NoError(t, s.Set(ctx, "b", "2", time.Hour))
			require.NoError(t, s.Set(ctx, "c", "3", 0))

			c.advance(time.Minute)
			n, err := s.Purge(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			_, ok, err := s.Get(ctx, "b")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "sessions.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v", time.Hour))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestOpen(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
	require.NoError(t, s.Close())

	s, err = Open(filepath.Join(t.TempDir(), "s.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())
}
