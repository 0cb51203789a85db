package store

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"jokebox/internal/config"
	"jokebox/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a sqlite file store with an empty jokes table.
func newTestStore(t *testing.T) *SQLStore {
	t.Helper()

	st, err := Open(config.DB{
		Driver:         "sqlite",
		Path:           filepath.Join(t.TempDir(), "jokes.db"),
		ConnectTimeout: time.Second,
		MaxConns:       10,
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	_, err = st.db.Exec(`CREATE TABLE jokes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		body TEXT NOT NULL
	)`)
	require.NoError(t, err)

	return st
}

func seed(t *testing.T, st *SQLStore, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := st.db.Exec(`INSERT INTO jokes (title, body) VALUES (?, ?)`,
			fmt.Sprintf("title %d", i), fmt.Sprintf("body %d", i))
		require.NoError(t, err)
	}
}

func TestSQLStore_ListJokes(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, 3)

	jokes, err := st.ListJokes(context.Background())
	require.NoError(t, err)

	require.Len(t, jokes, 3)
	assert.Equal(t, model.Joke{ID: 1, Title: "title 1", Body: "body 1"}, jokes[0])
	assert.Equal(t, int64(3), jokes[2].ID)
	assert.Equal(t, 0, st.Stats().InUse, "connection should be back in the pool")
}

func TestSQLStore_ListJokes_Empty(t *testing.T) {
	st := newTestStore(t)

	jokes, err := st.ListJokes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, jokes)
	assert.Empty(t, jokes)
}

func TestSQLStore_QueryFailure_ReleasesConnection(t *testing.T) {
	st := newTestStore(t)
	_, err := st.db.Exec(`DROP TABLE jokes`)
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		_, err := st.ListJokes(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrQuery)
	}

	assert.Equal(t, 0, st.Stats().InUse, "failed queries must not leak connections")
	assert.LessOrEqual(t, st.Stats().OpenConnections, 10)
}

func TestSQLStore_AcquireFailure(t *testing.T) {
	st := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.ListJokes(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 0, st.Stats().InUse)
}

func TestSQLStore_Probe(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Probe(context.Background()))
	assert.Equal(t, 0, st.Stats().InUse)
}

func TestSQLStore_PoolCap(t *testing.T) {
	st := newTestStore(t)
	seed(t, st, 1)

	// Hold every slot, then check the next caller waits instead of failing.
	var held []interface{ Close() error }
	for i := 0; i < 10; i++ {
		conn, err := st.db.Conn(context.Background())
		require.NoError(t, err)
		held = append(held, conn)
	}

	done := make(chan error, 1)
	go func() {
		_, err := st.ListJokes(context.Background())
		done <- err
	}()

	select {
	case err := <-done:
		t.Fatalf("ListJokes returned while pool was exhausted: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	held[0].Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ListJokes never got a connection")
	}

	for _, c := range held[1:] {
		c.Close()
	}
	assert.Equal(t, 0, st.Stats().InUse)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.DB{Driver: "oracle"})
	assert.Error(t, err)
}

func TestConnectionHints(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	wrapped := fmt.Errorf("%w: %w", ErrUnavailable, refused)

	assert.Len(t, ConnectionHints(wrapped), 3)
	assert.Nil(t, ConnectionHints(ErrQuery))
}
