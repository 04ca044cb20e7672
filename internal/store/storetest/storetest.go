// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"pastebin/internal/model"
	"pastebin/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises s against the store contract. s must be empty.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("pastes", func(t *testing.T) { testPastes(t, newStore(t)) })
	t.Run("summaries order", func(t *testing.T) { testSummariesOrder(t, newStore(t)) })
	t.Run("concurrent adds", func(t *testing.T) { testConcurrentAdds(t, newStore(t)) })
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.GetUser(ctx, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	names, err := s.ListUsernames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.AddUser(ctx, model.User{
		Username:     "alice",
		PasswordHash: "$2a$04$hash",
		Meta:         map[string]any{"role": "admin"},
	}))
	require.NoError(t, s.AddUser(ctx, model.User{Username: "Bob", PasswordHash: "$2a$04$other"}))

	u, err := s.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "$2a$04$hash", u.PasswordHash)
	assert.Equal(t, "admin", u.Meta["role"])
	assert.False(t, u.CreatedAt.IsZero())

	// Lookups ignore case; the stored spelling is kept.
	u, err = s.GetUser(ctx, "BOB")
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Username)

	err = s.AddUser(ctx, model.User{Username: "ALICE", PasswordHash: "x"})
	assert.ErrorIs(t, err, store.ErrConflict)

	names, err = s.ListUsernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "alice"}, names)
}

func testPastes(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.GetPaste(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	sums, err := s.ListPasteSummaries(ctx)
	require.NoError(t, err)
	assert.NotNil(t, sums)
	assert.Empty(t, sums)

	p := model.Paste{ID: "p1", Title: "hello", Content: "world", Author: "alice", Date: 1700000000000}
	require.NoError(t, s.AddPaste(ctx, p))

	got, err := s.GetPaste(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p, *got)

	// Ids are matched exactly.
	_, err = s.GetPaste(ctx, "P1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.AddPaste(ctx, model.Paste{ID: "p1", Title: "again", Author: "bob", Date: 1})
	assert.ErrorIs(t, err, store.ErrConflict)

	got, err = s.GetPaste(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Title, "duplicate insert must not overwrite")
}

func testSummariesOrder(t *testing.T, s store.Store) {
	ctx := context.Background()

	for _, p := range []model.Paste{
		{ID: "a", Title: "old", Content: "1", Author: "u", Date: 100},
		{ID: "c", Title: "new", Content: "2", Author: "u", Date: 300},
		{ID: "b", Title: "tie-low", Content: "3", Author: "u", Date: 200},
		{ID: "d", Title: "tie-high", Content: "4", Author: "u", Date: 200},
	} {
		require.NoError(t, s.AddPaste(ctx, p))
	}

	sums, err := s.ListPasteSummaries(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(sums))
	for _, sum := range sums {
		ids = append(ids, sum.ID)
	}
	assert.Equal(t, []string{"c", "d", "b", "a"}, ids)
	assert.Equal(t, model.PasteSummary{ID: "c", Title: "new", Author: "u", Date: 300}, sums[0])

	again, err := s.ListPasteSummaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, sums, again)
}

func testConcurrentAdds(t *testing.T, s store.Store) {
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.AddPaste(ctx, model.Paste{
				ID:      fmt.Sprintf("id-%02d", i),
				Title:   "t",
				Content: "c",
				Author:  "u",
				Date:    int64(i),
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	// Racing writers on one id: exactly one wins.
	var conflicts, ok int
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.AddPaste(ctx, model.Paste{ID: "same", Title: "t", Content: "c", Author: "u", Date: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, store.ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)

	sums, err := s.ListPasteSummaries(ctx)
	require.NoError(t, err)
	assert.Len(t, sums, n+1)
}
