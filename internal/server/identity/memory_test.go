package identity

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMemoryStore_InsertLookup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := &Record{Username: "alice", Email: "alice@example.com", FullName: strPtr("Alice"), CredentialHash: "h"}
	require.NoError(t, s.Insert(ctx, rec))

	got, err := s.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "Alice", *got.FullName)
	assert.Equal(t, "h", got.CredentialHash)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestMemoryStore_LookupIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Insert(ctx, &Record{Username: "alice", Email: "a@example.com"}))

	_, err := s.Lookup(ctx, "Alice")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestMemoryStore_InsertDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Insert(ctx, &Record{Username: "alice", Email: "first@example.com"}))
	err := s.Insert(ctx, &Record{Username: "alice", Email: "second@example.com"})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := s.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", got.Email)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := &Record{Username: "alice", Email: "a@example.com", FullName: strPtr("Alice")}
	require.NoError(t, s.Insert(ctx, rec))

	// mutating the inserted value or a looked-up value must not leak into the store
	rec.Email = "changed@example.com"
	*rec.FullName = "Mallory"

	got, err := s.Lookup(ctx, "alice")
	require.NoError(t, err)
	got.Disabled = true

	again, err := s.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", again.Email)
	assert.Equal(t, "Alice", *again.FullName)
	assert.False(t, again.Disabled)
}

func TestMemoryStore_All(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, u := range []string{"carol", "alice", "bob"} {
		require.NoError(t, s.Insert(ctx, &Record{Username: u, Email: u + "@example.com"}))
	}

	all, err = s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alice", all[0].Username)
	assert.Equal(t, "bob", all[1].Username)
	assert.Equal(t, "carol", all[2].Username)
}

func TestMemoryStore_SetDisabled(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Insert(ctx, &Record{Username: "bob", Email: "bob@example.com"}))

	require.NoError(t, s.SetDisabled(ctx, "bob", true))
	got, err := s.Lookup(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, got.Disabled)

	require.NoError(t, s.SetDisabled(ctx, "bob", false))
	got, err = s.Lookup(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, got.Disabled)

	assert.ErrorIs(t, s.SetDisabled(ctx, "ghost", true), common.ErrorNotFound)
}

func TestMemoryStore_ConcurrentInsertSameUsername(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	const n = 32
	var (
		wg       sync.WaitGroup
		ok       atomic.Int32
		conflict atomic.Int32
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Insert(ctx, &Record{Username: "race", Email: "race@example.com"})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, common.ErrorAlreadyExists):
				conflict.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(n-1), conflict.Load())
}

func TestRecord_PublicDropsHash(t *testing.T) {
	rec := &Record{Username: "alice", Email: "a@example.com", FullName: strPtr("Alice"), Disabled: true, CredentialHash: "secret-hash"}

	pub := rec.Public()
	assert.Equal(t, &PublicIdentity{Username: "alice", Email: "a@example.com", FullName: strPtr("Alice"), Disabled: true}, pub)

	*pub.FullName = "changed"
	assert.Equal(t, "Alice", *rec.FullName)
}
