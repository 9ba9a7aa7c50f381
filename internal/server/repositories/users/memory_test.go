package users

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{UserName: "alice", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = r.Create(ctx, &models.User{UserName: "alice", PasswordHash: "h2"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	// usernames are case-sensitive
	_, err = r.Create(ctx, &models.User{UserName: "Alice", PasswordHash: "h"})
	assert.NoError(t, err)

	got, err := r.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)

	_, err = r.GetUserByLogin(ctx, "bob")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_Seq(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	u, err := r.Create(ctx, &models.User{UserName: "alice"})
	require.NoError(t, err)

	for want := int64(1); want <= 3; want++ {
		got, err := r.NextPredictionSeq(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	require.NoError(t, r.ResetPredictionSeq(ctx, u.ID))
	got, err := r.NextPredictionSeq(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	_, err = r.NextPredictionSeq(ctx, 99)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, r.ResetPredictionSeq(ctx, 99), common.ErrorNotFound)
}

func TestMemoryRepository_SeqConcurrent(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	u, err := r.Create(ctx, &models.User{UserName: "alice"})
	require.NoError(t, err)

	const n = 50
	seen := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := r.NextPredictionSeq(ctx, u.ID)
			if err == nil {
				seen <- s
			}
		}()
	}
	wg.Wait()
	close(seen)

	uniq := map[int64]bool{}
	for s := range seen {
		uniq[s] = true
	}
	assert.Len(t, uniq, n)
}

func TestMemoryRepository_Snapshot(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	u, err := r.Create(ctx, &models.User{UserName: "alice"})
	require.NoError(t, err)

	restore := r.Snapshot()

	_, err = r.NextPredictionSeq(ctx, u.ID)
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.User{UserName: "bob"})
	require.NoError(t, err)

	restore()

	_, err = r.GetUserByLogin(ctx, "bob")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	seq, err := r.NextPredictionSeq(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	// the id counter is rolled back as well
	b, err := r.Create(ctx, &models.User{UserName: "bob"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.ID)
}
