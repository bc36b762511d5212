package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotspotsapp/wifi-directory/internal/adapters/memory"
	"github.com/hotspotsapp/wifi-directory/internal/adapters/storetest"
	"github.com/hotspotsapp/wifi-directory/internal/domain/repositories"
)

func TestMemoryStore_Contract(t *testing.T) {
	storetest.RunDirectorySuite(t, func(t *testing.T) repositories.DirectoryStore {
		return memory.NewStore()
	})
}

func TestMemoryStore_IDsAreMonotonicPerCollection(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	h1, err := store.CreateHotspot(ctx, repositories.NewHotspot{Name: "A", Address: "1 St", Category: "Cafe"})
	require.NoError(t, err)
	h2, err := store.CreateHotspot(ctx, repositories.NewHotspot{Name: "B", Address: "2 St", Category: "Cafe"})
	require.NoError(t, err)
	assert.Equal(t, 1, h1.ID)
	assert.Equal(t, 2, h2.ID)

	// Each entity type counts independently.
	u, err := store.CreateUser(ctx, repositories.NewUser{Username: "bob", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	r, err := store.CreateReview(ctx, repositories.NewReview{UserID: u.ID, HotspotID: h1.ID, Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 1, r.ID)
}

func TestMemoryStore_ConcurrentDuplicateUsernames(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	const attempts = 20
	var created atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.CreateUser(ctx, repositories.NewUser{Username: "alice", Password: "x"})
			if err == nil {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	u, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestMemoryStore_ApprovedListingKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	names := []string{"First", "Second", "Third"}
	records := make([]repositories.NewHotspot, 0, len(names))
	for _, name := range names {
		records = append(records, repositories.NewHotspot{Name: name, Address: name + " St", Category: "Cafe"})
	}
	require.NoError(t, store.BulkImport(ctx, records))

	approved, err := store.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 3)
	for i, name := range names {
		assert.Equal(t, name, approved[i].Name)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	created, err := store.CreateHotspot(ctx, repositories.NewHotspot{Name: "Immutable", Address: "1 St", Category: "Cafe"})
	require.NoError(t, err)

	created.Name = "Mutated"

	got, err := store.GetHotspotByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Immutable", got.Name)
}
