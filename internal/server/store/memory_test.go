package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/lifelog/internal/server/store"
	"github.com/dmitrijs2005/lifelog/internal/server/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Contract(t *testing.T) {
	storetest.Run(t, store.NewMemory(storetest.PhaseSchema))
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := store.NewMemory().Collection("x")

	doc := store.Document{"id": "1", "tags": []any{"a"}}
	require.NoError(t, c.Insert(ctx, doc))
	doc["tags"].([]any)[0] = "mutated"

	got, err := c.Get(ctx, "1")
	require.NoError(t, err)
	got["tags"].([]any)[0] = "mutated again"

	again, err := c.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, again["tags"])
}

func TestMemory_InsertRequiresID(t *testing.T) {
	c := store.NewMemory().Collection("x")
	assert.Error(t, c.Insert(context.Background(), store.Document{"text": "no id"}))
}

func TestMemory_UpdateIgnoresID(t *testing.T) {
	ctx := context.Background()
	c := store.NewMemory().Collection("x")
	require.NoError(t, c.Insert(ctx, store.Document{"id": "1"}))

	got, err := c.Update(ctx, "1", store.Document{"id": "2", "k": "v"})
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID())
}

func TestMemory_DeleteKeepsIndex(t *testing.T) {
	ctx := context.Background()
	c := store.NewMemory().Collection("x")
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, c.Insert(ctx, store.Document{"id": id}))
	}
	require.NoError(t, c.Delete(ctx, "1"))

	got, err := c.Get(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "3", got.ID())

	all, err := c.Find(ctx, store.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemory_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	c := store.NewMemory().Collection("x")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Insert(ctx, store.Document{"id": string(rune('A' + i)), "n": i})
		}(i)
	}
	wg.Wait()

	all, err := c.Find(ctx, store.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 50)
}
