// Package storetest holds the behaviour shared by every store driver, run
// against each driver from its own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/lifelog/internal/server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Collections used by Run. Drivers with DDL must create them up front.
const (
	Notes  = "notes"
	Phases = "phases"
)

// PhaseSchema declares the unique (ownerId, name) key Run expects on Phases.
var PhaseSchema = store.Schema{Name: Phases, Unique: [][]string{{"ownerId", "name"}}}

// Run exercises d against the store contract.
func Run(t *testing.T, d store.Driver) {
	t.Run("crud", func(t *testing.T) { crud(t, d.Collection(Notes)) })
	t.Run("find", func(t *testing.T) { find(t, d.Collection(Notes)) })
	t.Run("unique", func(t *testing.T) { unique(t, d.Collection(Phases)) })
}

func crud(t *testing.T, c store.Collection) {
	ctx := context.Background()

	require.NoError(t, c.Insert(ctx, store.Document{
		"id": "n-1", "ownerId": "u-1", "text": "hello", "tags": []any{"a", "b"}, "deleted": false,
	}))
	assert.ErrorIs(t, c.Insert(ctx, store.Document{"id": "n-1", "ownerId": "u-1"}), store.ErrDuplicate)

	got, err := c.Get(ctx, "n-1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, []any{"a", "b"}, got["tags"])
	assert.Equal(t, false, got["deleted"])

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	updated, err := c.Update(ctx, "n-1", store.Document{"text": "bye", "tags": nil, "rating": 4})
	require.NoError(t, err)
	assert.Equal(t, "bye", updated["text"])
	assert.NotContains(t, updated, "tags", "nil removes the key")
	assert.EqualValues(t, 4, updated["rating"])
	assert.Equal(t, "u-1", updated["ownerId"], "keys outside the patch survive")
	assert.Equal(t, false, updated["deleted"])

	_, err = c.Update(ctx, "missing", store.Document{"text": "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, c.Delete(ctx, "n-1"))
	assert.ErrorIs(t, c.Delete(ctx, "n-1"), store.ErrNotFound)
	_, err = c.Get(ctx, "n-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func ids(docs []store.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID())
	}
	return out
}

func find(t *testing.T, c store.Collection) {
	ctx := context.Background()

	docs := []store.Document{
		{"id": "f-1", "ownerId": "u-1", "text": "First day of Spring", "day": "2024-03-20", "tags": []any{"travel", "food"}, "deleted": false, "rating": 3},
		{"id": "f-2", "ownerId": "u-1", "text": "rainy", "day": "2024-03-22", "tags": []any{"foo"}, "deleted": true, "rating": 5},
		{"id": "f-3", "ownerId": "u-2", "text": "spring cleaning", "day": "2024-03-21", "deleted": false},
		{"id": "f-4", "ownerId": "u-1", "text": "winter", "day": "2024-01-02", "deleted": false},
	}
	for _, d := range docs {
		require.NoError(t, c.Insert(ctx, d))
	}

	all, err := c.Find(ctx, store.Query{Where: store.Eq{Field: "ownerId", Value: "u-1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"f-1", "f-2", "f-4"}, ids(all), "insertion order without sort")

	active, err := c.Find(ctx, store.Query{
		Where: store.And{store.Eq{Field: "ownerId", Value: "u-1"}, store.Eq{Field: "deleted", Value: false}},
		Sort:  []store.Sort{store.Desc("day")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"f-1", "f-4"}, ids(active))

	tagged, err := c.Find(ctx, store.Query{Where: store.Has{Field: "tags", Value: "food"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"f-1"}, ids(tagged))

	none, err := c.Find(ctx, store.Query{Where: store.Has{Field: "tags", Value: "fo"}})
	require.NoError(t, err)
	assert.Empty(t, none, "tag membership is exact")

	spring, err := c.Find(ctx, store.Query{Where: store.Substr{Field: "text", Text: "SPRING"}, Sort: []store.Sort{store.Asc("day")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"f-1", "f-3"}, ids(spring))

	either, err := c.Find(ctx, store.Query{Where: store.Or{
		store.Substr{Field: "text", Text: "rain"},
		store.Eq{Field: "text", Value: "winter"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"f-2", "f-4"}, ids(either))

	byRating, err := c.Find(ctx, store.Query{
		Where: store.Eq{Field: "ownerId", Value: "u-1"},
		Sort:  []store.Sort{store.Desc("rating")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"f-2", "f-1", "f-4"}, ids(byRating), "missing rating sorts last")

	rated, err := c.Find(ctx, store.Query{Where: store.Eq{Field: "rating", Value: 5}})
	require.NoError(t, err)
	assert.Equal(t, []string{"f-2"}, ids(rated))

	for _, id := range []string{"t-3", "t-1", "t-2"} {
		require.NoError(t, c.Insert(ctx, store.Document{"id": id, "ownerId": "u-3", "day": "2024-05-01"}))
	}
	ties, err := c.Find(ctx, store.Query{
		Where: store.Eq{Field: "ownerId", Value: "u-3"},
		Sort:  []store.Sort{store.Desc("day")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t-3", "t-1", "t-2"}, ids(ties), "equal keys keep insertion order")
}

func unique(t *testing.T, c store.Collection) {
	ctx := context.Background()

	require.NoError(t, c.Insert(ctx, store.Document{"id": "p-1", "ownerId": "u-1", "name": "Berlin"}))
	require.NoError(t, c.Insert(ctx, store.Document{"id": "p-2", "ownerId": "u-2", "name": "Berlin"}), "unique per owner only")
	require.NoError(t, c.Insert(ctx, store.Document{"id": "p-3", "ownerId": "u-1", "name": "Paris"}))

	assert.ErrorIs(t, c.Insert(ctx, store.Document{"id": "p-4", "ownerId": "u-1", "name": "Berlin"}), store.ErrDuplicate)

	_, err := c.Update(ctx, "p-3", store.Document{"name": "Berlin"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = c.Update(ctx, "p-1", store.Document{"name": "Berlin"})
	assert.NoError(t, err, "rewriting its own key is fine")
}
