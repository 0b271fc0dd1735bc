package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/lifelog/internal/common"
	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMicroMemory_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.MicroMemories.Create(ctx, alice, &models.MicroMemory{ShortText: "coffee", Mood: models.MoodCalm, Tags: models.Tags{"food"}})
	require.NoError(t, err)
	second, err := f.MicroMemories.Create(ctx, alice, &models.MicroMemory{ShortText: "sunset", Mood: models.MoodVeryHappy, LifePhaseName: "Lisbon"})
	require.NoError(t, err)
	_, err = f.MicroMemories.Create(ctx, bob, &models.MicroMemory{ShortText: "bob's", Mood: models.MoodCalm, Tags: models.Tags{"food"}})
	require.NoError(t, err)

	list, err := f.MicroMemories.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.True(t, list[0].Timestamp.After(list[1].Timestamp.Time))

	got, err := f.MicroMemories.ByMood(ctx, alice, models.MoodCalm)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)

	got, err = f.MicroMemories.ByTag(ctx, alice, "food")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = f.MicroMemories.ByLifePhase(ctx, alice, "Lisbon")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, second.ID, got[0].ID)

	_, err = f.MicroMemories.Get(ctx, bob, first.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)
	assert.ErrorIs(t, f.MicroMemories.Delete(ctx, bob, first.ID), common.ErrorForbidden)

	require.NoError(t, f.MicroMemories.Delete(ctx, alice, first.ID))
	_, err = f.MicroMemories.Get(ctx, alice, first.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, f.MicroMemories.Delete(ctx, alice, first.ID), common.ErrorNotFound)
}

func TestMicroMemory_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   *models.MicroMemory
		ok   bool
	}{
		{"valid", &models.MicroMemory{ShortText: "ok", Mood: models.MoodHappy}, true},
		{"limit", &models.MicroMemory{ShortText: strings.Repeat("é", models.MaxShortTextLen), Mood: models.MoodHappy}, true},
		{"too long", &models.MicroMemory{ShortText: strings.Repeat("a", models.MaxShortTextLen+1), Mood: models.MoodHappy}, false},
		{"no text", &models.MicroMemory{Mood: models.MoodHappy}, false},
		{"no mood", &models.MicroMemory{ShortText: "ok"}, false},
		{"blank tag", &models.MicroMemory{ShortText: "ok", Mood: models.MoodHappy, Tags: models.Tags{" "}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.MicroMemories.Create(ctx, alice, tt.in)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, common.ErrorValidation)
			}
		})
	}
}
