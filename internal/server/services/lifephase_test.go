package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/lifelog/internal/common"
	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifePhase_CRUDAndOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	school, err := f.LifePhases.Create(ctx, alice, &models.LifePhase{Name: "School", StartDate: "2000-09-01", EndDate: "2012-06-30"})
	require.NoError(t, err)
	_, err = f.LifePhases.Create(ctx, alice, &models.LifePhase{Name: "Work", StartDate: "2016-01-04"})
	require.NoError(t, err)
	_, err = f.LifePhases.Create(ctx, alice, &models.LifePhase{Name: "College", StartDate: "2012-09-01"})
	require.NoError(t, err)

	list, err := f.LifePhases.List(ctx, alice)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Work", "College", "School"}, names)

	_, err = f.LifePhases.Create(ctx, alice, &models.LifePhase{Name: "Work", StartDate: "2020-01-01"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = f.LifePhases.Create(ctx, alice, &models.LifePhase{Name: "Bad", StartDate: "2020-01-02", EndDate: "2020-01-01"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = f.LifePhases.Create(ctx, alice, &models.LifePhase{Name: "NoStart"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	updated, err := f.LifePhases.Update(ctx, alice, school.ID, &models.LifePhase{Name: "High school", StartDate: "2006-09-01", Description: "teen years"})
	require.NoError(t, err)
	assert.Equal(t, "High school", updated.Name)
	assert.Empty(t, updated.EndDate)

	_, err = f.LifePhases.Get(ctx, bob, school.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	require.NoError(t, f.LifePhases.Delete(ctx, alice, school.ID))
	_, err = f.LifePhases.Get(ctx, alice, school.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLifePhase_Timeline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	phase, err := f.LifePhases.Create(ctx, alice, &models.LifePhase{Name: "Lisbon", StartDate: "2023-05-01"})
	require.NoError(t, err)

	entry := newEntry("moved in", models.MoodHappy)
	entry.LifePhaseName = "Lisbon"
	_, err = f.Journal.Create(ctx, alice, entry)
	require.NoError(t, err)
	gone := newEntry("deleted later", models.MoodSad)
	gone.LifePhaseName = "Lisbon"
	gone, err = f.Journal.Create(ctx, alice, gone)
	require.NoError(t, err)
	require.NoError(t, f.Journal.Delete(ctx, alice, gone.ID))

	_, err = f.MicroMemories.Create(ctx, alice, &models.MicroMemory{ShortText: "pastel de nata", Mood: models.MoodVeryHappy, LifePhaseName: "Lisbon"})
	require.NoError(t, err)
	_, err = f.Photos.Upload(ctx, alice, jpeg("tram.jpg"), &models.Photo{LifePhaseName: "Lisbon"})
	require.NoError(t, err)
	place := newPlace("Alfama", models.PlaceCity, models.PlaceVisited)
	place.LifePhaseName = "Lisbon"
	_, err = f.Places.Create(ctx, alice, place)
	require.NoError(t, err)
	_, err = f.Tastes.Create(ctx, alice, &models.Taste{Type: models.TasteDrink, Title: "Ginjinha", LifePhaseName: "Lisbon"})
	require.NoError(t, err)
	other := newEntry("other person", models.MoodCalm)
	other.LifePhaseName = "Lisbon"
	_, err = f.Journal.Create(ctx, bob, other)
	require.NoError(t, err)

	tl, err := f.LifePhases.Timeline(ctx, alice, phase.ID)
	require.NoError(t, err)
	assert.Equal(t, phase.ID, tl.Phase.ID)
	require.Len(t, tl.Journal, 1)
	assert.Equal(t, "moved in", tl.Journal[0].Content)
	assert.Len(t, tl.MicroMemories, 1)
	assert.Len(t, tl.Photos, 1)
	assert.Len(t, tl.Places, 1)
	assert.Len(t, tl.Tastes, 1)

	_, err = f.LifePhases.Timeline(ctx, bob, phase.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestLifePhase_RenameLeavesReferencesDangling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	phase, err := f.LifePhases.Create(ctx, alice, &models.LifePhase{Name: "Berlin", StartDate: "2019-01-01"})
	require.NoError(t, err)
	_, err = f.Tastes.Create(ctx, alice, &models.Taste{Type: models.TasteFood, Title: "Currywurst", LifePhaseName: "Berlin"})
	require.NoError(t, err)

	_, err = f.LifePhases.Update(ctx, alice, phase.ID, &models.LifePhase{Name: "Berlin years", StartDate: "2019-01-01"})
	require.NoError(t, err)

	tl, err := f.LifePhases.Timeline(ctx, alice, phase.ID)
	require.NoError(t, err)
	assert.Empty(t, tl.Tastes)

	old, err := f.Tastes.ByLifePhase(ctx, alice, "Berlin")
	require.NoError(t, err)
	assert.Len(t, old, 1, "the taste still carries the old name")
}
