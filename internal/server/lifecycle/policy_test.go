package lifecycle

import (
	"testing"

	"github.com/dmitrijs2005/lifelog/internal/common"
	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
	"github.com/stretchr/testify/assert"
)

func TestStateOf(t *testing.T) {
	assert.Equal(t, Active, StateOf(&models.JournalEntry{}))
	assert.Equal(t, SoftDeleted, StateOf(&models.JournalEntry{Deleted: true}))
	assert.Equal(t, Active, StateOf(&models.Place{}))
	assert.Equal(t, "soft-deleted", SoftDeleted.String())
}

func TestSoftPolicy(t *testing.T) {
	live := &models.JournalEntry{}
	gone := &models.JournalEntry{Deleted: true}

	assert.NoError(t, Soft.CheckRead(live))
	assert.ErrorIs(t, Soft.CheckRead(gone), common.ErrorNotFound)

	assert.NoError(t, Soft.CheckUpdate(live))
	assert.ErrorIs(t, Soft.CheckUpdate(gone), common.ErrorInvalidState)

	assert.Equal(t, MarkDeleted, Soft.Delete(live))
	assert.Equal(t, Noop, Soft.Delete(gone))

	assert.Equal(t, store.Eq{Field: DeletedField, Value: false}, Soft.Scope())
	assert.False(t, Soft.Scope().Eval(store.Document{"deleted": true}))
	assert.True(t, Soft.Scope().Eval(store.Document{"deleted": false}))
}

func TestHardPolicy(t *testing.T) {
	rec := &models.Taste{}
	assert.NoError(t, Hard.CheckRead(rec))
	assert.NoError(t, Hard.CheckUpdate(rec))
	assert.Equal(t, Remove, Hard.Delete(rec))
	assert.Nil(t, Hard.Scope())
}

func TestDeletedPatch(t *testing.T) {
	assert.Equal(t, store.Document{"deleted": true}, DeletedPatch())
}
