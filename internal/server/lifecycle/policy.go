// Package lifecycle decides what deleting a record means and how a
// deleted record reacts to later reads and updates.
//
// Hard-deleted types have no state beyond existence. Soft-deleted types
// move from Active to SoftDeleted once, and stay there.
package lifecycle

import (
	"fmt"

	"github.com/dmitrijs2005/lifelog/internal/common"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
)

// DeletedField is the document flag written by a soft delete.
const DeletedField = "deleted"

type State int

const (
	Active State = iota
	SoftDeleted
)

func (s State) String() string {
	if s == SoftDeleted {
		return "soft-deleted"
	}
	return "active"
}

// SoftDeletable is implemented by records that keep a deleted flag.
type SoftDeletable interface {
	IsDeleted() bool
}

// StateOf returns the lifecycle state of rec.
func StateOf(rec any) State {
	if sd, ok := rec.(SoftDeletable); ok && sd.IsDeleted() {
		return SoftDeleted
	}
	return Active
}

type Policy int

const (
	Hard Policy = iota
	Soft
)

// Action is what a delete request turns into at the store.
type Action int

const (
	// Remove deletes the document.
	Remove Action = iota
	// MarkDeleted writes DeletedPatch.
	MarkDeleted
	// Noop means the record is already deleted.
	Noop
)

// DeletedPatch is the only update that touches DeletedField.
func DeletedPatch() store.Document { return store.Document{DeletedField: true} }

// Scope restricts listings and filters to records visible under p.
func (p Policy) Scope() store.Predicate {
	if p == Soft {
		return store.Eq{Field: DeletedField, Value: false}
	}
	return nil
}

// CheckRead reports a soft-deleted record as not found.
func (p Policy) CheckRead(rec any) error {
	if p == Soft && StateOf(rec) == SoftDeleted {
		return fmt.Errorf("%w: record was deleted", common.ErrorNotFound)
	}
	return nil
}

// CheckUpdate rejects updates of soft-deleted records.
func (p Policy) CheckUpdate(rec any) error {
	if p == Soft && StateOf(rec) == SoftDeleted {
		return fmt.Errorf("%w: cannot update a deleted record", common.ErrorInvalidState)
	}
	return nil
}

// Delete returns the store action for deleting rec.
func (p Policy) Delete(rec any) Action {
	if p == Hard {
		return Remove
	}
	if StateOf(rec) == SoftDeleted {
		return Noop
	}
	return MarkDeleted
}
