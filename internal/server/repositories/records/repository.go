// Package records provides a typed repository over a store collection for
// any owner-scoped entity. The lifecycle policy of the entity decides what
// Delete does and which documents listings can see.
package records

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lifelog/internal/server/lifecycle"
	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
	"github.com/google/uuid"
)

// OwnerField is the document key holding the owner id.
const OwnerField = "ownerId"

type Repository[T models.Record] struct {
	coll      store.Collection
	policy    lifecycle.Policy
	newRecord func() T
	newID     func() string
}

// New binds a repository to coll. newRecord returns an empty record to
// decode into.
func New[T models.Record](coll store.Collection, policy lifecycle.Policy, newRecord func() T) *Repository[T] {
	return &Repository[T]{coll: coll, policy: policy, newRecord: newRecord, newID: uuid.NewString}
}

func (r *Repository[T]) Policy() lifecycle.Policy { return r.policy }

// Create assigns a fresh id to rec and stores it.
func (r *Repository[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	rec.SetID(r.newID())
	doc, err := store.Encode(rec)
	if err != nil {
		return zero, err
	}
	if err := r.coll.Insert(ctx, doc); err != nil {
		return zero, fmt.Errorf("create: %w", err)
	}
	return rec, nil
}

// Get returns the record with id regardless of owner or lifecycle state.
func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", id, err)
	}
	return r.decode(doc)
}

// Update replaces the mutable fields of the stored record with those of
// rec. Fields rec leaves empty are removed.
func (r *Repository[T]) Update(ctx context.Context, id string, rec T) (T, error) {
	var zero T
	m, ok := any(rec).(models.Mutable)
	if !ok {
		return zero, fmt.Errorf("update: %T has no mutable fields", rec)
	}
	doc, err := store.Encode(rec)
	if err != nil {
		return zero, err
	}
	patch := make(store.Document, len(m.MutableFields()))
	for _, f := range m.MutableFields() {
		patch[f] = doc[f]
	}
	updated, err := r.coll.Update(ctx, id, patch)
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", id, err)
	}
	return r.decode(updated)
}

// Delete applies the lifecycle policy to rec: the document is removed,
// flagged as deleted, or left alone when already deleted.
func (r *Repository[T]) Delete(ctx context.Context, rec T) error {
	switch r.policy.Delete(rec) {
	case lifecycle.Remove:
		if err := r.coll.Delete(ctx, rec.GetID()); err != nil {
			return fmt.Errorf("delete %s: %w", rec.GetID(), err)
		}
	case lifecycle.MarkDeleted:
		if _, err := r.coll.Update(ctx, rec.GetID(), lifecycle.DeletedPatch()); err != nil {
			return fmt.Errorf("delete %s: %w", rec.GetID(), err)
		}
	}
	return nil
}

// Find returns the visible records of owner matching where, in sort order.
func (r *Repository[T]) Find(ctx context.Context, owner string, where store.Predicate, sort ...store.Sort) ([]T, error) {
	q := store.Query{
		Where: store.Conjoin(store.Eq{Field: OwnerField, Value: owner}, r.policy.Scope(), where),
		Sort:  sort,
	}
	docs, err := r.coll.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		rec, err := r.decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *Repository[T]) decode(doc store.Document) (T, error) {
	rec := r.newRecord()
	if err := store.Decode(doc, rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}
