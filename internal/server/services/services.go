// Package services contains server-side business logic. Every operation
// takes the owner id resolved by IdentityResolver as an explicit argument;
// nothing here trusts an owner carried by client input.
//
// By-id operations load the record, pass it through ownership.Authorize,
// and only then consult the lifecycle policy, so a foreign record is
// always Forbidden and a deleted journal entry is NotFound to its owner.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lifelog/internal/common"
	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/ownership"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/records"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func validate(rec any) error {
	if v, ok := rec.(models.Validatable); ok {
		return v.Validate()
	}
	return nil
}

func create[T models.Record](ctx context.Context, repo *records.Repository[T], owner string, in T) (T, error) {
	var zero T
	if err := validate(in); err != nil {
		return zero, err
	}
	in.SetOwner(owner)
	return repo.Create(ctx, in)
}

// authorized loads id and checks it belongs to owner, without looking at
// its lifecycle state.
func authorized[T models.Record](ctx context.Context, repo *records.Repository[T], owner, id string) (T, error) {
	var zero T
	rec, err := repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	return ownership.Authorize(rec, owner)
}

func get[T models.Record](ctx context.Context, repo *records.Repository[T], owner, id string) (T, error) {
	var zero T
	rec, err := authorized(ctx, repo, owner, id)
	if err != nil {
		return zero, err
	}
	if err := repo.Policy().CheckRead(rec); err != nil {
		return zero, err
	}
	return rec, nil
}

func update[T models.Record](ctx context.Context, repo *records.Repository[T], owner, id string, in T) (T, error) {
	var zero T
	if err := validate(in); err != nil {
		return zero, err
	}
	rec, err := authorized(ctx, repo, owner, id)
	if err != nil {
		return zero, err
	}
	if err := repo.Policy().CheckUpdate(rec); err != nil {
		return zero, err
	}
	return repo.Update(ctx, id, in)
}

// remove deletes id under the repository's lifecycle policy and returns
// the record as it was loaded.
func remove[T models.Record](ctx context.Context, repo *records.Repository[T], owner, id string) (T, error) {
	var zero T
	rec, err := authorized(ctx, repo, owner, id)
	if err != nil {
		return zero, err
	}
	if err := repo.Delete(ctx, rec); err != nil {
		return rec, err
	}
	return rec, nil
}

func checkMood(m models.Mood) error {
	if !m.Valid() {
		return fmt.Errorf("%w: unknown mood %q", common.ErrorValidation, m)
	}
	return nil
}

func checkDate(field string, d models.Date) error {
	if _, err := d.Time(); err != nil {
		return fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", common.ErrorValidation, field, string(d))
	}
	return nil
}

func byMood(m models.Mood) store.Predicate { return store.Eq{Field: "mood", Value: m} }

func byTag(tag string) store.Predicate { return store.Has{Field: "tags", Value: tag} }

func byLifePhase(name string) store.Predicate {
	return store.Eq{Field: "lifePhaseName", Value: name}
}
