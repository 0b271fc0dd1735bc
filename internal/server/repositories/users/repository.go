package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lifelog/internal/common"
	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// StoreRepository keeps users in a store collection with a unique
// username key.
type StoreRepository struct {
	coll store.Collection
}

func NewStoreRepository(coll store.Collection) *StoreRepository {
	return &StoreRepository{coll: coll}
}

func (r *StoreRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.NewString()
	doc, err := store.Encode(user)
	if err != nil {
		return nil, err
	}
	if err := r.coll.Insert(ctx, doc); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username %q is taken", common.ErrorAlreadyExists, user.Username)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *StoreRepository) Get(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user := &models.User{}
	if err := store.Decode(doc, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *StoreRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *StoreRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *StoreRepository) findOne(ctx context.Context, field, value string) (*models.User, error) {
	docs, err := r.coll.Find(ctx, store.Query{Where: store.Eq{Field: field, Value: value}})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(docs) == 0 {
		return nil, common.ErrorNotFound
	}
	user := &models.User{}
	if err := store.Decode(docs[0], user); err != nil {
		return nil, err
	}
	return user, nil
}
