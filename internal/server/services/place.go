package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lifelog/internal/common"
	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/records"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
)

// PlaceService manages places. Listings come back in insertion order.
type PlaceService struct {
	repo *records.Repository[*models.Place]
}

func NewPlaceService(m repomanager.RepositoryManager) *PlaceService {
	return &PlaceService{repo: m.Places()}
}

func (s *PlaceService) Create(ctx context.Context, owner string, in *models.Place) (*models.Place, error) {
	in.Tags = in.Tags.Normalized()
	return create(ctx, s.repo, owner, in)
}

func (s *PlaceService) Update(ctx context.Context, owner, id string, in *models.Place) (*models.Place, error) {
	in.Tags = in.Tags.Normalized()
	return update(ctx, s.repo, owner, id, in)
}

func (s *PlaceService) Delete(ctx context.Context, owner, id string) error {
	_, err := remove(ctx, s.repo, owner, id)
	return err
}

func (s *PlaceService) Get(ctx context.Context, owner, id string) (*models.Place, error) {
	return get(ctx, s.repo, owner, id)
}

func (s *PlaceService) List(ctx context.Context, owner string) ([]*models.Place, error) {
	return s.repo.Find(ctx, owner, nil)
}

func (s *PlaceService) ByStatus(ctx context.Context, owner string, status models.PlaceStatus) ([]*models.Place, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown place status %q", common.ErrorValidation, status)
	}
	return s.repo.Find(ctx, owner, store.Eq{Field: "status", Value: status})
}

func (s *PlaceService) ByType(ctx context.Context, owner string, typ models.PlaceType) ([]*models.Place, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown place type %q", common.ErrorValidation, typ)
	}
	return s.repo.Find(ctx, owner, store.Eq{Field: "type", Value: typ})
}

func (s *PlaceService) ByTag(ctx context.Context, owner, tag string) ([]*models.Place, error) {
	return s.repo.Find(ctx, owner, byTag(tag))
}

func (s *PlaceService) ByLifePhase(ctx context.Context, owner, name string) ([]*models.Place, error) {
	return s.repo.Find(ctx, owner, byLifePhase(name))
}
