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

var tasteOrder = store.Desc("dateConsumed")

// TasteService manages tastes: books, films, dishes and the like.
type TasteService struct {
	repo *records.Repository[*models.Taste]
}

func NewTasteService(m repomanager.RepositoryManager) *TasteService {
	return &TasteService{repo: m.Tastes()}
}

func (s *TasteService) Create(ctx context.Context, owner string, in *models.Taste) (*models.Taste, error) {
	in.Tags = in.Tags.Normalized()
	return create(ctx, s.repo, owner, in)
}

func (s *TasteService) Update(ctx context.Context, owner, id string, in *models.Taste) (*models.Taste, error) {
	in.Tags = in.Tags.Normalized()
	return update(ctx, s.repo, owner, id, in)
}

func (s *TasteService) Delete(ctx context.Context, owner, id string) error {
	_, err := remove(ctx, s.repo, owner, id)
	return err
}

func (s *TasteService) Get(ctx context.Context, owner, id string) (*models.Taste, error) {
	return get(ctx, s.repo, owner, id)
}

// List orders by consumption date, newest first.
func (s *TasteService) List(ctx context.Context, owner string) ([]*models.Taste, error) {
	return s.repo.Find(ctx, owner, nil, tasteOrder)
}

// ByRating lists all tastes, best rated first. Unrated tastes come last.
func (s *TasteService) ByRating(ctx context.Context, owner string) ([]*models.Taste, error) {
	return s.repo.Find(ctx, owner, nil, store.Desc("rating"), tasteOrder)
}

func (s *TasteService) ByType(ctx context.Context, owner string, typ models.TasteType) ([]*models.Taste, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown taste type %q", common.ErrorValidation, typ)
	}
	return s.repo.Find(ctx, owner, store.Eq{Field: "type", Value: typ}, tasteOrder)
}

// Search matches text in the title or the personal note, ignoring case.
func (s *TasteService) Search(ctx context.Context, owner, text string) ([]*models.Taste, error) {
	where := store.Or{
		store.Substr{Field: "title", Text: text},
		store.Substr{Field: "personalNote", Text: text},
	}
	return s.repo.Find(ctx, owner, where, tasteOrder)
}

func (s *TasteService) ByTag(ctx context.Context, owner, tag string) ([]*models.Taste, error) {
	return s.repo.Find(ctx, owner, byTag(tag), tasteOrder)
}

func (s *TasteService) ByLifePhase(ctx context.Context, owner, name string) ([]*models.Taste, error) {
	return s.repo.Find(ctx, owner, byLifePhase(name), tasteOrder)
}
