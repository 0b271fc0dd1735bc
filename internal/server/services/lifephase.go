package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/records"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
)

// LifePhaseService manages life phases. Other records point at a phase by
// name only; renaming or deleting a phase does not touch them.
type LifePhaseService struct {
	repo *records.Repository[*models.LifePhase]

	journal  *JournalService
	memories *MicroMemoryService
	photos   *PhotoService
	places   *PlaceService
	tastes   *TasteService
}

func NewLifePhaseService(m repomanager.RepositoryManager, journal *JournalService, memories *MicroMemoryService,
	photos *PhotoService, places *PlaceService, tastes *TasteService) *LifePhaseService {
	return &LifePhaseService{
		repo:     m.LifePhases(),
		journal:  journal,
		memories: memories,
		photos:   photos,
		places:   places,
		tastes:   tastes,
	}
}

func (s *LifePhaseService) Create(ctx context.Context, owner string, in *models.LifePhase) (*models.LifePhase, error) {
	in.Tags = in.Tags.Normalized()
	return create(ctx, s.repo, owner, in)
}

func (s *LifePhaseService) Update(ctx context.Context, owner, id string, in *models.LifePhase) (*models.LifePhase, error) {
	in.Tags = in.Tags.Normalized()
	return update(ctx, s.repo, owner, id, in)
}

func (s *LifePhaseService) Delete(ctx context.Context, owner, id string) error {
	_, err := remove(ctx, s.repo, owner, id)
	return err
}

func (s *LifePhaseService) Get(ctx context.Context, owner, id string) (*models.LifePhase, error) {
	return get(ctx, s.repo, owner, id)
}

// List orders by start date, latest first.
func (s *LifePhaseService) List(ctx context.Context, owner string) ([]*models.LifePhase, error) {
	return s.repo.Find(ctx, owner, nil, store.Desc("startDate"))
}

// Timeline groups everything the owner tagged with a phase's current name.
type Timeline struct {
	Phase         *models.LifePhase      `json:"phase"`
	Journal       []*models.JournalEntry `json:"journal"`
	MicroMemories []*models.MicroMemory  `json:"microMemories"`
	Photos        []*models.Photo        `json:"photos"`
	Places        []*models.Place        `json:"places"`
	Tastes        []*models.Taste        `json:"tastes"`
}

func (s *LifePhaseService) Timeline(ctx context.Context, owner, id string) (*Timeline, error) {
	phase, err := get(ctx, s.repo, owner, id)
	if err != nil {
		return nil, err
	}
	t := &Timeline{Phase: phase}
	if t.Journal, err = s.journal.ByLifePhase(ctx, owner, phase.Name); err != nil {
		return nil, fmt.Errorf("timeline journal: %w", err)
	}
	if t.MicroMemories, err = s.memories.ByLifePhase(ctx, owner, phase.Name); err != nil {
		return nil, fmt.Errorf("timeline micro-memories: %w", err)
	}
	if t.Photos, err = s.photos.ByLifePhase(ctx, owner, phase.Name); err != nil {
		return nil, fmt.Errorf("timeline photos: %w", err)
	}
	if t.Places, err = s.places.ByLifePhase(ctx, owner, phase.Name); err != nil {
		return nil, fmt.Errorf("timeline places: %w", err)
	}
	if t.Tastes, err = s.tastes.ByLifePhase(ctx, owner, phase.Name); err != nil {
		return nil, fmt.Errorf("timeline tastes: %w", err)
	}
	return t, nil
}
