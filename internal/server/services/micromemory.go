package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/records"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
)

var microMemoryOrder = store.Desc("timestamp")

// MicroMemoryService manages micro-memories. They are created and deleted
// but never edited.
type MicroMemoryService struct {
	repo *records.Repository[*models.MicroMemory]
	now  Clock
}

func NewMicroMemoryService(m repomanager.RepositoryManager) *MicroMemoryService {
	return &MicroMemoryService{repo: m.MicroMemories(), now: time.Now}
}

func (s *MicroMemoryService) Create(ctx context.Context, owner string, in *models.MicroMemory) (*models.MicroMemory, error) {
	in.Timestamp = models.NewTimestamp(s.now())
	in.Tags = in.Tags.Normalized()
	return create(ctx, s.repo, owner, in)
}

func (s *MicroMemoryService) Delete(ctx context.Context, owner, id string) error {
	_, err := remove(ctx, s.repo, owner, id)
	return err
}

func (s *MicroMemoryService) Get(ctx context.Context, owner, id string) (*models.MicroMemory, error) {
	return get(ctx, s.repo, owner, id)
}

func (s *MicroMemoryService) List(ctx context.Context, owner string) ([]*models.MicroMemory, error) {
	return s.repo.Find(ctx, owner, nil, microMemoryOrder)
}

func (s *MicroMemoryService) ByMood(ctx context.Context, owner string, mood models.Mood) ([]*models.MicroMemory, error) {
	if err := checkMood(mood); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, owner, byMood(mood), microMemoryOrder)
}

func (s *MicroMemoryService) ByTag(ctx context.Context, owner, tag string) ([]*models.MicroMemory, error) {
	return s.repo.Find(ctx, owner, byTag(tag), microMemoryOrder)
}

func (s *MicroMemoryService) ByLifePhase(ctx context.Context, owner, name string) ([]*models.MicroMemory, error) {
	return s.repo.Find(ctx, owner, byLifePhase(name), microMemoryOrder)
}
