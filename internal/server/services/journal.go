package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lifelog/internal/logging"
	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/records"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
)

var journalOrder = []store.Sort{store.Desc("date"), store.Desc("time")}

// JournalService manages journal entries. Deleting an entry only hides it;
// deleted entries never show up in reads and cannot be updated.
type JournalService struct {
	repo *records.Repository[*models.JournalEntry]
	log  logging.Logger
	now  Clock
}

func NewJournalService(m repomanager.RepositoryManager, log logging.Logger) *JournalService {
	return &JournalService{repo: m.Journal(), log: log.With("module", "journal"), now: time.Now}
}

// Create stamps date, time and both timestamps from the server clock.
func (s *JournalService) Create(ctx context.Context, owner string, in *models.JournalEntry) (*models.JournalEntry, error) {
	now := s.now()
	in.Date = models.DateOf(now)
	in.Time = models.ClockOf(now)
	in.Deleted = false
	in.CreatedAt = models.NewTimestamp(now)
	in.UpdatedAt = in.CreatedAt
	in.Tags = in.Tags.Normalized()
	return create(ctx, s.repo, owner, in)
}

// Update replaces content, mood, tags, context and life phase.
func (s *JournalService) Update(ctx context.Context, owner, id string, in *models.JournalEntry) (*models.JournalEntry, error) {
	in.UpdatedAt = models.NewTimestamp(s.now())
	in.Tags = in.Tags.Normalized()
	return update(ctx, s.repo, owner, id, in)
}

// Delete is idempotent: deleting an already deleted entry succeeds.
func (s *JournalService) Delete(ctx context.Context, owner, id string) error {
	_, err := remove(ctx, s.repo, owner, id)
	if err == nil {
		s.log.Debug(ctx, "journal entry deleted", "id", id)
	}
	return err
}

func (s *JournalService) Get(ctx context.Context, owner, id string) (*models.JournalEntry, error) {
	return get(ctx, s.repo, owner, id)
}

func (s *JournalService) List(ctx context.Context, owner string) ([]*models.JournalEntry, error) {
	return s.repo.Find(ctx, owner, nil, journalOrder...)
}

func (s *JournalService) ByDate(ctx context.Context, owner string, date models.Date) ([]*models.JournalEntry, error) {
	if err := checkDate("date", date); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, owner, store.Eq{Field: "date", Value: date}, journalOrder...)
}

// Search matches text anywhere in the content, ignoring case.
func (s *JournalService) Search(ctx context.Context, owner, text string) ([]*models.JournalEntry, error) {
	return s.repo.Find(ctx, owner, store.Substr{Field: "content", Text: text}, journalOrder...)
}

func (s *JournalService) ByMood(ctx context.Context, owner string, mood models.Mood) ([]*models.JournalEntry, error) {
	if err := checkMood(mood); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, owner, byMood(mood), journalOrder...)
}

func (s *JournalService) ByTag(ctx context.Context, owner, tag string) ([]*models.JournalEntry, error) {
	return s.repo.Find(ctx, owner, byTag(tag), journalOrder...)
}

func (s *JournalService) ByContext(ctx context.Context, owner, journalContext string) ([]*models.JournalEntry, error) {
	return s.repo.Find(ctx, owner, store.Eq{Field: "context", Value: journalContext}, journalOrder...)
}

func (s *JournalService) ByLifePhase(ctx context.Context, owner, name string) ([]*models.JournalEntry, error) {
	return s.repo.Find(ctx, owner, byLifePhase(name), journalOrder...)
}
