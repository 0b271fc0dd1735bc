// Package repomanager vends the typed repositories over a store driver and
// declares the per-collection constraints drivers must enforce.
package repomanager

import (
	"github.com/dmitrijs2005/lifelog/internal/server/lifecycle"
	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/records"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/users"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
)

// Collection names. The SQL migrations create tables with the same names.
const (
	UsersCollection       = "users"
	JournalCollection     = "journal_entries"
	MicroMemoryCollection = "micro_memories"
	PhotoCollection       = "photos"
	PlaceCollection       = "places"
	TasteCollection       = "tastes"
	LifePhaseCollection   = "life_phases"
)

// Schemas lists the constraints of every collection.
func Schemas() []store.Schema {
	owner := [][]string{{records.OwnerField}}
	return []store.Schema{
		{Name: UsersCollection, Unique: [][]string{{"username"}}},
		{Name: JournalCollection, Indexes: [][]string{{records.OwnerField, "date"}}},
		{Name: MicroMemoryCollection, Indexes: owner},
		{Name: PhotoCollection, Indexes: owner},
		{Name: PlaceCollection, Indexes: owner},
		{Name: TasteCollection, Indexes: owner},
		{Name: LifePhaseCollection, Unique: [][]string{{records.OwnerField, "name"}}},
	}
}

type RepositoryManager interface {
	Users() users.Repository
	Journal() *records.Repository[*models.JournalEntry]
	MicroMemories() *records.Repository[*models.MicroMemory]
	Photos() *records.Repository[*models.Photo]
	Places() *records.Repository[*models.Place]
	Tastes() *records.Repository[*models.Taste]
	LifePhases() *records.Repository[*models.LifePhase]
}

// StoreRepositoryManager binds repositories to the collections of one driver.
type StoreRepositoryManager struct {
	driver store.Driver
}

func NewStoreRepositoryManager(driver store.Driver) *StoreRepositoryManager {
	return &StoreRepositoryManager{driver: driver}
}

func (m *StoreRepositoryManager) Users() users.Repository {
	return users.NewStoreRepository(m.driver.Collection(UsersCollection))
}

// Journal entries are the only soft-deleted records.
func (m *StoreRepositoryManager) Journal() *records.Repository[*models.JournalEntry] {
	return records.New(m.driver.Collection(JournalCollection), lifecycle.Soft,
		func() *models.JournalEntry { return &models.JournalEntry{} })
}

func (m *StoreRepositoryManager) MicroMemories() *records.Repository[*models.MicroMemory] {
	return records.New(m.driver.Collection(MicroMemoryCollection), lifecycle.Hard,
		func() *models.MicroMemory { return &models.MicroMemory{} })
}

func (m *StoreRepositoryManager) Photos() *records.Repository[*models.Photo] {
	return records.New(m.driver.Collection(PhotoCollection), lifecycle.Hard,
		func() *models.Photo { return &models.Photo{} })
}

func (m *StoreRepositoryManager) Places() *records.Repository[*models.Place] {
	return records.New(m.driver.Collection(PlaceCollection), lifecycle.Hard,
		func() *models.Place { return &models.Place{} })
}

func (m *StoreRepositoryManager) Tastes() *records.Repository[*models.Taste] {
	return records.New(m.driver.Collection(TasteCollection), lifecycle.Hard,
		func() *models.Taste { return &models.Taste{} })
}

func (m *StoreRepositoryManager) LifePhases() *records.Repository[*models.LifePhase] {
	return records.New(m.driver.Collection(LifePhaseCollection), lifecycle.Hard,
		func() *models.LifePhase { return &models.LifePhase{} })
}
