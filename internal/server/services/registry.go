package services

import (
	"github.com/dmitrijs2005/lifelog/internal/blob"
	"github.com/dmitrijs2005/lifelog/internal/logging"
	"github.com/dmitrijs2005/lifelog/internal/server/config"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/repomanager"
)

// Services bundles every service the transport layer calls.
type Services struct {
	Identity      *IdentityResolver
	Users         *UserService
	Journal       *JournalService
	MicroMemories *MicroMemoryService
	Photos        *PhotoService
	Places        *PlaceService
	Tastes        *TasteService
	LifePhases    *LifePhaseService
}

func New(m repomanager.RepositoryManager, blobs blob.Store, cfg *config.Config, log logging.Logger) *Services {
	s := &Services{
		Identity:      NewIdentityResolver(m),
		Users:         NewUserService(m, cfg),
		Journal:       NewJournalService(m, log),
		MicroMemories: NewMicroMemoryService(m),
		Photos:        NewPhotoService(m, blobs, cfg.UploadURLPrefix, log),
		Places:        NewPlaceService(m),
		Tastes:        NewTasteService(m),
	}
	s.LifePhases = NewLifePhaseService(m, s.Journal, s.MicroMemories, s.Photos, s.Places, s.Tastes)
	return s
}
