package repository

import (
	"fmt"

	"github.com/deppfellow/platform-api/internal/config"
	"github.com/deppfellow/platform-api/internal/server"
)

// Repositories is the container for every repository instance.
type Repositories struct {
	Documents DocumentRepository
}

// NewRepositories picks the document repository for the configured driver.
//
// The connections themselves are owned by the server container; the
// repositories only borrow them.
func NewRepositories(s *server.Server) (*Repositories, error) {
	var documents DocumentRepository

	switch s.Config.Store.Driver {
	case config.StoreFirestore:
		if s.Firestore == nil {
			return nil, fmt.Errorf("firestore store selected but no client is connected")
		}
		documents = NewFirestoreRepository(s.Firestore)
	case config.StorePostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("postgres store selected but no pool is connected")
		}
		documents = NewPostgresRepository(s.DB.Pool)
	case config.StoreRedis:
		if s.Redis == nil {
			return nil, fmt.Errorf("redis store selected but no client is connected")
		}
		documents = NewRedisRepository(s.Redis, s.Config.Redis.KeyPrefix)
	case config.StoreMemory:
		documents = NewMemoryRepository(nil)
	default:
		return nil, fmt.Errorf("unknown store driver %q", s.Config.Store.Driver)
	}

	s.Logger.Info().Str("driver", string(s.Config.Store.Driver)).Msg("document repository ready")

	return &Repositories{Documents: documents}, nil
}
