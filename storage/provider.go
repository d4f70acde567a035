package storage

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mingsmenu/database"
	"mingsmenu/logger"
)

// DatabaseSource yields the shared database handle. *database.Connector is
// the production implementation.
type DatabaseSource interface {
	Database(ctx context.Context) (database.Database, error)
}

// Provider builds the repository once the source first connects and reuses
// it afterwards. Connection errors are returned as-is. Index creation is
// attempted once; a failure is logged and does not block requests.
func Provider(src DatabaseSource, restaurantID primitive.ObjectID) func(context.Context) (*Repository, error) {
	var (
		mu   sync.Mutex
		repo *Repository
	)
	return func(ctx context.Context) (*Repository, error) {
		db, err := src.Database(ctx)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		defer mu.Unlock()
		if repo == nil {
			repo = NewRepository(db, restaurantID)
			if err := repo.EnsureIndexes(ctx); err != nil {
				logger.WithCtx(ctx).Warn("ensure indexes failed", "error", err)
			}
		}
		return repo, nil
	}
}
