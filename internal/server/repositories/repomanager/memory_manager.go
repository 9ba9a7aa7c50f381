package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/severity/internal/dbx"
	"github.com/dmitrijs2005/severity/internal/server/repositories/predictions"
	"github.com/dmitrijs2005/severity/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps everything in process memory. The DBTX
// arguments are ignored. Transactions are serialized by a single lock and
// rolled back from a snapshot when fn fails, so every write must go through
// InTx or a concurrent rollback may discard it.
type InMemoryRepositoryManager struct {
	txMu        sync.Mutex
	users       *users.MemoryRepository
	predictions *predictions.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:       users.NewMemoryRepository(),
		predictions: predictions.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *InMemoryRepositoryManager) Conn() dbx.DBTX                      { return nil }
func (m *InMemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *InMemoryRepositoryManager) Close() error                        { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Predictions(dbx.DBTX) predictions.Repository {
	return m.predictions
}

func (m *InMemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) (err error) {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	restoreUsers := m.users.Snapshot()
	restorePredictions := m.predictions.Snapshot()

	defer func() {
		if p := recover(); p != nil {
			restoreUsers()
			restorePredictions()
			panic(p)
		}
		if err != nil {
			restoreUsers()
			restorePredictions()
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, nil)
}
