package predictions

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/server/models"
)

// MemoryRepository keeps prediction records per user in process memory.
type MemoryRepository struct {
	mu     sync.Mutex
	byUser map[int64][]models.Prediction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: make(map[int64][]models.Prediction)}
}

func (r *MemoryRepository) Create(_ context.Context, p *models.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byUser[p.UserID] {
		if existing.LocalID == p.LocalID {
			return common.ErrorAlreadyExists
		}
	}
	r.byUser[p.UserID] = append(r.byUser[p.UserID], *p)
	return nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID int64) ([]*models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.byUser[userID]
	out := make([]*models.Prediction, 0, len(stored))
	for i := range stored {
		p := stored[i]
		out = append(out, &p)
	}

	slices.SortFunc(out, func(a, b *models.Prediction) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.LocalID > b.LocalID:
			return -1
		case a.LocalID < b.LocalID:
			return 1
		}
		return 0
	})
	return out, nil
}

func (r *MemoryRepository) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.byUser[userID]))
	delete(r.byUser, userID)
	return n, nil
}

// Snapshot captures the current state; calling the returned func restores it.
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := make(map[int64][]models.Prediction, len(r.byUser))
	for id, ps := range r.byUser {
		saved[id] = slices.Clone(ps)
	}

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.byUser = saved
	}
}
