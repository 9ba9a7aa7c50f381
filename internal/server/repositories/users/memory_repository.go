package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/server/models"
)

type memUser struct {
	user models.User
	seq  int64
}

// MemoryRepository keeps users in process memory. It backs the
// "memory://" DSN and tests.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*memUser
	byName map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[int64]*memUser),
		byName: make(map[string]int64),
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}

	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()

	r.byID[user.ID] = &memUser{user: *user}
	r.byName[user.UserName] = user.ID

	return user, nil
}

func (r *MemoryRepository) GetUserByLogin(_ context.Context, userName string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byName[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.byID[id].user
	return &u, nil
}

func (r *MemoryRepository) NextPredictionSeq(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.seq++
	return u.seq, nil
}

func (r *MemoryRepository) ResetPredictionSeq(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.seq = 0
	return nil
}

// Snapshot captures the current state; calling the returned func restores
// it. Used to roll back failed in-memory transactions.
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	nextID := r.nextID
	byID := make(map[int64]memUser, len(r.byID))
	for id, u := range r.byID {
		byID[id] = *u
	}
	byName := make(map[string]int64, len(r.byName))
	for n, id := range r.byName {
		byName[n] = id
	}

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.nextID = nextID
		r.byID = make(map[int64]*memUser, len(byID))
		for id, u := range byID {
			u := u
			r.byID[id] = &u
		}
		r.byName = byName
	}
}
