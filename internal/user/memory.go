package user

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps users in a map. It is used by tests and by
// `serve --memory` for running without PostgreSQL.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]User
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		store:  make(map[int64]User),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *user
	created.ID = r.nextID
	r.nextID++
	r.store[created.ID] = created

	return &created, nil
}

// List returns users ordered by id, matching the postgres repository.
func (r *MemoryRepository) List(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0, len(r.store))
	for _, u := range r.store {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.store[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &u, nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[user.ID]; !ok {
		return nil, ErrNotFound
	}

	updated := *user
	r.store[user.ID] = updated

	return &updated, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.store, id)

	return &u, nil
}
