package memory

import (
	"context"
	"sync"

	domainuser "staybook/internal/domain/user"
)

// UserRepository is an in-memory store used in dev mode and tests.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[domainuser.ID]*domainuser.User
	byEmail map[string]domainuser.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[domainuser.ID]*domainuser.User),
		byEmail: make(map[string]domainuser.ID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domainuser.NormalizeEmail(email)]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byEmail[u.Email]; ok && existingID != u.ID {
		return domainuser.ErrEmailAlreadyUsed
	}
	if prev, ok := r.byID[u.ID]; ok && prev.Email != u.Email {
		delete(r.byEmail, prev.Email)
	}
	r.byID[u.ID] = cloneUser(u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func cloneUser(u *domainuser.User) *domainuser.User {
	copied := *u
	copied.Roles = append([]domainuser.Role(nil), u.Roles...)
	return &copied
}
