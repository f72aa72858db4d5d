// Package repository holds the in-memory stores for users, events and notifications.
package repository

import (
	"context"
	"sync"

	"hedwig/internal/models"
	"hedwig/internal/observability"
)

// UserRepository defines the registered-user set. Email is the unique login key.
type UserRepository interface {
	List() []models.User
	GetByID(id string) (*models.User, bool)
	GetByEmail(email string) (*models.User, bool)
	// Create appends user unless its email is taken; it reports whether it was added.
	Create(ctx context.Context, user models.User) bool
}

type userRepository struct {
	mu    sync.RWMutex
	users []models.User
	log   *observability.StoreLogger
}

// NewUserRepository creates a UserRepository seeded with users.
func NewUserRepository(users []models.User) UserRepository {
	r := &userRepository{log: observability.NewStoreLogger("users")}
	for _, u := range users {
		r.users = append(r.users, u.Clone())
	}
	return r
}

func (r *userRepository) List() []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.User, len(r.users))
	for i, u := range r.users {
		out[i] = u.Clone()
	}
	return out
}

func (r *userRepository) GetByID(id string) (*models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			c := u.Clone()
			return &c, true
		}
	}
	return nil, false
}

func (r *userRepository) GetByEmail(email string) (*models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.EmailMatches(email) {
			c := u.Clone()
			return &c, true
		}
	}
	return nil, false
}

func (r *userRepository) Create(ctx context.Context, user models.User) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.EmailMatches(user.Email) {
			observability.RecordMutation("users", "create", false)
			r.log.LogSkipped(ctx, "create", map[string]interface{}{"reason": "duplicate_email"})
			return false
		}
	}
	r.users = append(r.users, user.Clone())
	observability.RecordMutation("users", "create", true)
	r.log.LogMutation(ctx, "create", map[string]interface{}{"user_id": user.ID})
	return true
}
