package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/repository"
)

type userRepository struct {
	store *Store
}

// Users exposes the account view. It does not take part in units of work.
func (s *Store) Users() repository.UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.usersMu.RLock()
	defer r.store.usersMu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.usersMu.RLock()
	defer r.store.usersMu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.store.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}
