package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/users"
	"github.com/google/uuid"
)

type UsersRepository struct {
	mu   sync.RWMutex
	byID map[string]models.User
}

var _ users.Repository = (*UsersRepository)(nil)

func NewUsersRepository() *UsersRepository {
	return &UsersRepository{byID: make(map[string]models.User)}
}

func (r *UsersRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.UserName == user.UserName {
			return nil, errors.Join(common.ErrorAlreadyExists, users.ErrUserNameTaken)
		}
		if u.Email == user.Email {
			return nil, errors.Join(common.ErrorAlreadyExists, users.ErrEmailTaken)
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	r.byID[user.ID] = *user
	return user, nil
}

func (r *UsersRepository) GetByUserName(_ context.Context, userName string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.UserName == userName {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *UsersRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *UsersRepository) userName(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id].UserName
}
