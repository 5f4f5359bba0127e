package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/refreshtokens"
	"github.com/google/uuid"
)

type RefreshTokensRepository struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
}

var _ refreshtokens.Repository = (*RefreshTokensRepository)(nil)

func NewRefreshTokensRepository() *RefreshTokensRepository {
	return &RefreshTokensRepository{tokens: make(map[string]models.RefreshToken)}
}

func (r *RefreshTokensRepository) Create(_ context.Context, userID string, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.tokens[token]; dup {
		return common.ErrorAlreadyExists
	}
	now := time.Now()
	r.tokens[token] = models.RefreshToken{
		ID: uuid.NewString(), UserID: userID, Token: token,
		Expires: now.Add(validity), CreatedAt: now,
	}
	return nil
}

func (r *RefreshTokensRepository) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rt, nil
}

func (r *RefreshTokensRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
	return nil
}
