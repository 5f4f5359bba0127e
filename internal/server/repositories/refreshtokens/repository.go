// Package refreshtokens persists the opaque refresh tokens handed out at
// login and rotated on every refresh.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, expiring validity from now.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error
}
