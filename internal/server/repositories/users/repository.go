// Package users declares and implements persistence of user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/linkshare/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID and CreatedAt. A taken username
	// or email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
