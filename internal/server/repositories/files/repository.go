// Package files persists file metadata records: ownership, stored name,
// download link and access tier.
package files

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/linkshare/internal/server/models"
)

// ErrDownloadLinkTaken is joined with common.ErrorAlreadyExists when Create
// collides on download_link; callers may regenerate the link and retry.
var ErrDownloadLinkTaken = errors.New("download link already exists")

// Repository is the metadata store. Lookups of absent records, records not
// owned by ownerID, and malformed ids all return common.ErrorNotFound.
type Repository interface {
	// Create inserts file and fills ID and UploadedAt.
	Create(ctx context.Context, file *models.File) (*models.File, error)
	FindByID(ctx context.Context, id string) (*models.File, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error)
	// FindAllByOwner returns the owner's records, newest first.
	FindAllByOwner(ctx context.Context, ownerID string) ([]*models.File, error)
	FindByDownloadLink(ctx context.Context, link string) (*models.File, error)
	// Update persists Permission and AccessPassword of a record owned by
	// file.OwnerID. Other fields are immutable.
	Update(ctx context.Context, file *models.File) error
	Delete(ctx context.Context, id, ownerID string) error
}
