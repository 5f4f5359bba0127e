package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/files"
	"github.com/google/uuid"
)

type FilesRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.File
	users *UsersRepository

	// CreateErr, when set, fails every Create.
	CreateErr error
}

var _ files.Repository = (*FilesRepository)(nil)

// NewFilesRepository resolves OwnerName through users when it is non-nil.
func NewFilesRepository(users *UsersRepository) *FilesRepository {
	return &FilesRepository{byID: make(map[string]*models.File), users: users}
}

func (r *FilesRepository) Create(_ context.Context, file *models.File) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CreateErr != nil {
		return nil, r.CreateErr
	}

	for _, f := range r.byID {
		if f.DownloadLink == file.DownloadLink {
			return nil, errors.Join(common.ErrorAlreadyExists, files.ErrDownloadLinkTaken)
		}
		if f.StoredName == file.StoredName {
			return nil, common.ErrorAlreadyExists
		}
	}

	file.ID = uuid.NewString()
	file.UploadedAt = time.Now()
	r.byID[file.ID] = file.Clone()
	return file, nil
}

func (r *FilesRepository) FindByID(_ context.Context, id string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.out(f), nil
}

func (r *FilesRepository) FindByIDAndOwner(_ context.Context, id, ownerID string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok || f.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return r.out(f), nil
}

func (r *FilesRepository) FindAllByOwner(_ context.Context, ownerID string) ([]*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.File, 0)
	for _, f := range r.byID {
		if f.OwnerID == ownerID {
			result = append(result, r.out(f))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})
	return result, nil
}

func (r *FilesRepository) FindByDownloadLink(_ context.Context, link string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.byID {
		if f.DownloadLink == link {
			return r.out(f), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *FilesRepository) Update(_ context.Context, file *models.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.byID[file.ID]
	if !ok || f.OwnerID != file.OwnerID {
		return common.ErrorNotFound
	}

	updated := file.Clone()
	f.Permission = updated.Permission
	f.AccessPassword = updated.AccessPassword
	return nil
}

func (r *FilesRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.byID[id]
	if !ok || f.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

// Len reports the number of stored records.
func (r *FilesRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *FilesRepository) out(f *models.File) *models.File {
	c := f.Clone()
	if r.users != nil {
		c.OwnerName = r.users.userName(c.OwnerID)
	}
	return c
}
