package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/logging"
	"github.com/dmitrijs2005/linkshare/internal/server/access"
	"github.com/dmitrijs2005/linkshare/internal/server/blobstore"
	"github.com/dmitrijs2005/linkshare/internal/server/cache"
	"github.com/dmitrijs2005/linkshare/internal/server/config"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/files"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/repomanager"
)

const (
	defaultContentType = "application/octet-stream"
	linkAttempts       = 3
)

// UploadInput describes one uploaded file. Size is the size declared by the
// client; 0 means unknown. OwnerName only decorates the returned record.
type UploadInput struct {
	Content      io.Reader
	OriginalName string `name:"originalFilename" validate:"required,max=255"`
	ContentType  string `name:"contentType" validate:"max=255"`
	Size         int64  `name:"fileSize" validate:"gte=0"`
	OwnerID      string `name:"ownerId" validate:"required"`
	OwnerName    string
}

// Download is an open blob with its record. The caller closes Content.
type Download struct {
	File    *models.File
	Content io.ReadCloser
	// Size is the length of Content as reported by the blob store, or -1.
	Size int64
}

// FileService orchestrates the blob store, the metadata store, the access
// decision and the download link cache.
type FileService struct {
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	blobs             blobstore.Store
	links             *cache.LinkCache
	log               logging.Logger
	metrics           *FileMetrics
	maxUploadSize     int64
	allowedExtensions map[string]struct{}

	// newLink is replaced in tests to force link collisions.
	newLink func() (string, error)
}

// NewFileService wires the service. links and metrics may be nil.
func NewFileService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	blobs blobstore.Store,
	links *cache.LinkCache,
	cfg *config.Config,
	log logging.Logger,
	metrics *FileMetrics,
) *FileService {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	return &FileService{
		db:                db,
		repomanager:       m,
		blobs:             blobs,
		links:             links,
		log:               log,
		metrics:           metrics,
		maxUploadSize:     cfg.MaxUploadSize,
		allowedExtensions: allowed,
		newLink:           common.NewDownloadLink,
	}
}

func (s *FileService) repo() files.Repository {
	return s.repomanager.Files(s.db)
}

// Upload stores the bytes, then the record, as a PRIVATE file. Bytes are
// never left behind without a record: every failure after the blob write
// removes the blob again.
func (s *FileService) Upload(ctx context.Context, in UploadInput) (*models.File, error) {
	f, err := s.upload(ctx, in)
	if err != nil {
		s.metrics.observe("upload", outcome(err))
		return nil, err
	}
	s.metrics.observe("upload", "ok")
	s.metrics.uploaded(f.Size)
	return f, nil
}

func (s *FileService) upload(ctx context.Context, in UploadInput) (*models.File, error) {
	if in.Content == nil {
		return nil, validationErrorf("file is required")
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.checkExtension(in.OriginalName); err != nil {
		return nil, err
	}
	if s.maxUploadSize > 0 && in.Size > s.maxUploadSize {
		return nil, validationErrorf("file exceeds the maximum size of %d bytes", s.maxUploadSize)
	}

	content := in.Content
	if s.maxUploadSize > 0 {
		// one extra byte tells an exact fit from an oversized body
		content = io.LimitReader(in.Content, s.maxUploadSize+1)
	}

	storedName, written, err := s.blobs.Put(ctx, content, in.OriginalName)
	if err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	switch {
	case s.maxUploadSize > 0 && written > s.maxUploadSize:
		s.discardBlob(ctx, storedName)
		return nil, validationErrorf("file exceeds the maximum size of %d bytes", s.maxUploadSize)
	case in.Size > 0 && written != in.Size:
		s.discardBlob(ctx, storedName)
		return nil, validationErrorf("received %d bytes, declared %d", written, in.Size)
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	record := &models.File{
		OriginalName: in.OriginalName,
		StoredName:   storedName,
		ContentType:  contentType,
		Size:         written,
		OwnerID:      in.OwnerID,
		Permission:   models.PermissionPrivate,
	}

	created, err := s.createWithFreshLink(ctx, record)
	if err != nil {
		s.discardBlob(ctx, storedName)
		return nil, fmt.Errorf("save metadata: %w", err)
	}
	created.OwnerName = in.OwnerName

	s.log.Info(ctx, "file uploaded",
		"file_id", created.ID, "owner_id", created.OwnerID, "size", created.Size)
	return created, nil
}

func (s *FileService) createWithFreshLink(ctx context.Context, record *models.File) (*models.File, error) {
	var lastErr error
	for attempt := 0; attempt < linkAttempts; attempt++ {
		link, err := s.newLink()
		if err != nil {
			return nil, fmt.Errorf("generate download link: %w", err)
		}
		record.DownloadLink = link

		created, err := s.repo().Create(ctx, record)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, files.ErrDownloadLinkTaken) {
			return nil, err
		}
		s.log.Warn(ctx, "download link collision, regenerating", "attempt", attempt+1)
		lastErr = err
	}
	return nil, lastErr
}

// discardBlob removes a blob that has no record. Failures are only logged.
func (s *FileService) discardBlob(ctx context.Context, storedName string) {
	if err := s.blobs.Delete(context.WithoutCancel(ctx), storedName); err != nil {
		s.log.Error(ctx, "failed to remove orphaned blob", "stored_name", storedName, "error", err)
	}
}

func (s *FileService) checkExtension(name string) error {
	if len(s.allowedExtensions) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := s.allowedExtensions[ext]; !ok {
		return validationErrorf("file type %q is not allowed", ext)
	}
	return nil
}

// ListOwned returns the owner's files, newest first.
func (s *FileService) ListOwned(ctx context.Context, ownerID string) ([]*models.File, error) {
	list, err := s.repo().FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return list, nil
}

// GetOwned returns common.ErrorNotFound both for absent files and for files
// of other owners.
func (s *FileService) GetOwned(ctx context.Context, id, ownerID string) (*models.File, error) {
	f, err := s.repo().FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	return f, nil
}

// UpdatePermission moves a file to another tier. PASSWORD_PROTECTED needs a
// non-empty password; the other tiers drop any stored password.
func (s *FileService) UpdatePermission(ctx context.Context, id, ownerID, permission, password string) (*models.File, error) {
	p, ok := models.ParsePermission(permission)
	if !ok {
		s.metrics.observe("update_permission", "invalid")
		return nil, validationErrorf("unknown permission %q", permission)
	}
	if p == models.PermissionPasswordProtected && password == "" {
		s.metrics.observe("update_permission", "invalid")
		return nil, validationErrorf("password is required for %s", p)
	}

	f, err := s.repo().FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		s.metrics.observe("update_permission", outcome(err))
		return nil, fmt.Errorf("get file: %w", err)
	}

	f.Permission = p
	f.AccessPassword = nil
	if p == models.PermissionPasswordProtected {
		f.AccessPassword = &password
	}

	if err := s.repo().Update(ctx, f); err != nil {
		s.metrics.observe("update_permission", outcome(err))
		return nil, fmt.Errorf("update file: %w", err)
	}
	s.links.Invalidate(f.DownloadLink)
	s.metrics.observe("update_permission", "ok")

	s.log.Info(ctx, "file permission changed", "file_id", f.ID, "permission", string(p))
	return f, nil
}

// Delete removes the bytes, then the record. A blob that is already gone
// does not stop the record from being removed.
func (s *FileService) Delete(ctx context.Context, id, ownerID string) error {
	err := s.delete(ctx, id, ownerID)
	s.metrics.observe("delete", outcome(err))
	return err
}

func (s *FileService) delete(ctx context.Context, id, ownerID string) error {
	f, err := s.repo().FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("get file: %w", err)
	}

	if err := s.blobs.Delete(ctx, f.StoredName); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}

	if err := s.repo().Delete(ctx, f.ID, ownerID); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	s.links.Invalidate(f.DownloadLink)

	s.log.Info(ctx, "file deleted", "file_id", f.ID, "owner_id", ownerID)
	return nil
}

// DownloadByLink opens the file behind link if its tier lets the request
// through. Errors: common.ErrorNotFound for an unknown link,
// common.ErrorAccessDenied or common.ErrorInvalidPassword from the access
// decision, common.ErrorBlobInconsistent when the record has no bytes.
func (s *FileService) DownloadByLink(ctx context.Context, link string, password *string) (*Download, error) {
	d, err := s.downloadByLink(ctx, link, password)
	s.metrics.observe("download", outcome(err))
	return d, err
}

func (s *FileService) downloadByLink(ctx context.Context, link string, password *string) (*Download, error) {
	gen := s.links.Generation()
	f, hit := s.links.Get(link)
	if !hit {
		var err error
		f, err = s.repo().FindByDownloadLink(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("find file by link: %w", err)
		}
		s.links.Set(f, gen)
	}

	if err := access.Decide(f, password).Err(); err != nil {
		return nil, err
	}

	rc, size, err := s.blobs.Get(ctx, f.StoredName)
	if err != nil {
		if errors.Is(err, blobstore.ErrBlobMissing) {
			s.log.Error(ctx, "blob missing for file record",
				"file_id", f.ID, "stored_name", f.StoredName)
			return nil, fmt.Errorf("%w: file %s", common.ErrorBlobInconsistent, f.ID)
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}

	return &Download{File: f, Content: rc, Size: size}, nil
}

// outcome labels an error for the operations counter.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrorValidation):
		return "invalid"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	case errors.Is(err, common.ErrorAccessDenied), errors.Is(err, common.ErrorInvalidPassword):
		return "denied"
	case errors.Is(err, common.ErrorBlobInconsistent):
		return "inconsistent"
	default:
		return "error"
	}
}
