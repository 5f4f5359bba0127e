package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/linkshare/internal/logging"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
	"github.com/dmitrijs2005/linkshare/internal/server/services"
)

// UserService is the part of services.UserService the API calls.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// FileService is the part of services.FileService the API calls.
type FileService interface {
	Upload(ctx context.Context, in services.UploadInput) (*models.File, error)
	ListOwned(ctx context.Context, ownerID string) ([]*models.File, error)
	GetOwned(ctx context.Context, id, ownerID string) (*models.File, error)
	UpdatePermission(ctx context.Context, id, ownerID, permission, password string) (*models.File, error)
	Delete(ctx context.Context, id, ownerID string) error
	DownloadByLink(ctx context.Context, link string, password *string) (*services.Download, error)
}

var (
	_ UserService = (*services.UserService)(nil)
	_ FileService = (*services.FileService)(nil)
)

// Handler serves the API routes.
type Handler struct {
	users         UserService
	files         FileService
	logger        logging.Logger
	maxUploadSize int64
}

func NewHandler(us UserService, fs FileService, l logging.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		users:         us,
		files:         fs,
		logger:        l.With("module", "http_api"),
		maxUploadSize: maxUploadSize,
	}
}

// respondError writes err through classify; undescribed errors are logged.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg, ok := classify(err)
	if !ok {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	WriteError(w, status, code, msg)
}

const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	return dec.Decode(v)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
