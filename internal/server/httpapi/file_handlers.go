package httpapi

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/server/auth"
	"github.com/dmitrijs2005/linkshare/internal/server/services"
)

const uploadFormField = "file"

// multipart parts up to this size are kept in memory, the rest spills to disk
const multipartMemory = 1 << 20

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if h.maxUploadSize > 0 {
		// room for the multipart envelope around the file
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		WriteError(w, http.StatusBadRequest, CodeUploadFailed, "malformed multipart request")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidationError, "file is required")
		return
	}
	defer file.Close()

	f, err := h.files.Upload(r.Context(), services.UploadInput{
		Content:      file,
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		OwnerID:      id.UserID,
		OwnerName:    id.UserName,
	})
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			h.respondError(w, r, err)
			return
		}
		h.logger.Error(r.Context(), "upload failed", "owner_id", id.UserID, "error", err)
		WriteError(w, http.StatusBadRequest, CodeUploadFailed, "could not upload file")
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		FileID:           f.ID,
		OriginalFilename: f.OriginalName,
		DownloadLink:     f.DownloadLink,
		FileSize:         f.Size,
		ContentType:      f.ContentType,
	})
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	list, err := h.files.ListOwned(r.Context(), id.UserID)
	if err != nil {
		h.logger.Error(r.Context(), "list files failed", "owner_id", id.UserID, "error", err)
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "could not list files")
		return
	}

	writeJSON(w, http.StatusOK, toFileDTOs(list))
}

func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	f, err := h.files.GetOwned(r.Context(), chi.URLParam(r, "id"), id.UserID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFileDTO(f))
}

func (h *Handler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req permissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidationError, "malformed request body")
		return
	}

	if _, err := h.files.UpdatePermission(r.Context(), chi.URLParam(r, "id"), id.UserID, req.Permission, req.Password); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "permission updated successfully"})
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.files.Delete(r.Context(), chi.URLParam(r, "id"), id.UserID); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "file deleted successfully"})
}

// Download streams a file by its link. The password comes from the
// "password" query parameter; an absent parameter means no password.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	var password *string
	if q := r.URL.Query(); q.Has("password") {
		p := q.Get("password")
		password = &p
	}

	d, err := h.files.DownloadByLink(r.Context(), chi.URLParam(r, "link"), password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	defer d.Content.Close()

	w.Header().Set("Content-Type", d.File.ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Disposition", contentDisposition(d.File.OriginalName))
	if d.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(d.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, d.Content); err != nil {
		h.logger.Warn(r.Context(), "download interrupted", "file_id", d.File.ID, "error", err)
	}
}

// contentDisposition renders an attachment header. Names that are not
// printable ASCII also get an RFC 5987 filename* parameter.
func contentDisposition(name string) string {
	fallback := asciiFallback(name)
	v := `attachment; filename="` + fallback + `"`
	if fallback != name {
		v += "; filename*=UTF-8''" + strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	}
	return v
}

func asciiFallback(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
}
