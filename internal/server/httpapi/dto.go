package httpapi

import (
	"time"

	"github.com/dmitrijs2005/linkshare/internal/server/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type uploadResponse struct {
	FileID           string `json:"fileId"`
	OriginalFilename string `json:"originalFilename"`
	DownloadLink     string `json:"downloadLink"`
	FileSize         int64  `json:"fileSize"`
	ContentType      string `json:"contentType"`
}

type permissionRequest struct {
	Permission string `json:"permission"`
	Password   string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// fileDTO is the client view of a file record. The stored name and the
// access password are never exposed.
type fileDTO struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"originalFilename"`
	ContentType      string    `json:"contentType"`
	FileSize         int64     `json:"fileSize"`
	UploadTime       time.Time `json:"uploadTime"`
	DownloadLink     string    `json:"downloadLink"`
	OwnerUsername    string    `json:"ownerUsername"`
	Permission       string    `json:"permission"`
}

func toFileDTO(f *models.File) fileDTO {
	return fileDTO{
		ID:               f.ID,
		OriginalFilename: f.OriginalName,
		ContentType:      f.ContentType,
		FileSize:         f.Size,
		UploadTime:       f.UploadedAt,
		DownloadLink:     f.DownloadLink,
		OwnerUsername:    f.OwnerName,
		Permission:       string(f.Permission),
	}
}

func toFileDTOs(list []*models.File) []fileDTO {
	out := make([]fileDTO, 0, len(list))
	for _, f := range list {
		out = append(out, toFileDTO(f))
	}
	return out
}
