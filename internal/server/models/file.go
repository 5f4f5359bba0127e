// Package models defines server-side data models persisted in the database.
package models

import "time"

// Permission is the access tier of a shared file.
type Permission string

const (
	PermissionPrivate           Permission = "PRIVATE"
	PermissionPublic            Permission = "PUBLIC"
	PermissionPasswordProtected Permission = "PASSWORD_PROTECTED"
)

// ParsePermission returns the Permission named by s and whether it is known.
func ParsePermission(s string) (Permission, bool) {
	p := Permission(s)
	return p, p.Valid()
}

func (p Permission) Valid() bool {
	switch p {
	case PermissionPrivate, PermissionPublic, PermissionPasswordProtected:
		return true
	}
	return false
}

// File is the metadata record of an uploaded blob.
//
// AccessPassword is non-nil exactly when Permission is
// PermissionPasswordProtected. StoredName addresses the blob in the blob
// store and is never shown to clients; OwnerName is read-only and filled
// by lookups that join users.
type File struct {
	ID             string
	OriginalName   string
	StoredName     string
	ContentType    string
	Size           int64
	UploadedAt     time.Time
	DownloadLink   string
	OwnerID        string
	OwnerName      string
	Permission     Permission
	AccessPassword *string
}

// Clone returns a deep copy, so callers can mutate the result without
// affecting shared (e.g. cached) records.
func (f *File) Clone() *File {
	if f == nil {
		return nil
	}
	c := *f
	if f.AccessPassword != nil {
		pw := *f.AccessPassword
		c.AccessPassword = &pw
	}
	return &c
}
