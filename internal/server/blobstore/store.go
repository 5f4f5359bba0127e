// Package blobstore keeps the raw bytes of uploaded files, addressed by a
// generated stored name. Metadata lives elsewhere; a Store knows nothing
// about owners or permissions.
package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ErrBlobMissing is returned by Get when no bytes exist under the name.
var ErrBlobMissing = errors.New("blob missing")

// Store persists blobs.
//
// Put streams r into a new blob and returns its stored name and the number
// of bytes written. Get returns the blob's current size, or -1 when the
// backend does not report one. Delete of an absent blob is not an error.
type Store interface {
	Put(ctx context.Context, r io.Reader, originalName string) (storedName string, size int64, err error)
	Get(ctx context.Context, storedName string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, storedName string) error
}

const maxNameRunes = 100

// NewStoredName returns "<uuid>_<sanitized name>". The uuid alone makes the
// name unique; the suffix only helps operators recognise files.
func NewStoredName(originalName string) string {
	return uuid.NewString() + "_" + sanitize(originalName)
}

// sanitize keeps letters, digits, '-', '_' and '.', drops everything else
// (path separators included) and never returns a dot-only or empty name.
func sanitize(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == maxNameRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
			n++
		}
	}

	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}

// validStoredName rejects names that could escape the store's namespace.
func validStoredName(name string) bool {
	return name != "" &&
		!strings.ContainsAny(name, `/\`) &&
		!strings.HasPrefix(name, ".") &&
		!strings.ContainsRune(name, 0)
}

// ctxReader aborts a long copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
