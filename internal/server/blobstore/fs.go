package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/linkshare/internal/filex"
)

// FSStore keeps blobs as files in a single directory.
type FSStore struct {
	dir string
}

var _ Store = (*FSStore)(nil)

// NewFSStore creates dir if needed. A relative dir is resolved against the
// working directory once, here.
func NewFSStore(dir string) (*FSStore, error) {
	abs, err := filex.EnsureDir(dir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FSStore{dir: abs}, nil
}

// Put writes to a temp file, fsyncs it and renames it into place, so a
// partially written blob is never visible under its stored name.
func (s *FSStore) Put(ctx context.Context, r io.Reader, originalName string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	storedName := NewStoredName(originalName)
	fullPath := filepath.Join(s.dir, storedName)
	tmpPath := fullPath + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", 0, fmt.Errorf("create temp blob: %w", err)
	}

	size, err := io.Copy(f, ctxReader{ctx: ctx, r: r})
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("fsync blob: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("close blob: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("rename blob: %w", err)
	}

	return storedName, size, nil
}

// Get opens the blob; the caller closes it.
func (s *FSStore) Get(ctx context.Context, storedName string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if !validStoredName(storedName) {
		return nil, 0, fmt.Errorf("invalid stored name %q", storedName)
	}

	f, err := os.Open(filepath.Join(s.dir, storedName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%s: %w", storedName, ErrBlobMissing)
		}
		return nil, 0, fmt.Errorf("open blob %s: %w", storedName, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat blob %s: %w", storedName, err)
	}
	return f, info.Size(), nil
}

func (s *FSStore) Delete(ctx context.Context, storedName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validStoredName(storedName) {
		return fmt.Errorf("invalid stored name %q", storedName)
	}

	err := os.Remove(filepath.Join(s.dir, storedName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob %s: %w", storedName, err)
	}
	return nil
}
