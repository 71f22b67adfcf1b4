// Package service implements the encrypted filesystem blob store used for
// binary record payloads (signature images). Blobs are sealed with the
// record store's cipher before they touch disk.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cryptoService "github.com/thorsten-l/l9g-accountinfo/internal/crypto/service"
	apperrors "github.com/thorsten-l/l9g-accountinfo/internal/errors"
)

// FileBlobStore stores sealed blobs in a three-level directory hierarchy
// derived from the blob ID: <root>/<id[0:2]>/<id[2:4]>/<id[4:6]>/<id>.
// The fan-out keeps directory sizes bounded with large record counts.
type FileBlobStore struct {
	root   string
	sealer cryptoService.Sealer
}

// NewFileBlobStore creates a blob store rooted at the given directory.
func NewFileBlobStore(root string, sealer cryptoService.Sealer) *FileBlobStore {
	return &FileBlobStore{root: root, sealer: sealer}
}

// Save seals the payload and writes it to the blob path for id, creating
// parent directories as needed. An existing blob with the same id is
// overwritten atomically from the reader's perspective (write then rename
// is not needed because blobs are immutable once referenced).
func (f *FileBlobStore) Save(ctx context.Context, id string, payload, aad []byte) error {
	path, err := f.path(id)
	if err != nil {
		return err
	}

	sealed, err := f.sealer.Seal(payload, aad)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return apperrors.Wrap(err, "failed to create blob directory")
	}
	if err := os.WriteFile(path, sealed, 0o600); err != nil {
		return apperrors.Wrap(err, "failed to write blob")
	}
	return nil
}

// Load reads and opens the sealed blob for id. A missing blob maps to
// ErrNotFound; a failed tag check surfaces the integrity error unchanged.
func (f *FileBlobStore) Load(ctx context.Context, id string, aad []byte) ([]byte, error) {
	path, err := f.path(id)
	if err != nil {
		return nil, err
	}

	sealed, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, fmt.Sprintf("blob %s", id))
		}
		return nil, apperrors.Wrap(err, "failed to read blob")
	}

	return f.sealer.Open(sealed, aad)
}

// Delete removes the blob for id and prunes any parent directories left
// empty, so the storage tree never accumulates dead fan-out directories.
// Deleting a missing blob is not an error.
func (f *FileBlobStore) Delete(ctx context.Context, id string) error {
	path, err := f.path(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apperrors.Wrap(err, "failed to delete blob")
	}

	f.pruneEmptyDirs(filepath.Dir(path))
	return nil
}

// path maps a blob ID to its storage location.
func (f *FileBlobStore) path(id string) (string, error) {
	if len(id) < 6 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "blob id too short")
	}
	return filepath.Join(f.root, id[0:2], id[2:4], id[4:6], id), nil
}

// pruneEmptyDirs removes empty directories from dir upward, stopping at the
// store root or at the first non-empty directory.
func (f *FileBlobStore) pruneEmptyDirs(dir string) {
	root := filepath.Clean(f.root)
	for {
		dir = filepath.Clean(dir)
		if dir == root || !isWithin(root, dir) {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// isWithin reports whether path is strictly below root.
func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}
