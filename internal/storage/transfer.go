package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
)

// Download copies the object at key into a new scratch file in dir and
// returns its path. The caller owns the file and must remove it. On any
// error, including ErrNotFound, no scratch file is left behind.
func Download(ctx context.Context, store ObjectStore, key, dir string) (string, error) {
	rc, err := store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	f, err := os.CreateTemp(dir, "download-*"+path.Ext(key))
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}

	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to download %s: %w", key, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close scratch file: %w", err)
	}

	return f.Name(), nil
}

// Upload writes the local file at localPath to key, overwriting any existing object
func Upload(ctx context.Context, store ObjectStore, key, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open scratch file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat scratch file: %w", err)
	}

	if err := store.Put(ctx, key, f, info.Size(), mime.TypeByExtension(path.Ext(key))); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return nil
}
