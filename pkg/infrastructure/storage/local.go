package storage

import (
	"context"
	"os"
	"path/filepath"
)

// LocalAdapter provides blob storage on the local filesystem for development
// and single-machine runs. The bucket maps to a subdirectory under Root.
type LocalAdapter struct {
	Root string
}

func (a *LocalAdapter) path(bucketName, objectName string) string {
	return filepath.Join(a.Root, bucketName, filepath.FromSlash(objectName))
}

func (a *LocalAdapter) Write(ctx context.Context, bucketName, objectName string, data []byte) error {
	path := a.path(bucketName, objectName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (a *LocalAdapter) Read(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	return os.ReadFile(a.path(bucketName, objectName))
}

func (a *LocalAdapter) Delete(ctx context.Context, bucketName, objectName string) error {
	err := os.Remove(a.path(bucketName, objectName))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
