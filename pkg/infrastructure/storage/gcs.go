// Package storage provides BlobStore adapters for snapshot and state
// persistence.
package storage

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
)

// GCSAdapter provides blob storage using Google Cloud Storage
type GCSAdapter struct {
	Client *storage.Client
}

func (a *GCSAdapter) Write(ctx context.Context, bucketName, objectName string, data []byte) error {
	wc := a.Client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	if _, err := wc.Write(data); err != nil {
		return err
	}
	return wc.Close()
}

func (a *GCSAdapter) Read(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	rc, err := a.Client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (a *GCSAdapter) Delete(ctx context.Context, bucketName, objectName string) error {
	return a.Client.Bucket(bucketName).Object(objectName).Delete(ctx)
}
