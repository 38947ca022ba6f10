package collector

import (
	"context"
	"encoding/json"
	"fmt"

	shared "github.com/hysterresis/garmin-exercises/pkg"
	"github.com/hysterresis/garmin-exercises/pkg/garmin"
)

// SnapshotStore persists finished tables through the blob store so a rerun
// can export without refetching. The JSON layout is an implementation
// detail, not a public contract.
type SnapshotStore struct {
	blobs  shared.BlobStore
	bucket string
}

func NewSnapshotStore(blobs shared.BlobStore, bucket string) *SnapshotStore {
	return &SnapshotStore{blobs: blobs, bucket: bucket}
}

func snapshotObject(ds garmin.Dataset) string {
	return fmt.Sprintf("snapshots/%s.json", ds)
}

// Save persists one finished table.
func (s *SnapshotStore) Save(ctx context.Context, t *CategoryTable) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", t.Dataset, err)
	}
	return s.blobs.Write(ctx, s.bucket, snapshotObject(t.Dataset), data)
}

// Load reads back the snapshot for one dataset.
func (s *SnapshotStore) Load(ctx context.Context, ds garmin.Dataset) (*CategoryTable, error) {
	data, err := s.blobs.Read(ctx, s.bucket, snapshotObject(ds))
	if err != nil {
		return nil, err
	}
	var t CategoryTable
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode %s snapshot: %w", ds, err)
	}
	return &t, nil
}
