// Package mocks provides hand-rolled fakes for the collector's interfaces.
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/hysterresis/garmin-exercises/pkg/collector"
	"github.com/hysterresis/garmin-exercises/pkg/execution"
)

// --- Mock Database ---

type MockDatabase struct {
	SetExecutionFunc    func(ctx context.Context, record *execution.Record) error
	UpdateExecutionFunc func(ctx context.Context, id string, data map[string]interface{}) error

	Records []*execution.Record
	Updates map[string][]map[string]interface{}
}

func (m *MockDatabase) SetExecution(ctx context.Context, record *execution.Record) error {
	m.Records = append(m.Records, record)
	if m.SetExecutionFunc != nil {
		return m.SetExecutionFunc(ctx, record)
	}
	return nil
}

func (m *MockDatabase) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	if m.Updates == nil {
		m.Updates = make(map[string][]map[string]interface{})
	}
	m.Updates[id] = append(m.Updates[id], data)
	if m.UpdateExecutionFunc != nil {
		return m.UpdateExecutionFunc(ctx, id, data)
	}
	return nil
}

// --- Mock Publisher ---

type MockPublisher struct {
	PublishCloudEventFunc func(ctx context.Context, topic string, e event.Event) (string, error)

	Published []event.Event
}

func (m *MockPublisher) PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error) {
	m.Published = append(m.Published, e)
	if m.PublishCloudEventFunc != nil {
		return m.PublishCloudEventFunc(ctx, topic, e)
	}
	return "mock-msg-id", nil
}

// --- Mock BlobStore ---

type MockBlobStore struct {
	WriteFunc  func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc   func(ctx context.Context, bucket, object string) ([]byte, error)
	DeleteFunc func(ctx context.Context, bucket, object string) error

	mu      sync.Mutex
	Objects map[string][]byte
}

func blobKey(bucket, object string) string {
	return bucket + "/" + object
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Objects == nil {
		m.Objects = make(map[string][]byte)
	}
	m.Objects[blobKey(bucket, object)] = data
	return nil
}

func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Objects[blobKey(bucket, object)]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", blobKey(bucket, object))
	}
	return data, nil
}

func (m *MockBlobStore) Delete(ctx context.Context, bucket, object string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, bucket, object)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, blobKey(bucket, object))
	return nil
}

// --- Mock SecretStore ---

type MockSecretStore struct {
	GetSecretFunc func(ctx context.Context, projectID, name string) (string, error)
}

func (m *MockSecretStore) GetSecret(ctx context.Context, projectID, name string) (string, error) {
	if m.GetSecretFunc != nil {
		return m.GetSecretFunc(ctx, projectID, name)
	}
	return "", fmt.Errorf("secret not found: %s", name)
}

// --- Mock SheetSink ---

type MockSheetSink struct {
	ExportFunc func(ctx context.Context, tables []*collector.CategoryTable) (string, error)

	Exported [][]*collector.CategoryTable
}

func (m *MockSheetSink) Export(ctx context.Context, tables []*collector.CategoryTable) (string, error) {
	m.Exported = append(m.Exported, tables)
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, tables)
	}
	return "https://docs.google.com/spreadsheets/d/mock/edit", nil
}
