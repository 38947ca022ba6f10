// Package database provides execution-record persistence adapters.
package database

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"github.com/hysterresis/garmin-exercises/pkg/execution"
)

// FirestoreAdapter persists execution records to the executions collection.
type FirestoreAdapter struct {
	Client *firestore.Client
}

func (a *FirestoreAdapter) SetExecution(ctx context.Context, record *execution.Record) error {
	_, err := a.Client.Collection("executions").Doc(record.ExecutionID).Set(ctx, record)
	return err
}

func (a *FirestoreAdapter) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	_, err := a.Client.Collection("executions").Doc(id).Set(ctx, data, firestore.MergeAll)
	return err
}

// LogDatabase is a log-only stand-in used when execution logging is disabled.
type LogDatabase struct{}

func (d *LogDatabase) SetExecution(ctx context.Context, record *execution.Record) error {
	slog.Info("MOCK EXECUTION SET", "execution_id", record.ExecutionID, "service", record.Service, "status", record.Status)
	return nil
}

func (d *LogDatabase) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	slog.Info("MOCK EXECUTION UPDATE", "execution_id", id, "data", data)
	return nil
}
