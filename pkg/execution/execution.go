// Package execution records collector run lifecycles so operators can audit
// when runs started, what they produced, and why they failed.
package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status tracks the lifecycle of one recorded run.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusStarted Status = "STARTED"
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Record is one execution document as persisted by the Database.
type Record struct {
	ExecutionID  string    `firestore:"execution_id" json:"execution_id"`
	Service      string    `firestore:"service" json:"service"`
	Status       Status    `firestore:"status" json:"status"`
	Timestamp    time.Time `firestore:"timestamp" json:"timestamp"`
	StartTime    time.Time `firestore:"start_time" json:"start_time"`
	EndTime      time.Time `firestore:"end_time,omitempty" json:"end_time,omitempty"`
	TriggerType  string    `firestore:"trigger_type,omitempty" json:"trigger_type,omitempty"`
	InputsJSON   string    `firestore:"inputs_json,omitempty" json:"inputs_json,omitempty"`
	OutputsJSON  string    `firestore:"outputs_json,omitempty" json:"outputs_json,omitempty"`
	ErrorMessage string    `firestore:"error_message,omitempty" json:"error_message,omitempty"`
}

// Database is the narrow persistence surface execution logging needs.
type Database interface {
	SetExecution(ctx context.Context, record *Record) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error
}

// ExecutionOptions contains optional fields for execution logging
type ExecutionOptions struct {
	TriggerType string
	Inputs      interface{}
}

// LogStart creates an execution record with STARTED status and returns its ID.
func LogStart(ctx context.Context, db Database, service string, opts ExecutionOptions) (string, error) {
	execID := fmt.Sprintf("%s-%s", service, uuid.NewString())
	now := time.Now().UTC()

	record := &Record{
		ExecutionID: execID,
		Service:     service,
		Status:      StatusStarted,
		Timestamp:   now,
		StartTime:   now,
		TriggerType: opts.TriggerType,
	}

	// Encode inputs as JSON if provided
	if opts.Inputs != nil {
		inputsJSON, err := json.Marshal(opts.Inputs)
		if err == nil {
			record.InputsJSON = string(inputsJSON)
		}
	}

	if err := db.SetExecution(ctx, record); err != nil {
		return execID, fmt.Errorf("failed to log execution start: %w", err)
	}

	return execID, nil
}

// LogSuccess marks an execution as succeeded and attaches its outputs.
func LogSuccess(ctx context.Context, db Database, execID string, outputs interface{}) error {
	updates := map[string]interface{}{
		"status":   StatusSuccess,
		"end_time": time.Now().UTC(),
	}

	if outputs != nil {
		outputsJSON, err := json.Marshal(outputs)
		if err == nil {
			updates["outputs_json"] = string(outputsJSON)
		}
	}

	if err := db.UpdateExecution(ctx, execID, updates); err != nil {
		return fmt.Errorf("failed to log execution success: %w", err)
	}

	return nil
}

// LogFailure marks an execution as failed and records the error message.
func LogFailure(ctx context.Context, db Database, execID string, cause error) error {
	updates := map[string]interface{}{
		"status":   StatusFailure,
		"end_time": time.Now().UTC(),
	}
	if cause != nil {
		updates["error_message"] = cause.Error()
	}

	if err := db.UpdateExecution(ctx, execID, updates); err != nil {
		return fmt.Errorf("failed to log execution failure: %w", err)
	}

	return nil
}
