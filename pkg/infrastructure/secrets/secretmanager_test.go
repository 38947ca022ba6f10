package secrets

import (
	"context"
	"os"
	"testing"
)

func TestGetSecret_EnvVar(t *testing.T) {
	os.Setenv("TEST_SECRET", "local_value")
	defer os.Unsetenv("TEST_SECRET")

	adapter := &SecretManagerAdapter{}

	val, err := adapter.GetSecret(context.Background(), "test-project", "TEST_SECRET")
	if err != nil {
		t.Fatalf("Expected env fallback to succeed, got error: %v", err)
	}
	if val != "local_value" {
		t.Errorf("Expected 'local_value', got '%s'", val)
	}
}
