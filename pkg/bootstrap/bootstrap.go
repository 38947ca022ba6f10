// Package bootstrap wires configuration, logging, and external service
// clients for the collector's entrypoints.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	shared "github.com/hysterresis/garmin-exercises/pkg"
	"github.com/hysterresis/garmin-exercises/pkg/infrastructure/database"
	infrapubsub "github.com/hysterresis/garmin-exercises/pkg/infrastructure/pubsub"
	"github.com/hysterresis/garmin-exercises/pkg/infrastructure/secrets"
	infrastorage "github.com/hysterresis/garmin-exercises/pkg/infrastructure/storage"
)

// Config holds standard configuration for all entrypoints
type Config struct {
	ProjectID          string
	EnableExecutionLog bool
	EnablePublish      bool
	CompletionTopic    string

	SnapshotBucket string // GCS bucket for snapshots/state; empty selects local storage
	SnapshotDir    string // local storage root when SnapshotBucket is empty

	CredentialsFile   string // service account key file for Sheets/Drive
	CredentialsSecret string // Secret Manager secret holding the key JSON

	GarminBaseURL string
	GarminLocale  string

	SpreadsheetTitle string
	ShareEditorEmail string
}

// Service holds initialized dependencies
type Service struct {
	DB      shared.Database
	Pub     shared.Publisher
	Store   shared.BlobStore
	Secrets shared.SecretStore
	Sheets  *sheets.Service
	Drive   *drive.Service
	Config  *Config
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = shared.ProjectID // Fallback
	}

	topic := os.Getenv("COMPLETION_TOPIC")
	if topic == "" {
		topic = shared.TopicRunCompleted
	}

	snapshotDir := os.Getenv("SNAPSHOT_DIR")
	if snapshotDir == "" {
		snapshotDir = "."
	}

	return &Config{
		ProjectID:          projectID,
		EnableExecutionLog: os.Getenv("ENABLE_EXECUTION_LOG") == "true",
		EnablePublish:      os.Getenv("ENABLE_PUBLISH") == "true",
		CompletionTopic:    topic,
		SnapshotBucket:     os.Getenv("SNAPSHOT_BUCKET"),
		SnapshotDir:        snapshotDir,
		CredentialsFile:    os.Getenv("SHEETS_CREDENTIALS_FILE"),
		CredentialsSecret:  os.Getenv("SHEETS_CREDENTIALS_SECRET"),
		GarminBaseURL:      os.Getenv("GARMIN_BASE_URL"),
		GarminLocale:       os.Getenv("GARMIN_LOCALE"),
		SpreadsheetTitle:   os.Getenv("SPREADSHEET_TITLE"),
		ShareEditorEmail:   os.Getenv("SHARE_EDITOR_EMAIL"),
	}
}

// GetSlogHandlerOptions returns standard handler options for GCP
func GetSlogHandlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Map standard keys to Cloud Logging keys
			if a.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: a.Value}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{Key: "severity", Value: a.Value}
			}
			return a
		},
	}
}

// InitLogger configures structured logging with Cloud Logging compatible keys
func InitLogger() {
	opts := GetSlogHandlerOptions(logLevelFromEnv())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(logger)
}

// NewLogger creates a configured logger instance
func NewLogger(serviceName string) *slog.Logger {
	opts := GetSlogHandlerOptions(logLevelFromEnv())
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler).With("service", serviceName)
}

func logLevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewService initializes all standard dependencies
func NewService(ctx context.Context) (*Service, error) {
	InitLogger()
	cfg := LoadConfig()

	slog.Info("Initializing service", "project_id", cfg.ProjectID)

	svc := &Service{
		Config:  cfg,
		Secrets: &secrets.SecretManagerAdapter{},
	}

	// Execution records
	if cfg.EnableExecutionLog {
		fsClient, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			slog.Error("Firestore init failed", "error", err)
			return nil, fmt.Errorf("firestore init: %w", err)
		}
		svc.DB = &database.FirestoreAdapter{Client: fsClient}
		slog.Info("Execution log: REAL (ENABLE_EXECUTION_LOG=true)")
	} else {
		svc.DB = &database.LogDatabase{}
		slog.Info("Execution log: MOCK (set ENABLE_EXECUTION_LOG=true for real)")
	}

	// Pub/Sub
	if cfg.EnablePublish {
		psClient, err := pubsub.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			slog.Error("PubSub init failed", "error", err)
			return nil, fmt.Errorf("pubsub init: %w", err)
		}
		svc.Pub = &infrapubsub.PubSubAdapter{Client: psClient}
		slog.Info("Pub/Sub: REAL (ENABLE_PUBLISH=true)")
	} else {
		svc.Pub = &infrapubsub.LogPublisher{}
		slog.Info("Pub/Sub: MOCK (set ENABLE_PUBLISH=true for real)")
	}

	// Snapshot + state storage
	if cfg.SnapshotBucket != "" {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			slog.Error("Storage init failed", "error", err)
			return nil, fmt.Errorf("storage init: %w", err)
		}
		svc.Store = &infrastorage.GCSAdapter{Client: gcsClient}
		slog.Info("Storage: GCS", "bucket", cfg.SnapshotBucket)
	} else {
		svc.Store = &infrastorage.LocalAdapter{Root: cfg.SnapshotDir}
		slog.Info("Storage: local", "dir", cfg.SnapshotDir)
	}

	// Sheets + Drive
	keyJSON, err := loadSheetsCredentials(ctx, cfg, svc.Secrets)
	if err != nil {
		return nil, err
	}
	if keyJSON == nil {
		slog.Warn("No Sheets credentials configured; spreadsheet export unavailable")
		return svc, nil
	}

	creds, err := google.CredentialsFromJSON(ctx, keyJSON, sheets.SpreadsheetsScope, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}
	sheetsSvc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("sheets init: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("drive init: %w", err)
	}
	svc.Sheets = sheetsSvc
	svc.Drive = driveSvc

	return svc, nil
}

// loadSheetsCredentials resolves the service account key from a local file
// or Secret Manager. Returns nil when neither source is configured.
func loadSheetsCredentials(ctx context.Context, cfg *Config, store shared.SecretStore) ([]byte, error) {
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	}
	if cfg.CredentialsSecret != "" {
		secret, err := store.GetSecret(ctx, cfg.ProjectID, cfg.CredentialsSecret)
		if err != nil {
			return nil, fmt.Errorf("fetch credentials secret: %w", err)
		}
		return []byte(secret), nil
	}
	return nil, nil
}
