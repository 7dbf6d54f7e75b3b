// Package watcher processes resumes dropped into a GCS bucket: it dedupes
// by content hash, runs the extraction pipeline and writes the resulting
// portfolio JSON to an output bucket, tracking progress in Firestore.
package watcher

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"

	"github.com/resumeforge/portfolio-agent/internal/gcs"
	"github.com/resumeforge/portfolio-agent/internal/models"
)

// ResumeProcessor runs the extraction pipeline; implemented by agent.Agent.
type ResumeProcessor interface {
	ProcessResume(ctx context.Context, pdfBytes []byte) (*models.Portfolio, error)
}

// Config holds all settings for the watcher service.
type Config struct {
	ProjectID       string
	PortfolioBucket string
	CollectionName  string
}

// Watcher holds the dependencies for batch resume processing.
type Watcher struct {
	storageClient   *storage.Client
	firestoreClient *firestore.Client
	processor       ResumeProcessor
	config          Config
}

// GCSEvent is the payload of a GCS object-finalize event.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// loadConfig loads and validates the environment for this service.
func loadConfig() (*Config, error) {
	projectID := gcs.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	portfolioBucket := gcs.GetEnv("PORTFOLIO_BUCKET", "")
	if portfolioBucket == "" {
		return nil, fmt.Errorf("PORTFOLIO_BUCKET environment variable must be set")
	}

	return &Config{
		ProjectID:       projectID,
		PortfolioBucket: portfolioBucket,
		CollectionName:  gcs.GetEnv("FIRESTORE_COLLECTION", "resumes"),
	}, nil
}

// New creates a Watcher instance.
func New(ctx context.Context, processor ResumeProcessor) (*Watcher, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	firestoreClient, err := gcs.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, err
	}

	slog.Info("watcher.initialized", "portfolioBucket", config.PortfolioBucket)
	return &Watcher{
		storageClient:   storageClient,
		firestoreClient: firestoreClient,
		processor:       processor,
		config:          *config,
	}, nil
}

// Process handles one uploaded object end to end.
func (w *Watcher) Process(ctx context.Context, e GCSEvent) error {
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", e.Name)

	if !strings.HasSuffix(strings.ToLower(e.Name), ".pdf") {
		logCtx.Info("watcher.skipped", "reason", "not a PDF")
		return nil
	}
	logCtx.Info("watcher.processing")

	pdfBytes, err := w.readObject(ctx, e.Bucket, e.Name)
	if err != nil {
		logCtx.Error("watcher.download_failed", "error", err)
		return err
	}

	sum := sha256.Sum256(pdfBytes)
	fileHash := hex.EncodeToString(sum[:])
	logCtx = logCtx.With("fileHash", fileHash)

	isDuplicate, existingID, err := w.isDuplicate(ctx, fileHash)
	if err != nil {
		logCtx.Error("watcher.dedupe_failed", "error", err)
		return err
	}
	if isDuplicate {
		logCtx.Info("watcher.duplicate_skipped", "existingJobId", existingID)
		return nil
	}

	jobRef, err := w.createJob(ctx, fileHash, e.Name)
	if err != nil {
		logCtx.Error("watcher.job_create_failed", "error", err)
		return err
	}
	logCtx = logCtx.With("jobId", jobRef.ID)

	portfolio, err := w.processor.ProcessResume(ctx, pdfBytes)
	if err != nil {
		return w.handleError(ctx, logCtx, jobRef, "resume processing failed", err)
	}

	data, err := json.MarshalIndent(portfolio, "", "    ")
	if err != nil {
		return w.handleError(ctx, logCtx, jobRef, "failed to serialize portfolio", err)
	}

	objectName := fmt.Sprintf("portfolios/%s.json", jobRef.ID)
	bucketHandle := w.storageClient.Bucket(w.config.PortfolioBucket)
	if err := gcs.SaveToGCSAtomically(ctx, bucketHandle, objectName, string(data)); err != nil {
		return w.handleError(ctx, logCtx, jobRef, "failed to save portfolio", err)
	}

	updates := []firestore.Update{
		{Path: "status", Value: "COMPLETED"},
		{Path: "portfolioObject", Value: objectName},
	}
	if _, err := jobRef.Update(ctx, updates); err != nil {
		logCtx.Error("watcher.status_update_failed", "error", err)
		return err
	}

	logCtx.Info("watcher.done", "portfolioObject", objectName)
	return nil
}

func (w *Watcher) readObject(ctx context.Context, bucket, object string) ([]byte, error) {
	reader, err := w.storageClient.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for gs://%s/%s: %w", bucket, object, err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("failed to read GCS object: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *Watcher) isDuplicate(ctx context.Context, fileHash string) (bool, string, error) {
	docs, err := w.firestoreClient.Collection(w.config.CollectionName).Where("fileHash", "==", fileHash).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return false, "", fmt.Errorf("failed to query for duplicates: %w", err)
	}
	if len(docs) > 0 {
		return true, docs[0].Ref.ID, nil
	}
	return false, "", nil
}

func (w *Watcher) createJob(ctx context.Context, fileHash, filename string) (*firestore.DocumentRef, error) {
	job := models.ResumeJob{
		FileHash:         fileHash,
		OriginalFilename: filename,
		Status:           "PROCESSING",
		CreatedAt:        time.Now(),
	}
	jobRef, _, err := w.firestoreClient.Collection(w.config.CollectionName).Add(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume job: %w", err)
	}
	return jobRef, nil
}

func (w *Watcher) handleError(ctx context.Context, logCtx *slog.Logger, jobRef *firestore.DocumentRef, message string, originalErr error) error {
	fullError := fmt.Sprintf("%s: %v", message, originalErr)
	logCtx.Error(message, "error", originalErr)
	updates := []firestore.Update{
		{Path: "status", Value: "FAILED"},
		{Path: "errorDetails", Value: fullError},
	}
	if _, err := jobRef.Update(ctx, updates); err != nil {
		logCtx.Error("watcher.status_update_failed", "updateError", err)
	}
	return fmt.Errorf("%s", fullError)
}
