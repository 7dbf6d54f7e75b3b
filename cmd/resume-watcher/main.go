package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/joho/godotenv"

	"github.com/resumeforge/portfolio-agent/internal/agent"
	"github.com/resumeforge/portfolio-agent/internal/gcs"
	"github.com/resumeforge/portfolio-agent/internal/gemini"
	"github.com/resumeforge/portfolio-agent/internal/watcher"
)

var (
	watcherInstance *watcher.Watcher
	once            sync.Once
	initErr         error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	// Register the CloudEvent function. The framework routes GCS
	// object-finalize events here.
	functions.CloudEvent("ProcessResumeUpload", processResumeUpload)
}

// main is required by the Go Functions Framework.
func main() {}

// processResumeUpload is the Cloud Function entry point.
func processResumeUpload(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		watcherInstance, initErr = newWatcher(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var gcsEvent watcher.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return watcherInstance.Process(ctx, gcsEvent)
}

func newWatcher(ctx context.Context) (*watcher.Watcher, error) {
	geminiClient, err := gemini.NewClient(ctx, gemini.Config{
		APIKey: gcs.GetEnv("GOOGLE_API_KEY", ""),
		Model:  gcs.GetEnv("GEMINI_MODEL", ""),
	})
	if err != nil {
		return nil, err
	}
	return watcher.New(ctx, agent.New(geminiClient))
}
