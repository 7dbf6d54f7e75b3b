package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/joho/godotenv"

	"github.com/resumeforge/portfolio-agent/internal/agent"
	"github.com/resumeforge/portfolio-agent/internal/gcs"
	"github.com/resumeforge/portfolio-agent/internal/gemini"
	"github.com/resumeforge/portfolio-agent/internal/generator"
	"github.com/resumeforge/portfolio-agent/internal/server"
)

var (
	apiServer *server.Server
	once      sync.Once
	initErr   error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	// Register the HTTP function with the framework.
	functions.HTTP("PortfolioAPI", handlePortfolioAPI)
}

// main is required by the Go Functions Framework.
func main() {}

// handlePortfolioAPI is the HTTP entry point for the resume API.
func handlePortfolioAPI(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		apiServer, initErr = newServer(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	apiServer.ServeHTTP(w, r)
}

// newServer wires the pipeline and, when configured, the archive
// generator. A rejected generator configuration disables only the
// generation endpoint; resume processing stays available.
func newServer(ctx context.Context) (*server.Server, error) {
	geminiClient, err := gemini.NewClient(ctx, gemini.Config{
		APIKey: gcs.GetEnv("GOOGLE_API_KEY", ""),
		Model:  gcs.GetEnv("GEMINI_MODEL", ""),
	})
	if err != nil {
		return nil, err
	}

	var archiveGen server.ArchiveGenerator
	gen, err := generator.New(ctx, generator.Config{
		Repo:   gcs.GetEnv("GITHUB_REPO", ""),
		Token:  gcs.GetEnv("GITHUB_TOKEN", ""),
		Branch: gcs.GetEnv("GITHUB_BRANCH", "main"),
	})
	if err != nil {
		slog.Warn("Portfolio generation disabled", "error", err)
	} else {
		archiveGen = gen
	}

	return server.New(agent.New(geminiClient), archiveGen), nil
}
