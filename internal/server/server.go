// Package server is the thin HTTP surface over the two core operations:
// resume processing and portfolio archive generation. All semantics live
// in the services; handlers only translate requests and error kinds.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/resumeforge/portfolio-agent/internal/agent"
	"github.com/resumeforge/portfolio-agent/internal/generator"
	"github.com/resumeforge/portfolio-agent/internal/models"
)

// maxUploadBytes bounds the multipart form kept in memory.
const maxUploadBytes = 20 << 20

// ResumeProcessor runs the extraction pipeline.
type ResumeProcessor interface {
	ProcessResume(ctx context.Context, pdfBytes []byte) (*models.Portfolio, error)
}

// ArchiveGenerator packages a portfolio with the site template.
type ArchiveGenerator interface {
	Generate(ctx context.Context, portfolio *models.Portfolio) ([]byte, error)
}

// Server routes HTTP requests to the services. Generator may be nil when
// its configuration was rejected at startup; the endpoint then reports the
// service as not configured instead of failing the whole process.
type Server struct {
	processor ResumeProcessor
	generator ArchiveGenerator
	mux       *http.ServeMux
}

// New assembles the router.
func New(processor ResumeProcessor, gen ArchiveGenerator) *Server {
	s := &Server{processor: processor, generator: gen}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload-resume", s.handleUploadResume)
	mux.HandleFunc("POST /generate-portfolio", s.handleGeneratePortfolio)
	mux.HandleFunc("GET /health", s.handleHealth)
	s.mux = mux
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "a 'file' form field is required")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "Only PDF files are supported")
		return
	}

	pdfBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	portfolio, err := s.processor.ProcessResume(r.Context(), pdfBytes)
	if err != nil {
		status, msg := uploadErrorStatus(err)
		slog.Error("server.upload_failed", "error", err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, portfolio)
}

func (s *Server) handleGeneratePortfolio(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "portfolio generation is not configured")
		return
	}

	var portfolio models.Portfolio
	if err := json.NewDecoder(r.Body).Decode(&portfolio); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse portfolio JSON")
		return
	}

	archive, err := s.generator.Generate(r.Context(), &portfolio)
	if err != nil {
		status, msg := generateErrorStatus(err)
		slog.Error("server.generate_failed", "error", err)
		writeError(w, status, msg)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// uploadErrorStatus maps pipeline error kinds to response codes.
func uploadErrorStatus(err error) (int, string) {
	if errors.Is(err, agent.ErrEmptyDocument) {
		return http.StatusUnprocessableEntity, agent.ErrEmptyDocument.Error()
	}
	var pipeErr *agent.PipelineError
	if errors.As(err, &pipeErr) {
		return http.StatusInternalServerError, pipeErr.Message
	}
	return http.StatusInternalServerError, "resume processing failed"
}

// generateErrorStatus maps archive-merge error kinds to response codes.
func generateErrorStatus(err error) (int, string) {
	var fetchErr *generator.TemplateFetchError
	if errors.As(err, &fetchErr) {
		return http.StatusBadGateway, fetchErr.Error()
	}
	var archiveErr *generator.InvalidArchiveError
	if errors.As(err, &archiveErr) {
		return http.StatusBadGateway, archiveErr.Error()
	}
	if errors.Is(err, generator.ErrEmptyTemplate) {
		return http.StatusBadGateway, err.Error()
	}
	return http.StatusInternalServerError, "portfolio generation failed"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("server.encode_failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
