// Package agent runs the resume extraction pipeline: a fixed sequence of
// stages that extract document links, invoke the structured-extraction
// model and validate the merged result.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/resumeforge/portfolio-agent/internal/models"
	"github.com/resumeforge/portfolio-agent/internal/pdf"
)

// StructuredExtractor converts resume text plus detected links into a
// Portfolio record. Implemented by gemini.Client; faked in tests.
type StructuredExtractor interface {
	Extract(ctx context.Context, resumeText string, links []string) (*models.Portfolio, error)
}

// Agent owns the pipeline. One Agent serves any number of concurrent
// ProcessResume calls; each call gets its own State.
type Agent struct {
	extractor StructuredExtractor

	// Extraction hooks, swapped out in tests.
	extractText  func([]byte) string
	extractLinks func([]byte) []string
}

// New creates an Agent backed by the given extractor.
func New(extractor StructuredExtractor) *Agent {
	return &Agent{
		extractor:    extractor,
		extractText:  pdf.ExtractText,
		extractLinks: pdf.ExtractLinks,
	}
}

type stage struct {
	name string
	run  func(context.Context, State) State
}

// ProcessResume extracts a Portfolio from raw PDF bytes. It fails with
// ErrEmptyDocument when no text can be extracted and with *PipelineError
// when any stage fails; it never returns a partial result.
func (a *Agent) ProcessResume(ctx context.Context, pdfBytes []byte) (*models.Portfolio, error) {
	content := a.extractText(pdfBytes)
	if content == "" {
		return nil, ErrEmptyDocument
	}

	logCtx := slog.With("runId", uuid.NewString())
	st := State{
		Content:  content,
		RawBytes: pdfBytes,
		Status:   StatusInitialized,
	}

	stages := []stage{
		{"extract_pdf", a.extractStage},
		{"process_with_llm", a.llmStage},
		{"validate_output", a.validateStage},
	}
	for _, s := range stages {
		st = s.run(ctx, st)
		logCtx.Info("pipeline.stage", "stage", s.name, "status", st.Status)
	}

	if st.Status == StatusError {
		logCtx.Error("pipeline.failed", "error", st.Err)
		return nil, &PipelineError{Message: st.Err}
	}
	if st.Result == nil {
		return nil, &PipelineError{Message: "no data was extracted from the resume"}
	}
	return st.Result, nil
}

// extractStage collects link annotations from the raw document. Link
// extraction is best-effort and cannot fail the stage on its own.
func (a *Agent) extractStage(_ context.Context, st State) State {
	if st.failed() {
		return st
	}
	if st.Content == "" {
		return st.fail("No PDF content provided")
	}
	if len(st.RawBytes) > 0 {
		st.Links = a.extractLinks(st.RawBytes)
	} else {
		st.Links = nil
	}
	st.Status = StatusPDFExtracted
	return st
}

// llmStage invokes the structured-extraction model.
func (a *Agent) llmStage(ctx context.Context, st State) State {
	if st.failed() {
		return st
	}
	result, err := a.extractor.Extract(ctx, st.Content, st.Links)
	if err != nil {
		return st.fail(fmt.Sprintf("LLM processing failed: %v", err))
	}
	st.Result = result
	st.Status = StatusLLMProcessed
	return st
}

// validateStage checks the model produced a record and merges in the
// deterministically extracted links. A non-empty extracted list always
// replaces whatever the model put in pdfLinks; an empty list leaves the
// model's value untouched.
func (a *Agent) validateStage(_ context.Context, st State) State {
	if st.failed() {
		return st
	}
	if st.Result == nil {
		return st.fail("No data extracted")
	}
	if len(st.Links) > 0 {
		st.Result.PdfLinks = st.Links
	}
	st.Status = StatusCompleted
	return st
}
