package agent

import "github.com/resumeforge/portfolio-agent/internal/models"

// Status tracks pipeline progress for a single resume.
type Status string

const (
	StatusInitialized  Status = "initialized"
	StatusPDFExtracted Status = "pdf_extracted"
	StatusLLMProcessed Status = "llm_processed"
	StatusCompleted    Status = "completed"
	StatusError        Status = "error"
)

// State is the transient per-request record carried through the pipeline.
// Stages receive it by value and return an amended copy, so a stage can
// never observe a partially mutated state from another stage.
type State struct {
	Content  string
	RawBytes []byte
	Result   *models.Portfolio
	Links    []string
	Err      string
	Status   Status
}

func (s State) failed() bool { return s.Status == StatusError }

func (s State) fail(msg string) State {
	s.Err = msg
	s.Status = StatusError
	return s
}
