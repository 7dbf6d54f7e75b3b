package agent

import "errors"

// ErrEmptyDocument means text extraction produced nothing; the pipeline
// never starts in that case.
var ErrEmptyDocument = errors.New("could not extract text from PDF")

// PipelineError is the terminal failure of a pipeline run, carrying the
// first error message captured by a stage.
type PipelineError struct {
	Message string
}

func (e *PipelineError) Error() string { return e.Message }
