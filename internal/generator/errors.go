package generator

import (
	"errors"
	"fmt"
)

// ErrEmptyTemplate means no file at all could be copied out of the
// downloaded template; the template is unusable.
var ErrEmptyTemplate = errors.New("no files were copied from the template repository")

// ConfigurationError reports missing or unusable generator settings,
// detected once at startup. The generator stays unavailable; the rest of
// the system keeps working.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// TemplateFetchError reports a failed template download: transport error,
// timeout, non-2xx status or unexpected content type.
type TemplateFetchError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *TemplateFetchError) Error() string {
	msg := "could not retrieve portfolio template"
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TemplateFetchError) Unwrap() error { return e.Err }

// InvalidArchiveError means the downloaded template is not a readable zip.
type InvalidArchiveError struct {
	Err error
}

func (e *InvalidArchiveError) Error() string {
	return fmt.Sprintf("downloaded template is not a valid zip file: %v", e.Err)
}

func (e *InvalidArchiveError) Unwrap() error { return e.Err }
