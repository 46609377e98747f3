// Package errors defines the error types shared across the pipeline and its
// HTTP surface. Row-level anomalies never become errors; only structural
// failures do, and those always name the stage that raised them.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// StageError is a structural pipeline failure attributed to one stage
// (extract, transform, derive, aggregate, export, load). It aborts the
// batch; the stage name makes the diagnostic actionable.
type StageError struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStage wraps err as a structural failure of the named stage.
func NewStage(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// Stagef wraps a formatted message as a structural failure of the named
// stage.
func Stagef(stage, format string, args ...interface{}) *StageError {
	return &StageError{Stage: stage, Err: fmt.Errorf(format, args...)}
}

// StageOf returns the stage name carried by err, if any.
func StageOf(err error) (string, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// APIError is a structured HTTP error response.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Predefined API errors for the report surface.
var (
	ErrReportNotFound = New(http.StatusNotFound, "REPORT_NOT_FOUND", "No report with that name")
	ErrNotReady       = New(http.StatusServiceUnavailable, "PIPELINE_NOT_READY", "Pipeline has not completed a run yet")
	ErrInternal       = New(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
)

// NotFoundf builds a 404 APIError with a formatted message.
func NotFoundf(code, format string, args ...interface{}) *APIError {
	return New(http.StatusNotFound, code, fmt.Sprintf(format, args...))
}
