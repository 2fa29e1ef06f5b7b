package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jwpark-data/subsync/pkg/log"
)

type ErrorType int

const (
	ErrFileNotFound ErrorType = iota
	ErrFileRead
	ErrFileWrite
	ErrParse
	ErrSyncMismatch
	ErrValidation
	ErrConfig
	ErrUnknown
)

// PipelineError carries the error class plus enough context (file identity,
// cue counts) to diagnose a failed run without re-running with extra
// instrumentation.
type PipelineError struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *PipelineError {
	return &PipelineError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *PipelineError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		var ctxParts []string
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func (e *PipelineError) WithContext(key string, value any) *PipelineError {
	e.Context[key] = value
	return e
}

func (t ErrorType) String() string {
	switch t {
	case ErrFileNotFound:
		return "FileNotFound"
	case ErrFileRead:
		return "FileRead"
	case ErrFileWrite:
		return "FileWrite"
	case ErrParse:
		return "Parse"
	case ErrSyncMismatch:
		return "SyncMismatch"
	case ErrValidation:
		return "Validation"
	case ErrConfig:
		return "Config"
	default:
		return "Unknown"
	}
}

type ErrorHandler interface {
	Handle(err error) bool
	GetAdvice(err *PipelineError) string
}

type DefaultErrorHandler struct{}

func NewDefaultErrorHandler() ErrorHandler {
	return &DefaultErrorHandler{}
}

func (h *DefaultErrorHandler) Handle(err error) bool {
	var pipeErr *PipelineError
	if !errors.As(err, &pipeErr) {
		log.Error("Unknown Error: %v", err)
		return false
	}

	advice := h.GetAdvice(pipeErr)
	log.Error("Error Detail: %v\n advice: %s", err, advice)

	return true
}

// GetAdvice returns error handling advice
func (h *DefaultErrorHandler) GetAdvice(err *PipelineError) string {
	switch err.Type {
	case ErrFileNotFound:
		return "Check that both language files of the pair exist in the input directory and follow the <base><suffix>.vtt naming"
	case ErrFileRead:
		return "Check file permissions and verify the file is not corrupted"
	case ErrFileWrite:
		return "The processed result was computed but could not be written; ensure the output directory exists and is writable, then retry"
	case ErrParse:
		return "Verify the file is VTT with HH:MM:SS.mmm --> HH:MM:SS.mmm timing lines"
	case ErrSyncMismatch:
		return "The two tracks have different cue counts and cannot be aligned positionally; inspect both files manually before retrying"
	case ErrValidation:
		return "Verify input parameters are correct"
	case ErrConfig:
		return "Check that configuration files or environment variables are set correctly"
	default:
		return "Review detailed error information and check relevant configuration and files"
	}
}

func IsErrorType(err error, errorType ErrorType) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Type == errorType
	}
	return false
}

func WrapError(err error, errorType ErrorType, message string) *PipelineError {
	return NewErrorWithCause(errorType, message, err)
}
