// internal/common/errors/errors.go

// Package errors provides standardized error types shared by the engine
// boundary layers. The numerical core itself degrades instead of erroring:
// missing data becomes neutral defaults and estimator failures fall back to
// the deterministic formula, so these codes surface only at the edges
// (transport, artifact loading, cache).
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidBundle        ErrorCode = "INVALID_EVENT_BUNDLE"
	ErrCodeSchemaValidation     ErrorCode = "SCHEMA_VALIDATION_FAILED"
	ErrCodeEstimatorLoadFailed  ErrorCode = "ESTIMATOR_LOAD_FAILED"
	ErrCodeEstimatorPredict     ErrorCode = "ESTIMATOR_PREDICT_FAILED"
	ErrCodeCacheWriteFailed     ErrorCode = "CACHE_WRITE_FAILED"
	ErrCodeCacheUnavailable     ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeScoreNotFound        ErrorCode = "SCORE_NOT_FOUND"
	ErrCodeAnalysisFailed       ErrorCode = "ANALYSIS_FAILED"
	ErrCodeArtifactWriteFailed  ErrorCode = "ARTIFACT_WRITE_FAILED"
	ErrCodeTrainingDataTooSmall ErrorCode = "TRAINING_DATA_TOO_SMALL"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// New creates a StandardError with the given code and message.
func New(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidBundleError marks a request bundle the caller should fix.
func NewInvalidBundleError(details string) *StandardError {
	return New(ErrCodeInvalidBundle, "Event bundle failed validation", details, false)
}

// NewEstimatorLoadError marks a broken or missing estimator artifact.
// Retryable: a later reload may find a repaired artifact.
func NewEstimatorLoadError(details string) *StandardError {
	return New(ErrCodeEstimatorLoadFailed, "Could not load estimator artifact", details, true)
}

// NewScoreNotFoundError marks a cache miss on the read path.
func NewScoreNotFoundError(userID string) *StandardError {
	return New(ErrCodeScoreNotFound, "No cached score for user", userID, false)
}
