// Package errors maps dashboard failures onto RFC 7807 problem responses.
package errors

import (
	"fmt"
	"net/http"
)

// APIError is a failure with a fixed place in the problem catalogue.
type APIError struct {
	Status  int
	Type    string
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	return e.Message
}

// Problem converts the error into a problem body for instance.
func (e *APIError) Problem(instance string) *ProblemDetails {
	pd := NewProblemDetails(e.Status, e.Type, "", e.Message, instance).
		WithExtension("error_code", e.Code)
	switch d := e.Details.(type) {
	case nil:
	case []ValidationError:
		pd.WithExtension("errors", d)
	default:
		pd.WithExtension("details", d)
	}
	return pd
}

// Error codes, one per catalogue entry.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeDatasetUnavailable = "DATASET_UNAVAILABLE"
	CodeUnknownColumn      = "UNKNOWN_COLUMN"
	CodeNotNumeric         = "COLUMN_NOT_NUMERIC"
	CodeUnknownView        = "UNKNOWN_VIEW"
	CodeViewSkipped        = "VIEW_SKIPPED"
	CodeUnsupportedFormat  = "UNSUPPORTED_FORMAT"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

var (
	// ErrDatasetUnavailable is returned while no candidate path loads.
	ErrDatasetUnavailable = &APIError{
		Status:  http.StatusServiceUnavailable,
		Type:    TypeDataNotFound,
		Code:    CodeDatasetUnavailable,
		Message: "No dataset could be loaded from any candidate path",
	}
	// ErrServiceUnavailable is returned when a dependency is not wired.
	ErrServiceUnavailable = &APIError{
		Status:  http.StatusServiceUnavailable,
		Type:    TypeServiceDown,
		Code:    CodeServiceUnavailable,
		Message: "Service temporarily unavailable",
	}
)

// ValidationError describes one rejected widget or request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidationErrors reports every rejected field at once.
func NewValidationErrors(errs []ValidationError) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Type:    TypeValidation,
		Code:    CodeValidationFailed,
		Message: "Request validation failed",
		Details: errs,
	}
}

// UnknownColumnError reports a column the loaded table does not have.
func UnknownColumnError(column string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Type:    TypeColumnNotFound,
		Code:    CodeUnknownColumn,
		Message: fmt.Sprintf("column %q is not present in the dataset", column),
		Details: column,
	}
}

// NotNumericError reports a metric column holding text values.
func NotNumericError(column string) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Type:    TypeColumnNotNumeric,
		Code:    CodeNotNumeric,
		Message: fmt.Sprintf("column %q is not numeric", column),
		Details: column,
	}
}

// UnknownViewError reports a view or chart name that does not exist.
func UnknownViewError(name string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Type:    TypeViewNotFound,
		Code:    CodeUnknownView,
		Message: fmt.Sprintf("unknown view %q", name),
		Details: name,
	}
}

// UnsupportedFormatError reports an export or chart format that is not offered.
func UnsupportedFormatError(format string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Type:    TypeUnsupportedFormat,
		Code:    CodeUnsupportedFormat,
		Message: fmt.Sprintf("unsupported format %q", format),
		Details: format,
	}
}

// ViewSkippedError reports a view that could not be built from the loaded columns.
func ViewSkippedError(view, reason string) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Type:    TypeViewSkipped,
		Code:    CodeViewSkipped,
		Message: fmt.Sprintf("view %s skipped: %s", view, reason),
		Details: map[string]string{"view": view, "reason": reason},
	}
}
