package fhir

import (
	"errors"
	"fmt"
	"net/http"
)

// Caller-input errors, detected before any network call.
var (
	ErrConfigRequired            = errors.New("config is required")
	ErrEndpointRequired          = errors.New("endpoint is required")
	ErrMalformedCriteria         = errors.New("criterium has no '=' separator")
	ErrConflictingCriteriaSource = errors.New("raw criteria and structured query are mutually exclusive")
	ErrConflictingRequestIntent  = errors.New("operation invocation and criteria-based search are mutually exclusive")
	ErrInvalidQueryObject        = errors.New("structured query object is required")
	ErrOperationNameRequired     = errors.New("operation name is required")
	ErrNotABundle                = errors.New("document is not a Bundle")
	ErrMissingResourceType       = errors.New("resource has no resourceType")
	ErrMissingResourceID         = errors.New("resource has no id")
)

// Construction-time errors from capability negotiation.
var (
	ErrConnectionFailed   = errors.New("capability statement could not be retrieved")
	ErrUnsupportedVersion = errors.New("server FHIR version is not supported")
)

// ErrInvalidJSON indicates a response body that failed to parse.
var ErrInvalidJSON = errors.New("response body is not valid JSON")

// ResponseError represents a non-success status reported by the server.
// Outcome holds the OperationOutcome document when the error body parsed as
// one; it is nil otherwise.
type ResponseError struct {
	StatusCode int
	Outcome    Document
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	if diag := e.Diagnostics(); diag != "" {
		return fmt.Sprintf("server returned status %d: %s", e.StatusCode, diag)
	}

	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Diagnostics returns the first issue diagnostics from the OperationOutcome,
// or "" when none is available.
func (e *ResponseError) Diagnostics() string {
	if e.Outcome == nil {
		return ""
	}

	issues, _ := e.Outcome["issue"].([]interface{})
	for _, raw := range issues {
		issue, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		if diag, ok := issue["diagnostics"].(string); ok && diag != "" {
			return diag
		}
	}

	return ""
}

// StatusCode extracts the HTTP status from an error, or 0 when the error is
// not a ResponseError.
func StatusCode(err error) int {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}

	return 0
}

// IsNotFound checks if the error is a not found response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is an unauthorized response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsUnsupportedVersion checks if the error came from version negotiation.
func IsUnsupportedVersion(err error) bool {
	return errors.Is(err, ErrUnsupportedVersion)
}
