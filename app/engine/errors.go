package engine

import (
	"fmt"
	"strings"
)

// NotFoundError reports a named component missing from the catalog
type NotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("component %q not found", e.Name)
	}
	return fmt.Sprintf("component %q not found, did you mean: %s", e.Name, strings.Join(e.Suggestions, ", "))
}

// InvalidInputError reports a missing or malformed request parameter
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid input for %s: %s", e.Field, e.Message)
}

// UpstreamError wraps a failure of a remote catalog service
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s failed with status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func required(field string) error {
	return &InvalidInputError{Field: field, Message: field + " is required"}
}
