package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransient marks failures worth retrying: network trouble, 5xx
	// responses, timeouts.
	ErrTransient = errors.New("transient failure")
	// ErrInvalidRequest marks failures the caller must fix: rejected
	// payloads, bad identifiers, auth problems.
	ErrInvalidRequest = errors.New("invalid request")
)

// Wrap builds an error message that includes call context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether a client error is worth retrying. Untagged
// errors count as retryable so an unclassified network hiccup does not kill
// a tracking loop.
func Retryable(err error) bool {
	return !errors.Is(err, ErrInvalidRequest)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
