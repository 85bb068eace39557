package ai

import (
	"errors"
	"fmt"
)

// Kind names one failure class of the provider/orchestration pipeline.
// Callers match on Kind instead of sniffing error strings.
type Kind string

const (
	KindMissingAPIKey         Kind = "missing_api_key"
	KindTransport             Kind = "transport_error"
	KindAPI                   Kind = "api_error"
	KindInvalidResponse       Kind = "invalid_response"
	KindJSON                  Kind = "json_error"
	KindEmptyContent          Kind = "empty_content"
	KindFeaturesDisabled      Kind = "features_disabled"
	KindCategoryParse         Kind = "category_parse_error"
	KindNoCategoriesAvailable Kind = "no_categories_available"
	KindNoCategoriesFound     Kind = "no_categories_found"
)

// Error is the tagged failure returned by every I/O-performing function
// in this package. Status carries the upstream HTTP status for KindAPI.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func missingAPIKeyError() *Error {
	return newError(KindMissingAPIKey, "API key is required")
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: "request to AI provider failed", cause: err}
}

func apiError(status int) *Error {
	return &Error{Kind: KindAPI, Status: status, Message: fmt.Sprintf("API returned status %d", status)}
}

func invalidResponseError() *Error {
	return newError(KindInvalidResponse, "invalid API response")
}

func jsonError(err error) *Error {
	return &Error{Kind: KindJSON, Message: "failed to parse API response", cause: err}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
