package errors

import (
	"fmt"

	"genoscope/models/constants"
	errorKind "genoscope/models/constants/error-kind"
)

/*
	Utility constructors to facillitate returning taxonomy-coded
	errors from tool handlers and transports
*/

type ToolError struct {
	Kind    constants.ErrorKind `json:"kind"`
	Message string              `json:"message"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewInvalidParams(message string) *ToolError {
	return &ToolError{Kind: errorKind.InvalidParams, Message: message}
}

func NewNotFound(message string) *ToolError {
	return &ToolError{Kind: errorKind.NotFound, Message: message}
}

func NewUnavailable(message string) *ToolError {
	return &ToolError{Kind: errorKind.Unavailable, Message: message}
}

func NewTimeout(message string) *ToolError {
	return &ToolError{Kind: errorKind.Timeout, Message: message}
}

func NewUpstream(message string) *ToolError {
	return &ToolError{Kind: errorKind.Upstream, Message: message}
}

func NewInternal(message string) *ToolError {
	return &ToolError{Kind: errorKind.Internal, Message: message}
}

// KindOf classifies an arbitrary handler error: taxonomy errors pass
// through, anything else is an internal programming error.
func KindOf(err error) constants.ErrorKind {
	if te, ok := err.(*ToolError); ok {
		return te.Kind
	}
	return errorKind.Internal
}
