package files

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the caller. Each kind maps to exactly one
// HTTP status in pkg/api.
type Kind int

const (
	// KindInternal is an I/O or decoding failure (500).
	KindInternal Kind = iota

	// KindNotFound means the file is absent or not a regular file (404).
	KindNotFound

	// KindConflict means a named create found the name taken (409).
	KindConflict

	// KindInvalidRequest covers a missing content field, an unsafe name or a
	// disallowed extension (400).
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindInvalidRequest:
		return "InvalidRequest"
	default:
		return "InternalError"
	}
}

// Standard client-facing messages.
const (
	MsgNotFound           = "File not found"
	MsgAlreadyExists      = "File already exists"
	MsgMissingContent     = "Missing content in request body"
	MsgUnsupportedType    = "File is not a text file or unsupported type"
	MsgCreatedAnonymously = "File created successfully."
)

// Error is the only error type returned by Service methods.
//
// Message is safe to show to clients. Err, when set, is the underlying cause
// and is available through errors.Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err. Errors that are not *Error are Internal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// internalError wraps an unexpected failure. The cause text becomes the
// client message, matching what the service has always reported on 500s.
func internalError(cause error) *Error {
	return &Error{Kind: KindInternal, Message: cause.Error(), Err: cause}
}
