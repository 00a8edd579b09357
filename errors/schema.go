package errors

import (
	"errors"
	"fmt"
)

// Schema build error codes. These are fatal at schema-compile time; no
// partially built grammar is ever handed to a validation session.
const (
	// ErrInterleaveText indicates both operands of an interleave contain text.
	ErrInterleaveText ErrorCode = "rng-interleave-text"
	// ErrInterleaveString indicates an interleave combines string-distinguishing patterns.
	ErrInterleaveString ErrorCode = "rng-interleave-string"
	// ErrUnboundRef indicates a grammar reference has no definition.
	ErrUnboundRef ErrorCode = "rng-unbound-ref"
	// ErrBadDefine indicates a definition does not resolve to an element pattern.
	ErrBadDefine ErrorCode = "rng-bad-define"
	// ErrBadContent indicates a pattern was used in a position its content type forbids.
	ErrBadContent ErrorCode = "rng-bad-content"
	// ErrLimitExceeded indicates a configured compilation limit was exceeded.
	ErrLimitExceeded ErrorCode = "rng-limit-exceeded"
)

// SchemaError reports a fatal schema construction failure.
type SchemaError struct {
	Code    ErrorCode
	Message string
}

// Error formats the schema error with its code.
func (e *SchemaError) Error() string {
	if e == nil {
		return "schema error <nil>"
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewSchemaError builds a SchemaError with a formatted message.
func NewSchemaError(code ErrorCode, format string, args ...any) *SchemaError {
	return &SchemaError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsSchemaError extracts a SchemaError from err, if present.
func AsSchemaError(err error) (*SchemaError, bool) {
	if err == nil {
		return nil, false
	}
	var se *SchemaError
	if errors.As(err, &se) && se != nil {
		return se, true
	}
	return nil, false
}
