package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a class of RELAX NG validation failure.
type ErrorCode string

const (
	// ErrNoRoot indicates the document has no root element.
	ErrNoRoot ErrorCode = "rng-no-root"
	// ErrSchemaNotCompiled indicates validation was attempted without a compiled schema.
	ErrSchemaNotCompiled ErrorCode = "rng-schema-not-compiled"
	// ErrXMLParse indicates the document event stream could not be read.
	ErrXMLParse ErrorCode = "rng-xml-parse"

	// ErrUnknownElement indicates an element is not allowed by the grammar at its position.
	ErrUnknownElement ErrorCode = "rng-unknown-element"
	// ErrUnknownAttribute indicates an attribute is not allowed on its element.
	ErrUnknownAttribute ErrorCode = "rng-unknown-attribute"
	// ErrIncompleteContent indicates an element closed before its content model was satisfied.
	ErrIncompleteContent ErrorCode = "rng-incomplete-content"
	// ErrDatatypeMismatch indicates character data was rejected by a datatype or value pattern.
	ErrDatatypeMismatch ErrorCode = "rng-datatype-mismatch"
	// ErrRequiredAttributeMissing indicates a required attribute is absent.
	ErrRequiredAttributeMissing ErrorCode = "rng-required-attribute-missing"
	// ErrTextNotAllowed indicates non-whitespace text appeared in element-only content.
	ErrTextNotAllowed ErrorCode = "rng-text-not-allowed"
)

// Validation describes a single validation failure with an instance path and
// optional line/column context.
//
//nolint:errname // public API name uses the domain term.
type Validation struct {
	Code    string
	Message string
	Path    string
	Line    int
	Column  int
}

// ValidationList is an error that wraps one or more validation failures.
type ValidationList []Validation //nolint:errname // public API name, keep for compatibility.

// Error returns a compact summary of the validation errors.
func (v ValidationList) Error() string {
	switch len(v) {
	case 0:
		return "no validation errors"
	case 1:
		return v[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", v[0].Error(), len(v)-1)
	}
}

// Error formats the validation for display, including code, message, and context.
func (v *Validation) Error() string {
	if v == nil {
		return "validation <nil>"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", v.Code, v.Message))
	if v.Path != "" {
		b.WriteString(fmt.Sprintf(" at %s", v.Path))
	}
	if v.Line > 0 && v.Column > 0 {
		if v.Path == "" {
			b.WriteString(fmt.Sprintf(" at line %d, column %d", v.Line, v.Column))
		} else {
			b.WriteString(fmt.Sprintf(" (line %d, column %d)", v.Line, v.Column))
		}
	}
	return b.String()
}

// NewValidation builds a Validation with a code, message, and optional path.
func NewValidation(code ErrorCode, msg, path string) Validation {
	return Validation{Code: string(code), Message: msg, Path: path}
}

// NewValidationf formats a message and builds a Validation.
func NewValidationf(code ErrorCode, path, format string, args ...any) Validation {
	return NewValidation(code, fmt.Sprintf(format, args...), path)
}

// AsValidations extracts validation errors from an error returned by validation helpers.
func AsValidations(err error) ([]Validation, bool) {
	list, ok := asValidationList(err)
	if !ok {
		return nil, false
	}
	return []Validation(list), true
}

func asValidationList(err error) (ValidationList, bool) {
	if err == nil {
		return nil, false
	}
	var list ValidationList
	if errors.As(err, &list) {
		return list, true
	}

	var listPtr *ValidationList
	if errors.As(err, &listPtr) && listPtr != nil {
		return *listPtr, true
	}

	return nil, false
}
