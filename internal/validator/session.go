// Package validator drives the derivative engine against one document's
// event sequence. A Session owns a stack of pattern frames, one per open
// element; the compiled pattern graph it reads is shared and immutable.
package validator

import (
	"github.com/relaxml/rng/errors"
	"github.com/relaxml/rng/internal/pattern"
	"github.com/relaxml/rng/pkg/nameclass"
)

// Session holds per-document validation state. Sessions are not safe for
// concurrent use; many sessions may validate against one builder in
// parallel.
type Session struct {
	b           *pattern.Builder
	start       pattern.ID
	doc         pattern.ID
	frames      []frame
	violations  []errors.Validation
	path        pathStack
	rootSeen    bool
	rootDamaged bool
}

// frame groups per-element state kept on the streaming stack: the current
// residual pattern, buffered character data, and recovery flags.
type frame struct {
	name      nameclass.QName
	pat       pattern.ID
	textBuf   []byte
	textLine  int
	textCol   int
	line      int
	col       int
	hasText   bool
	sawText   bool
	attrsOpen bool
	invalid   bool
	recovered bool
}

// NewSession creates a validation session starting from the schema start
// pattern.
func NewSession(b *pattern.Builder, start pattern.ID) *Session {
	s := &Session{b: b, start: start}
	s.Reset()
	return s
}

// Reset clears per-document state for reuse.
func (s *Session) Reset() {
	s.frames = s.frames[:0]
	s.violations = s.violations[:0]
	s.path.reset()
	s.doc = s.start
	s.rootSeen = false
	s.rootDamaged = false
}

// Violations returns the errors recorded so far.
func (s *Session) Violations() []errors.Validation {
	return s.violations
}

func (s *Session) top() *frame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

func (s *Session) currentPat() pattern.ID {
	if f := s.top(); f != nil {
		return f.pat
	}
	return s.doc
}

func (s *Session) record(code errors.ErrorCode, line, col int, format string, args ...any) {
	v := errors.NewValidationf(code, s.path.String(), format, args...)
	v.Line = line
	v.Column = col
	s.violations = append(s.violations, v)
}
