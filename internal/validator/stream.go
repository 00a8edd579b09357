package validator

import (
	stderrors "errors"
	"io"
	"strings"

	"github.com/relaxml/rng/errors"
	"github.com/relaxml/rng/internal/pattern"
	"github.com/relaxml/rng/pkg/nameclass"
	"github.com/relaxml/rng/pkg/xmlevents"
)

// ValidateEvents consumes a document event sequence until io.EOF and returns
// the accumulated violations. A non-nil error reports a broken event source,
// not a validation failure.
func (s *Session) ValidateEvents(src xmlevents.Source) ([]errors.Validation, error) {
	for {
		ev, err := src.Next()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s.violations, err
		}
		switch ev.Kind {
		case xmlevents.KindStartElement:
			s.StartElement(ev.Name, ev.Attrs, ev.Line, ev.Column)
		case xmlevents.KindEndElement:
			s.EndElement(ev.Line, ev.Column)
		case xmlevents.KindText:
			s.Text(ev.Text, ev.Line, ev.Column)
		case xmlevents.KindAttribute:
			s.Attribute(ev.Name, ev.Text, ev.Line, ev.Column)
		}
	}
	return s.Finish(), nil
}

// StartElement opens an element with its attributes already folded into the
// event, as XML readers deliver them.
func (s *Session) StartElement(name nameclass.QName, attrs []xmlevents.Attr, line, col int) {
	if parent := s.top(); parent != nil {
		s.closeAttrs(parent)
		s.flushText(parent)
	}
	parentPat := s.currentPat()
	s.rootSeen = true
	s.path.push(name)

	if f := s.top(); f != nil && f.invalid {
		// Inside an unrecognized subtree; track nesting without reporting.
		s.frames = append(s.frames, frame{name: name, pat: pattern.IDNotAllowed, line: line, col: col, invalid: true})
		return
	}

	d := s.b.StartTagResidual(parentPat, name)
	if d == pattern.IDNotAllowed {
		s.record(errors.ErrUnknownElement, line, col, "element %s not allowed here", name)
		if len(s.frames) == 0 {
			// The document pattern never advances; suppress the redundant
			// completeness error at document end.
			s.rootDamaged = true
		}
		s.frames = append(s.frames, frame{name: name, pat: pattern.IDNotAllowed, line: line, col: col, invalid: true})
		return
	}

	f := frame{name: name, pat: d, line: line, col: col, attrsOpen: true}
	s.frames = append(s.frames, f)
	top := s.top()
	for _, a := range attrs {
		s.applyAttribute(top, a.Name, a.Value, line, col)
	}
}

// Attribute consumes a standalone attribute event for the innermost open
// element. The interleave algebra makes attribute order irrelevant.
func (s *Session) Attribute(name nameclass.QName, value string, line, col int) {
	f := s.top()
	if f == nil || f.invalid {
		return
	}
	if !f.attrsOpen {
		s.record(errors.ErrUnknownAttribute, line, col, "attribute %s after element content", name)
		return
	}
	s.applyAttribute(f, name, value, line, col)
}

func (s *Session) applyAttribute(f *frame, name nameclass.QName, value string, line, col int) {
	nd := s.b.AttributeResidual(f.pat, name, value)
	if nd != pattern.IDNotAllowed {
		f.pat = nd
		return
	}
	// Distinguish a name no pattern admits from a rejected value, then skip
	// the attribute so later errors still surface.
	if s.b.AttributeNameResidual(f.pat, name) == pattern.IDNotAllowed {
		s.record(errors.ErrUnknownAttribute, line, col, "attribute %s not allowed", name)
		return
	}
	s.record(errors.ErrDatatypeMismatch, line, col, "invalid value %q for attribute %s", value, name)
}

// closeAttrs ends the attribute list of f once: unsatisfied required
// attributes are reported and then dropped so content validation proceeds.
func (s *Session) closeAttrs(f *frame) {
	if !f.attrsOpen {
		return
	}
	f.attrsOpen = false
	if f.invalid {
		return
	}
	ed := s.b.EndAttributes(f.pat, false)
	if ed == pattern.IDNotAllowed {
		s.record(errors.ErrRequiredAttributeMissing, f.line, f.col,
			"element %s is missing one or more required attributes", f.name)
		ed = s.b.EndAttributes(f.pat, true)
	}
	f.pat = ed
}

// Text buffers character data for the innermost open element. Runs are
// coalesced per element and applied as one residual at the next structural
// event, so chunking never splits a datatype value.
func (s *Session) Text(text string, line, col int) {
	f := s.top()
	if f == nil {
		if strings.TrimSpace(text) != "" {
			s.record(errors.ErrTextNotAllowed, line, col, "text outside root element")
		}
		return
	}
	if !f.hasText {
		f.hasText = true
		f.textLine = line
		f.textCol = col
	}
	f.textBuf = append(f.textBuf, text...)
}

func (s *Session) flushText(f *frame) {
	if !f.hasText {
		return
	}
	text := string(f.textBuf)
	line, col := f.textLine, f.textCol
	f.hasText = false
	f.textBuf = f.textBuf[:0]
	if f.invalid {
		return
	}
	if strings.TrimSpace(text) == "" && !s.b.AllowsText(f.pat) {
		// Insignificant whitespace between child elements.
		return
	}
	nd := s.b.TextResidual(f.pat, text)
	if nd == pattern.IDNotAllowed {
		if s.b.AllowsText(f.pat) {
			s.record(errors.ErrDatatypeMismatch, line, col, "invalid character data in element %s", f.name)
		} else {
			s.record(errors.ErrTextNotAllowed, line, col, "text not allowed in element %s", f.name)
		}
		// One error per element: the close check recovers silently.
		f.recovered = true
		return
	}
	f.sawText = true
	f.pat = nd
}

// EndElement closes the innermost open element, testing that its content
// model was satisfied and releasing the parent's continuation.
func (s *Session) EndElement(line, col int) {
	f := s.top()
	if f == nil {
		return
	}
	s.closeAttrs(f)
	s.flushText(f)
	closed := *f
	s.frames = s.frames[:len(s.frames)-1]
	s.path.pop()

	if closed.invalid {
		// Parent pattern was never advanced for this element; nothing to do.
		return
	}

	e := s.b.EndTagResidual(closed.pat, false)
	if e == pattern.IDNotAllowed && !closed.sawText && s.b.AllowsText(closed.pat) {
		// An element with data content and no character data carries the
		// empty string as its value.
		if alt := s.b.TextResidual(closed.pat, ""); alt != pattern.IDNotAllowed {
			e = s.b.EndTagResidual(alt, false)
		}
	}
	if e == pattern.IDNotAllowed {
		if !closed.recovered {
			s.record(errors.ErrIncompleteContent, line, col, "element %s content is incomplete", closed.name)
		}
		e = s.b.EndTagResidual(closed.pat, true)
		if e == pattern.IDNotAllowed {
			// Nothing recoverable; the element is dropped and the parent
			// pattern stands.
			return
		}
	}
	if parent := s.top(); parent != nil {
		parent.pat = e
	} else {
		s.doc = e
	}
}

// Finish performs document-end checks and returns all recorded violations.
func (s *Session) Finish() []errors.Validation {
	switch {
	case !s.rootSeen:
		s.record(errors.ErrNoRoot, 0, 0, "document has no root element")
	case len(s.frames) != 0:
		s.record(errors.ErrIncompleteContent, 0, 0, "document ended with %d open elements", len(s.frames))
	case !s.rootDamaged && !s.b.Nullable(s.doc):
		s.record(errors.ErrIncompleteContent, 0, 0, "document content is incomplete")
	}
	return s.violations
}
