package rng

import (
	stderrors "errors"
	"io"
	"sync"

	"github.com/relaxml/rng/errors"
	"github.com/relaxml/rng/internal/pattern"
	"github.com/relaxml/rng/internal/validator"
	"github.com/relaxml/rng/pkg/nameclass"
	"github.com/relaxml/rng/pkg/xmlevents"
)

// Engine validates documents against one compiled schema. It is safe for
// concurrent use; each validation runs on its own pooled session.
type Engine struct {
	pb    *pattern.Builder
	start pattern.ID
	pool  sync.Pool
}

func newEngine(pb *pattern.Builder, start pattern.ID) *Engine {
	e := &Engine{pb: pb, start: start}
	e.pool.New = func() any {
		return validator.NewSession(pb, start)
	}
	return e
}

// Validate parses XML from r and validates it. It returns nil for a valid
// document, an errors.ValidationList for validation failures, and wraps
// parse errors of malformed XML the same way.
func (e *Engine) Validate(r io.Reader) error {
	if r == nil {
		return stderrors.New("rng: nil reader")
	}
	return e.ValidateEvents(xmlevents.NewReader(r))
}

// ValidateEvents validates a pre-parsed event sequence, for callers that
// produce events from something other than serialized XML.
func (e *Engine) ValidateEvents(src xmlevents.Source) error {
	s := e.pool.Get().(*validator.Session)
	s.Reset()
	violations, err := s.ValidateEvents(src)
	// The session's slice is reused after release; callers keep a copy.
	out := make([]errors.Validation, len(violations))
	copy(out, violations)
	e.pool.Put(s)
	if err != nil {
		out = append(out, errors.NewValidationf(errors.ErrXMLParse, "", "%v", err))
	}
	if len(out) == 0 {
		return nil
	}
	return errors.ValidationList(out)
}

// NewSession returns a dedicated validation session. A session validates one
// document at a time and may be Reset and reused; it is not safe for
// concurrent use. Most callers want Validate, which pools sessions itself.
func (e *Engine) NewSession() *Session {
	return &Session{e: e, s: validator.NewSession(e.pb, e.start)}
}

// Session is a reusable single-document validator bound to an Engine.
type Session struct {
	e *Engine
	s *validator.Session
}

// Validate parses and validates one document.
func (s *Session) Validate(r io.Reader) error {
	if r == nil {
		return stderrors.New("rng: nil reader")
	}
	return s.ValidateEvents(xmlevents.NewReader(r))
}

// ValidateEvents validates one pre-parsed event sequence.
func (s *Session) ValidateEvents(src xmlevents.Source) error {
	s.s.Reset()
	violations, err := s.s.ValidateEvents(src)
	out := make([]errors.Validation, len(violations))
	copy(out, violations)
	if err != nil {
		out = append(out, errors.NewValidationf(errors.ErrXMLParse, "", "%v", err))
	}
	if len(out) == 0 {
		return nil
	}
	return errors.ValidationList(out)
}

// Reset clears the session for the next document.
func (s *Session) Reset() {
	s.s.Reset()
}

// Start returns the schema start pattern, the initial state of every
// validation.
func (e *Engine) Start() Pattern {
	return Pattern{id: e.start}
}

// Nullable reports whether p matches the empty sequence, i.e. whether a
// document in state p may end here.
func (e *Engine) Nullable(p Pattern) bool {
	return e.pb.Nullable(p.id)
}

// Residual returns the pattern matching what may follow ev in state p, or a
// not-allowed pattern when ev is invalid there. A start-element event folds
// in its attributes and closes the attribute list; an end-element event
// requires the content to be complete.
func (e *Engine) Residual(p Pattern, ev xmlevents.Event) Pattern {
	switch ev.Kind {
	case xmlevents.KindText:
		return Pattern{id: e.pb.TextResidual(p.id, ev.Text)}
	case xmlevents.KindAttribute:
		return Pattern{id: e.pb.AttributeResidual(p.id, ev.Name, ev.Text)}
	case xmlevents.KindStartElement:
		d := e.pb.StartTagResidual(p.id, ev.Name)
		for _, a := range ev.Attrs {
			if d == pattern.IDNotAllowed {
				break
			}
			d = e.pb.AttributeResidual(d, a.Name, a.Value)
		}
		if d != pattern.IDNotAllowed {
			d = e.pb.EndAttributes(d, false)
		}
		return Pattern{id: d}
	case xmlevents.KindEndElement:
		return Pattern{id: e.pb.EndTagResidual(p.id, false)}
	}
	return Pattern{id: pattern.IDNotAllowed}
}

// ContentDescriptor is the result of a successful ambiguity query: the
// single content pattern an element name is validated against in state p,
// and the residual state after that element.
type ContentDescriptor struct {
	Content  Pattern
	Residual Pattern
}

// UnambiguousContent reports how an element named name would be validated
// in state p. It returns ok=false when the grammar is ambiguous at this
// point, meaning name could match under several distinct content patterns.
// A nil descriptor with ok=true means name is not admitted at all. Schema
// translators use this to decide whether a grammar maps onto deterministic
// content models.
func (e *Engine) UnambiguousContent(p Pattern, name nameclass.QName) (*ContentDescriptor, bool) {
	pair, ok := e.pb.UnambigContentPattern(p.id, name)
	if !ok {
		return nil, false
	}
	if pair.Empty() {
		return nil, true
	}
	return &ContentDescriptor{
		Content:  Pattern{id: pair.Content},
		Residual: Pattern{id: pair.Residual},
	}, true
}

// PatternCount returns the number of distinct pattern nodes allocated so
// far, across construction and validation.
func (e *Engine) PatternCount() int {
	return e.pb.NodeCount()
}
