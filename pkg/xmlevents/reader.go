package xmlevents

import (
	"encoding/xml"
	"io"
	"sort"

	"github.com/relaxml/rng/pkg/nameclass"
)

// Reader adapts an encoding/xml token stream to the event model. It resolves
// namespaces, drops namespace-declaration attributes, and tracks line and
// column positions for error reporting.
type Reader struct {
	dec *xml.Decoder
	pos *positionReader
}

// NewReader creates a streaming reader for r.
func NewReader(r io.Reader) *Reader {
	pos := &positionReader{r: r}
	return &Reader{
		dec: xml.NewDecoder(pos),
		pos: pos,
	}
}

// Next returns the next document event, or io.EOF at end of input.
func (r *Reader) Next() (Event, error) {
	if r == nil || r.dec == nil {
		return Event{}, io.EOF
	}
	for {
		offset := r.dec.InputOffset()
		tok, err := r.dec.Token()
		if err != nil {
			return Event{}, err
		}
		line, column := r.pos.lineColumn(offset)

		switch t := tok.(type) {
		case xml.StartElement:
			ev := Event{
				Kind:   KindStartElement,
				Name:   toQName(t.Name),
				Line:   line,
				Column: column,
			}
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name) {
					continue
				}
				ev.Attrs = append(ev.Attrs, Attr{Name: toQName(a.Name), Value: a.Value})
			}
			return ev, nil
		case xml.EndElement:
			return Event{
				Kind:   KindEndElement,
				Name:   toQName(t.Name),
				Line:   line,
				Column: column,
			}, nil
		case xml.CharData:
			return Event{
				Kind:   KindText,
				Text:   string(t),
				Line:   line,
				Column: column,
			}, nil
		default:
			// Comments, directives, and processing instructions carry no
			// validation semantics.
		}
	}
}

func toQName(n xml.Name) nameclass.QName {
	return nameclass.QName{Namespace: n.Space, Local: n.Local}
}

func isNamespaceDecl(n xml.Name) bool {
	return n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns")
}

// positionReader records newline offsets as bytes flow to the decoder so
// token offsets can be mapped back to line/column pairs.
type positionReader struct {
	r        io.Reader
	read     int64
	newlines []int64
}

func (p *positionReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	for i := 0; i < n; i++ {
		if b[i] == '\n' {
			p.newlines = append(p.newlines, p.read+int64(i))
		}
	}
	p.read += int64(n)
	return n, err
}

func (p *positionReader) lineColumn(offset int64) (line, column int) {
	i := sort.Search(len(p.newlines), func(i int) bool {
		return p.newlines[i] >= offset
	})
	line = i + 1
	lineStart := int64(0)
	if i > 0 {
		lineStart = p.newlines[i-1] + 1
	}
	return line, int(offset-lineStart) + 1
}
