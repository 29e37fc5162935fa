package xml

import (
	"bytes"
	"encoding/base64"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/types"
)

// An Encoder serializes documents to XML.
// Encoders are immutable and safe for concurrent use.
type Encoder struct {
	opts EncodeOptions
}

// NewEncoder returns a compact encoder.
func NewEncoder() *Encoder {
	return &Encoder{opts: DefaultEncodeOptions()}
}

// NewEncoderWithOptions returns an encoder configured with opts.
func NewEncoderWithOptions(opts EncodeOptions) *Encoder {
	return &Encoder{opts: opts}
}

// WithPretty returns a copy of e with pretty printing set to v.
func (e *Encoder) WithPretty(v bool) *Encoder {
	opts := e.opts
	opts.Pretty = v
	return &Encoder{opts: opts}
}

// WithIndent returns a copy of e using indent in pretty mode.
func (e *Encoder) WithIndent(indent string) *Encoder {
	opts := e.opts
	opts.Indent = indent
	return &Encoder{opts: opts}
}

// Encode returns the XML encoding of doc, starting with Header.
func (e *Encoder) Encode(doc *types.Document) ([]byte, error) {
	w := writer{opts: e.opts}
	w.buf.WriteString(Header)

	w.open(rootElement, 0)
	if err := w.writeValue(doc.Root(), 1); err != nil {
		return nil, err
	}
	w.close(rootElement, 0)

	return w.buf.Bytes(), nil
}

// EncodeTo writes the XML encoding of doc to w.
func (e *Encoder) EncodeTo(w io.Writer, doc *types.Document) error {
	b, err := e.Encode(doc)
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return errors.Wrap(err, "failed to write xml document")
}

type writer struct {
	buf  bytes.Buffer
	opts EncodeOptions
}

func (w *writer) indent(depth int) {
	if !w.opts.Pretty {
		return
	}

	for i := 0; i < depth; i++ {
		w.buf.WriteString(w.opts.Indent)
	}
}

func (w *writer) newline() {
	if w.opts.Pretty {
		w.buf.WriteByte('\n')
	}
}

func (w *writer) open(name string, depth int) {
	w.indent(depth)
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	w.buf.WriteByte('>')
	w.newline()
}

func (w *writer) close(name string, depth int) {
	w.indent(depth)
	w.buf.WriteString("</")
	w.buf.WriteString(name)
	w.buf.WriteByte('>')
	w.newline()
}

// leaf writes <name>text</name> on a single line.
func (w *writer) leaf(name, text string, depth int) {
	w.indent(depth)
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	w.buf.WriteByte('>')
	w.buf.WriteString(text)
	w.buf.WriteString("</")
	w.buf.WriteString(name)
	w.buf.WriteByte('>')
	w.newline()
}

func (w *writer) escapedLeaf(name, text string, depth int) error {
	escaped, err := escape(text)
	if err != nil {
		return err
	}

	w.leaf(name, escaped, depth)
	return nil
}

func (w *writer) writeValue(v types.Value, depth int) error {
	if types.IsUndefined(v) {
		w.indent(depth)
		w.buf.WriteString("<undef />")
		w.newline()
		return nil
	}

	switch v.Type() {
	case types.TypeBoolean:
		if types.AsBool(v) {
			w.leaf(booleanElement, "1", depth)
		} else {
			w.leaf(booleanElement, "0", depth)
		}
	case types.TypeInteger:
		w.leaf(integerElement, strconv.FormatInt(int64(types.AsInt32(v)), 10), depth)
	case types.TypeReal:
		w.leaf(realElement, types.FormatReal(types.AsFloat64(v)), depth)
	case types.TypeString:
		return w.escapedLeaf(stringElement, types.AsString(v), depth)
	case types.TypeUUID:
		w.leaf(uuidElement, types.AsUUID(v).String(), depth)
	case types.TypeDate:
		t := types.AsTime(v)
		if !types.DateInRange(t) {
			return errs.NewBadDate(t.String())
		}
		w.leaf(dateElement, types.FormatDate(t), depth)
	case types.TypeURI:
		return w.escapedLeaf(uriElement, types.AsString(v), depth)
	case types.TypeBinary:
		w.leaf(binaryElement, base64.StdEncoding.EncodeToString(types.AsByteSlice(v)), depth)
	case types.TypeArray:
		a := types.AsArray(v)
		if a.Len() == 0 {
			w.leaf(arrayElement, "", depth)
			return nil
		}
		w.open(arrayElement, depth)
		for _, e := range a.Values() {
			if err := w.writeValue(e, depth+1); err != nil {
				return err
			}
		}
		w.close(arrayElement, depth)
	case types.TypeMap:
		m := types.AsMap(v)
		if m.Len() == 0 {
			w.leaf(mapElement, "", depth)
			return nil
		}
		w.open(mapElement, depth)
		err := m.Iterate(func(k string, e types.Value) error {
			if err := w.escapedLeaf(keyElement, k, depth+1); err != nil {
				return err
			}
			return w.writeValue(e, depth+1)
		})
		if err != nil {
			return err
		}
		w.close(mapElement, depth)
	default:
		return errors.Errorf("unsupported value type %s", v.Type())
	}

	return nil
}

// escape returns s with the characters reserved in XML text replaced by
// entities. Characters that XML 1.0 cannot carry are rejected.
func escape(s string) (string, error) {
	var buf bytes.Buffer
	last := 0
	for i := 0; i < len(s); {
		r, width := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && width == 1 {
			return "", errs.NewBadUTF8(-1)
		}

		var esc string
		switch r {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '\r':
			esc = "&#xD;"
		default:
			if !isInCharacterRange(r) {
				return "", errs.NewXMLSyntax("character " + strconv.QuoteRune(r) + " cannot be written in XML")
			}
			i += width
			continue
		}

		buf.WriteString(s[last:i])
		buf.WriteString(esc)
		i += width
		last = i
	}

	if last == 0 {
		return s, nil
	}

	buf.WriteString(s[last:])
	return buf.String(), nil
}

// isInCharacterRange reports whether r is allowed in an XML 1.0 document.
func isInCharacterRange(r rune) bool {
	return r == 0x09 ||
		r == 0x0A ||
		r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
