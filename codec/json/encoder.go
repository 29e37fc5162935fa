package json

import (
	"bytes"
	"encoding/base64"
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/types"
)

// An Encoder serializes documents to JSON.
// Encoders are immutable and safe for concurrent use.
type Encoder struct {
	opts EncodeOptions
}

// NewEncoder returns a compact, lossy encoder.
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

// WithPreserveTypes returns a copy of e with type preservation set to v.
func (e *Encoder) WithPreserveTypes(v bool) *Encoder {
	opts := e.opts
	opts.PreserveTypes = v
	return &Encoder{opts: opts}
}

// WithIndent returns a copy of e using indent in pretty mode.
func (e *Encoder) WithIndent(indent string) *Encoder {
	opts := e.opts
	opts.Indent = indent
	return &Encoder{opts: opts}
}

// Encode returns the JSON encoding of doc.
func (e *Encoder) Encode(doc *types.Document) ([]byte, error) {
	w := writer{opts: e.opts}
	if err := w.writeValue(doc.Root(), 0); err != nil {
		return nil, err
	}

	return w.buf.Bytes(), nil
}

// EncodeTo writes the JSON encoding of doc to w.
func (e *Encoder) EncodeTo(w io.Writer, doc *types.Document) error {
	b, err := e.Encode(doc)
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return errors.Wrap(err, "failed to write json document")
}

type writer struct {
	buf  bytes.Buffer
	opts EncodeOptions
}

func (w *writer) newline(depth int) {
	if !w.opts.Pretty {
		return
	}

	w.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		w.buf.WriteString(w.opts.Indent)
	}
}

func (w *writer) writeValue(v types.Value, depth int) error {
	if types.IsUndefined(v) {
		w.buf.WriteString("null")
		return nil
	}

	switch v.Type() {
	case types.TypeBoolean:
		w.buf.WriteString(strconv.FormatBool(types.AsBool(v)))
	case types.TypeInteger:
		w.buf.WriteString(strconv.FormatInt(int64(types.AsInt32(v)), 10))
	case types.TypeReal:
		f := types.AsFloat64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errs.NewInvalidNumber(types.FormatReal(f) + " cannot be represented in JSON")
		}
		w.buf.WriteString(types.FormatReal(f))
	case types.TypeString:
		return w.writeString(types.AsString(v))
	case types.TypeUUID:
		return w.writeTyped(uuidKind, types.AsUUID(v).String(), depth)
	case types.TypeDate:
		t := types.AsTime(v)
		if !types.DateInRange(t) {
			return errs.NewBadDate(t.String())
		}
		return w.writeTyped(dateKind, types.FormatDate(t), depth)
	case types.TypeURI:
		return w.writeTyped(uriKind, types.AsString(v), depth)
	case types.TypeBinary:
		return w.writeTyped(binaryKind, base64.StdEncoding.EncodeToString(types.AsByteSlice(v)), depth)
	case types.TypeArray:
		return w.writeArray(types.AsArray(v), depth)
	case types.TypeMap:
		return w.writeMap(types.AsMap(v), depth)
	default:
		return errors.Errorf("unsupported value type %s", v.Type())
	}

	return nil
}

// writeTyped writes the lexical form of a value JSON has no type for,
// either as a plain string or as a tunnel object.
func (w *writer) writeTyped(kind, lexical string, depth int) error {
	if !w.opts.PreserveTypes {
		return w.writeString(lexical)
	}

	w.buf.WriteByte('{')
	w.newline(depth + 1)
	_ = w.writeString(TypeKey)
	w.colon()
	_ = w.writeString(kind)
	w.buf.WriteByte(',')
	w.newline(depth + 1)
	_ = w.writeString(ValueKey)
	w.colon()
	if err := w.writeString(lexical); err != nil {
		return err
	}
	w.newline(depth)
	w.buf.WriteByte('}')
	return nil
}

func (w *writer) colon() {
	w.buf.WriteByte(':')
	if w.opts.Pretty {
		w.buf.WriteByte(' ')
	}
}

func (w *writer) writeArray(a *types.ArrayValue, depth int) error {
	if a.Len() == 0 {
		w.buf.WriteString("[]")
		return nil
	}

	w.buf.WriteByte('[')
	for i, v := range a.Values() {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.newline(depth + 1)
		if err := w.writeValue(v, depth+1); err != nil {
			return err
		}
	}
	w.newline(depth)
	w.buf.WriteByte(']')
	return nil
}

func (w *writer) writeMap(m *types.MapValue, depth int) error {
	if m.Len() == 0 {
		w.buf.WriteString("{}")
		return nil
	}

	w.buf.WriteByte('{')
	first := true
	err := m.Iterate(func(k string, v types.Value) error {
		if !first {
			w.buf.WriteByte(',')
		}
		first = false

		w.newline(depth + 1)
		if err := w.writeString(k); err != nil {
			return err
		}
		w.colon()
		return w.writeValue(v, depth+1)
	})
	if err != nil {
		return err
	}
	w.newline(depth)
	w.buf.WriteByte('}')
	return nil
}

const hex = "0123456789abcdef"

// writeString writes s as a JSON string literal, escaping quotes,
// backslashes and control characters.
func (w *writer) writeString(s string) error {
	if !utf8.ValidString(s) {
		return errs.NewBadUTF8(-1)
	}

	w.buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}

		w.buf.WriteString(s[start:i])
		switch c {
		case '"', '\\':
			w.buf.WriteByte('\\')
			w.buf.WriteByte(c)
		case '\n':
			w.buf.WriteString(`\n`)
		case '\r':
			w.buf.WriteString(`\r`)
		case '\t':
			w.buf.WriteString(`\t`)
		case '\b':
			w.buf.WriteString(`\b`)
		case '\f':
			w.buf.WriteString(`\f`)
		default:
			w.buf.WriteString(`\u00`)
			w.buf.WriteByte(hex[c>>4])
			w.buf.WriteByte(hex[c&0xF])
		}
		start = i + 1
	}
	w.buf.WriteString(s[start:])
	w.buf.WriteByte('"')
	return nil
}
