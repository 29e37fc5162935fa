package notation

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

// An Encoder serializes documents to notation.
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

// Encode returns the notation encoding of doc.
func (e *Encoder) Encode(doc *types.Document) ([]byte, error) {
	w := writer{opts: e.opts}
	if err := w.writeValue(doc.Root(), 0); err != nil {
		return nil, err
	}

	return w.buf.Bytes(), nil
}

// EncodeTo writes the notation encoding of doc to w.
func (e *Encoder) EncodeTo(w io.Writer, doc *types.Document) error {
	b, err := e.Encode(doc)
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return errors.Wrap(err, "failed to write notation document")
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
		w.buf.WriteByte('!')
		return nil
	}

	switch v.Type() {
	case types.TypeBoolean:
		if types.AsBool(v) {
			w.buf.WriteByte('1')
		} else {
			w.buf.WriteByte('0')
		}
	case types.TypeInteger:
		w.buf.WriteByte('i')
		w.buf.WriteString(strconv.FormatInt(int64(types.AsInt32(v)), 10))
	case types.TypeReal:
		w.buf.WriteByte('r')
		w.buf.WriteString(types.FormatReal(types.AsFloat64(v)))
	case types.TypeString:
		return w.writeQuoted(types.AsString(v), '\'')
	case types.TypeUUID:
		w.buf.WriteByte('u')
		w.buf.WriteString(types.AsUUID(v).String())
	case types.TypeDate:
		t := types.AsTime(v)
		if !types.DateInRange(t) {
			return errs.NewBadDate(t.String())
		}
		w.buf.WriteByte('d')
		return w.writeQuoted(types.FormatDate(t), '"')
	case types.TypeURI:
		w.buf.WriteByte('l')
		return w.writeQuoted(types.AsString(v), '"')
	case types.TypeBinary:
		w.buf.WriteString(`b64"`)
		w.buf.WriteString(base64.StdEncoding.EncodeToString(types.AsByteSlice(v)))
		w.buf.WriteByte('"')
	case types.TypeArray:
		return w.writeArray(types.AsArray(v), depth)
	case types.TypeMap:
		return w.writeMap(types.AsMap(v), depth)
	default:
		return errors.Errorf("unsupported value type %s", v.Type())
	}

	return nil
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
		if err := w.writeQuoted(k, '\''); err != nil {
			return err
		}
		w.buf.WriteByte(':')
		if w.opts.Pretty {
			w.buf.WriteByte(' ')
		}
		return w.writeValue(v, depth+1)
	})
	if err != nil {
		return err
	}
	w.newline(depth)
	w.buf.WriteByte('}')
	return nil
}

const hexDigits = "0123456789abcdef"

// writeQuoted writes s between quote characters, escaping the quote,
// backslashes and control characters.
func (w *writer) writeQuoted(s string, quote byte) error {
	if !utf8.ValidString(s) {
		return errs.NewBadUTF8(-1)
	}

	w.buf.WriteByte(quote)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == quote || c == '\\':
			w.buf.WriteByte('\\')
			w.buf.WriteByte(c)
		case c == '\n':
			w.buf.WriteString(`\n`)
		case c == '\r':
			w.buf.WriteString(`\r`)
		case c == '\t':
			w.buf.WriteString(`\t`)
		case c < 0x20 || c == 0x7f:
			w.buf.WriteString(`\x`)
			w.buf.WriteByte(hexDigits[c>>4])
			w.buf.WriteByte(hexDigits[c&0xF])
		default:
			w.buf.WriteByte(c)
		}
	}
	w.buf.WriteByte(quote)
	return nil
}
