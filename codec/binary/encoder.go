package binary

import (
	"io"
	"math"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/types"
)

// An Encoder serializes documents to the binary encoding.
// Encoders are immutable and safe for concurrent use.
type Encoder struct {
	opts EncodeOptions
}

// NewEncoder returns an encoder configured with DefaultEncodeOptions.
func NewEncoder() *Encoder {
	return &Encoder{opts: DefaultEncodeOptions()}
}

// NewEncoderWithOptions returns an encoder configured with opts.
func NewEncoderWithOptions(opts EncodeOptions) *Encoder {
	return &Encoder{opts: opts}
}

// WithMagic returns a copy of e that writes the magic prefix if v is true.
func (e *Encoder) WithMagic(v bool) *Encoder {
	opts := e.opts
	opts.WriteMagic = v
	return &Encoder{opts: opts}
}

// Encode returns the binary encoding of doc.
func (e *Encoder) Encode(doc *types.Document) ([]byte, error) {
	var dst []byte
	if e.opts.WriteMagic {
		dst = append(dst, Magic[:]...)
	}

	return AppendValue(dst, doc.Root())
}

// EncodeTo writes the binary encoding of doc to w.
func (e *Encoder) EncodeTo(w io.Writer, doc *types.Document) error {
	b, err := e.Encode(doc)
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return errors.Wrap(err, "failed to write binary document")
}

// AppendValue appends the encoding of v to dst, without magic.
func AppendValue(dst []byte, v types.Value) ([]byte, error) {
	if types.IsUndefined(v) {
		return append(dst, UndefinedTag), nil
	}

	switch v.Type() {
	case types.TypeBoolean:
		if types.AsBool(v) {
			return append(dst, BooleanTag, 1), nil
		}
		return append(dst, BooleanTag, 0), nil
	case types.TypeInteger:
		return write4(dst, IntegerTag, uint32(types.AsInt32(v))), nil
	case types.TypeReal:
		return write8(dst, RealTag, math.Float64bits(types.AsFloat64(v))), nil
	case types.TypeString:
		return appendText(dst, StringTag, types.AsString(v))
	case types.TypeUUID:
		u := types.AsUUID(v)
		dst = append(dst, UUIDTag)
		return append(dst, u[:]...), nil
	case types.TypeDate:
		t := types.AsTime(v)
		if !types.DateInRange(t) {
			return nil, errs.NewBadDate(t.String())
		}
		return write8(dst, DateTag, math.Float64bits(encodeDate(t))), nil
	case types.TypeURI:
		return appendText(dst, URITag, types.AsString(v))
	case types.TypeBinary:
		b := types.AsByteSlice(v)
		if uint64(len(b)) > math.MaxUint32 {
			return nil, errs.NewValidation("binary payload too large")
		}
		dst = write4(dst, BinaryTag, uint32(len(b)))
		return append(dst, b...), nil
	case types.TypeArray:
		return appendArray(dst, types.AsArray(v))
	case types.TypeMap:
		return appendMap(dst, types.AsMap(v))
	}

	return nil, errors.Errorf("unsupported value type %s", v.Type())
}

func appendText(dst []byte, tag byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, errs.NewBadUTF8(-1)
	}
	if uint64(len(s)) > math.MaxUint32 {
		return nil, errs.NewValidation("string too large")
	}

	dst = write4(dst, tag, uint32(len(s)))
	return append(dst, s...), nil
}

func appendArray(dst []byte, a *types.ArrayValue) ([]byte, error) {
	dst = write4(dst, ArrayTag, uint32(a.Len()))

	var err error
	for _, v := range a.Values() {
		dst, err = AppendValue(dst, v)
		if err != nil {
			return nil, err
		}
	}

	return dst, nil
}

func appendMap(dst []byte, m *types.MapValue) ([]byte, error) {
	dst = write4(dst, MapTag, uint32(m.Len()))

	err := m.Iterate(func(k string, v types.Value) error {
		if !utf8.ValidString(k) {
			return errs.NewBadUTF8(-1)
		}

		dst = appendUint32(dst, uint32(len(k)))
		dst = append(dst, k...)

		var err error
		dst, err = AppendValue(dst, v)
		return err
	})
	if err != nil {
		return nil, err
	}

	return dst, nil
}

// encodeDate returns t as seconds since the epoch.
func encodeDate(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}
