package binary

import (
	"bytes"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/types"
)

// A Decoder parses binary encoded documents.
// Decoders are immutable and safe for concurrent use.
type Decoder struct {
	opts Options
}

// NewDecoder returns a decoder configured with DefaultOptions.
func NewDecoder() *Decoder {
	return &Decoder{opts: DefaultOptions()}
}

// NewDecoderWithOptions returns a decoder configured with opts.
func NewDecoderWithOptions(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// Options returns the configuration of the decoder.
func (d *Decoder) Options() Options {
	return d.opts
}

// WithValidateMagic returns a copy of d with magic validation set to v.
func (d *Decoder) WithValidateMagic(v bool) *Decoder {
	opts := d.opts
	opts.ValidateMagic = v
	return &Decoder{opts: opts}
}

// WithMaxDepth returns a copy of d with the given depth quota.
func (d *Decoder) WithMaxDepth(n int) *Decoder {
	opts := d.opts
	opts.MaxDepth = n
	return &Decoder{opts: opts}
}

// WithMaxElements returns a copy of d with the given per container element quota.
func (d *Decoder) WithMaxElements(n int) *Decoder {
	opts := d.opts
	opts.MaxElements = n
	return &Decoder{opts: opts}
}

// Decode parses data into a document.
func (d *Decoder) Decode(data []byte) (*types.Document, error) {
	v, err := d.DecodeValue(data)
	if err != nil {
		return nil, err
	}

	return types.NewDocument(v), nil
}

// DecodeValue parses data and returns its root value.
func (d *Decoder) DecodeValue(data []byte) (types.Value, error) {
	r := reader{data: data, opts: d.opts}

	hasMagic := len(data) >= len(Magic) && bytes.Equal(data[:len(Magic)], Magic[:])
	if d.opts.ValidateMagic && !hasMagic {
		n := len(Magic)
		if len(data) < n {
			n = len(data)
		}
		return nil, errs.NewBadMagic(data[:n])
	}
	if hasMagic {
		r.off = len(Magic)
	}

	v, err := r.readValue(0)
	if err != nil {
		return nil, err
	}

	if r.off != len(r.data) {
		return nil, errs.NewTrailingData(r.off)
	}

	return v, nil
}

type reader struct {
	data []byte
	off  int
	opts Options
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

// next returns the next n bytes and advances the offset.
func (r *reader) next(n int) ([]byte, error) {
	if n > r.remaining() {
		return nil, errs.NewTruncated(r.off)
	}

	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}

	return readUint32(b), nil
}

func (r *reader) readUint64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}

	return readUint64(b), nil
}

// readBytes reads a length prefixed byte sequence.
func (r *reader) readBytes() ([]byte, error) {
	off := r.off
	n, err := r.readUint32()
	if err != nil {
		return nil, err
	}

	if uint64(n) > uint64(r.remaining()) {
		return nil, errs.NewTruncated(off)
	}

	return r.next(int(n))
}

// readText reads a length prefixed UTF-8 string.
func (r *reader) readText() (string, error) {
	off := r.off
	b, err := r.readBytes()
	if err != nil {
		return "", err
	}

	if !utf8.Valid(b) {
		return "", errs.NewBadUTF8(off)
	}

	return string(b), nil
}

// readCount reads a container element count, checking it against the
// element quota and against the input left, each element taking at least
// minSize bytes.
func (r *reader) readCount(minSize int) (int, error) {
	off := r.off
	n, err := r.readUint32()
	if err != nil {
		return 0, err
	}

	if uint64(n) > uint64(r.opts.MaxElements) {
		return 0, errs.NewQuotaExceeded(errs.QuotaElements, r.opts.MaxElements)
	}

	if uint64(n)*uint64(minSize) > uint64(r.remaining()) {
		return 0, errs.NewTruncated(off)
	}

	return int(n), nil
}

func (r *reader) readValue(depth int) (types.Value, error) {
	if depth > r.opts.MaxDepth {
		return nil, errs.NewQuotaExceeded(errs.QuotaDepth, r.opts.MaxDepth)
	}

	off := r.off
	b, err := r.next(1)
	if err != nil {
		return nil, err
	}

	switch tag := b[0]; tag {
	case UndefinedTag:
		return types.NewUndefinedValue(), nil
	case BooleanTag:
		b, err := r.next(1)
		if err != nil {
			return nil, err
		}
		return types.NewBooleanValue(b[0] != 0), nil
	case IntegerTag:
		n, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		return types.NewIntegerValue(int32(n)), nil
	case RealTag:
		n, err := r.readUint64()
		if err != nil {
			return nil, err
		}
		return types.NewRealValue(math.Float64frombits(n)), nil
	case StringTag:
		s, err := r.readText()
		if err != nil {
			return nil, err
		}
		return types.NewStringValue(s), nil
	case UUIDTag:
		b, err := r.next(16)
		if err != nil {
			return nil, err
		}
		var u uuid.UUID
		copy(u[:], b)
		return types.NewUUIDValue(u), nil
	case DateTag:
		n, err := r.readUint64()
		if err != nil {
			return nil, err
		}
		t, err := decodeDate(math.Float64frombits(n))
		if err != nil {
			return nil, err
		}
		return types.NewDateValue(t), nil
	case URITag:
		s, err := r.readText()
		if err != nil {
			return nil, err
		}
		return types.NewURIValue(s), nil
	case BinaryTag:
		b, err := r.readBytes()
		if err != nil {
			return nil, err
		}
		cp := make([]byte, len(b))
		copy(cp, b)
		return types.NewBinaryValue(cp), nil
	case ArrayTag:
		return r.readArray(depth)
	case MapTag:
		return r.readMap(depth)
	default:
		return nil, errs.NewUnknownTypeTag(tag, off)
	}
}

func (r *reader) readArray(depth int) (types.Value, error) {
	n, err := r.readCount(1)
	if err != nil {
		return nil, err
	}

	a := types.NewArrayValueWithCapacity(n)
	for i := 0; i < n; i++ {
		v, err := r.readValue(depth + 1)
		if err != nil {
			return nil, err
		}
		a.Append(v)
	}

	return a, nil
}

func (r *reader) readMap(depth int) (types.Value, error) {
	// key length and value tag
	n, err := r.readCount(5)
	if err != nil {
		return nil, err
	}

	m := types.NewMapValueWithCapacity(n)
	for i := 0; i < n; i++ {
		k, err := r.readText()
		if err != nil {
			return nil, err
		}

		v, err := r.readValue(depth + 1)
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}

	return m, nil
}

// decodeDate converts seconds since the epoch to an instant, rounded to
// the microsecond, which is the precision a double keeps for current dates.
func decodeDate(f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < types.MinDateSeconds || f >= types.MaxDateSeconds+1 {
		return time.Time{}, errs.NewBadDate(strconv.FormatFloat(f, 'g', -1, 64))
	}

	t := time.UnixMicro(int64(math.Round(f * 1e6))).UTC()
	if !types.DateInRange(t) {
		return time.Time{}, errs.NewBadDate(strconv.FormatFloat(f, 'g', -1, 64))
	}

	return t, nil
}
