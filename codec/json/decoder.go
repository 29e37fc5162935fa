package json

import (
	"bytes"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/google/uuid"

	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/types"
)

// A Decoder parses JSON documents.
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

// WithStrictUUID returns a copy of d with strict uuid mode set to v.
func (d *Decoder) WithStrictUUID(v bool) *Decoder {
	opts := d.opts
	opts.StrictUUID = v
	return &Decoder{opts: opts}
}

// WithDetectTypes returns a copy of d with string type detection set to v.
func (d *Decoder) WithDetectTypes(v bool) *Decoder {
	opts := d.opts
	opts.DetectTypes = v
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
	value, dataType, offset, err := jsonparser.Get(data)
	if err != nil {
		return nil, errs.WrapJSONSyntax(err)
	}

	if len(bytes.TrimSpace(data[offset:])) != 0 {
		return nil, errs.NewJSONSyntax("unexpected data after top-level value")
	}

	p := parser{opts: d.opts}
	v, err := p.parseValue(dataType, value, 0)
	if err != nil {
		return nil, err
	}

	return types.NewDocument(v), nil
}

type parser struct {
	opts Options
}

func (p *parser) parseValue(dataType jsonparser.ValueType, data []byte, depth int) (types.Value, error) {
	if depth > p.opts.MaxDepth {
		return nil, errs.NewQuotaExceeded(errs.QuotaDepth, p.opts.MaxDepth)
	}

	switch dataType {
	case jsonparser.Null:
		return types.NewUndefinedValue(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return nil, errs.WrapJSONSyntax(err)
		}
		return types.NewBooleanValue(b), nil
	case jsonparser.Number:
		return parseNumber(data)
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, errs.WrapJSONSyntax(err)
		}
		return p.detect(s), nil
	case jsonparser.Array:
		return p.parseArray(data, depth)
	case jsonparser.Object:
		return p.parseObject(data, depth)
	}

	return nil, errs.NewJSONSyntax("unexpected value " + strconv.Quote(string(data)))
}

// trailingComma reports whether the closing bracket of data is preceded
// by a comma. Any JSON value ends with a quote, a letter, a digit or a bracket.
func trailingComma(data []byte) bool {
	b := bytes.TrimRight(data, " \t\r\n")
	if len(b) < 2 {
		return false
	}
	b = bytes.TrimRight(b[:len(b)-1], " \t\r\n")
	return len(b) > 1 && b[len(b)-1] == ','
}

func (p *parser) parseArray(data []byte, depth int) (types.Value, error) {
	if trailingComma(data) {
		return nil, errs.NewJSONSyntax("trailing comma in array")
	}

	a := types.NewArrayValue()

	var perr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if perr != nil {
			return
		}
		if err != nil {
			perr = errs.WrapJSONSyntax(err)
			return
		}

		if a.Len() >= p.opts.MaxElements {
			perr = errs.NewQuotaExceeded(errs.QuotaElements, p.opts.MaxElements)
			return
		}

		v, err := p.parseValue(dataType, value, depth+1)
		if err != nil {
			perr = err
			return
		}
		a.Append(v)
	})
	if perr != nil {
		return nil, perr
	}
	if err != nil {
		return nil, errs.WrapJSONSyntax(err)
	}

	return a, nil
}

func (p *parser) parseObject(data []byte, depth int) (types.Value, error) {
	if trailingComma(data) {
		return nil, errs.NewJSONSyntax("trailing comma in object")
	}

	m := types.NewMapValue()

	// raw text of the tunnel members, before type detection
	var tunnelType, tunnelValue *string

	count := 0
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		count++
		if count > p.opts.MaxElements {
			return errs.NewQuotaExceeded(errs.QuotaElements, p.opts.MaxElements)
		}

		k := string(key)
		v, err := p.parseValue(dataType, value, depth+1)
		if err != nil {
			return err
		}

		if dataType == jsonparser.String && (k == TypeKey || k == ValueKey) {
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return errs.WrapJSONSyntax(err)
			}
			if k == TypeKey {
				tunnelType = &s
			} else {
				tunnelValue = &s
			}
		}

		m.Set(k, v)
		return nil
	})
	if err != nil {
		if errs.KindOf(err) != 0 {
			return nil, err
		}
		return nil, errs.WrapJSONSyntax(err)
	}

	if m.Len() == 2 && tunnelType != nil && tunnelValue != nil {
		if v, ok := decodeTunnel(*tunnelType, *tunnelValue); ok {
			return v, nil
		}
	}

	return m, nil
}

// decodeTunnel returns the primitive carried by a tunnel object.
// It returns false if the kind is unknown or the value cannot be decoded.
func decodeTunnel(kind, value string) (types.Value, bool) {
	switch kind {
	case uuidKind:
		u, err := uuid.Parse(value)
		if err != nil {
			return nil, false
		}
		return types.NewUUIDValue(u), true
	case dateKind:
		t, err := types.ParseDate(value)
		if err != nil {
			return nil, false
		}
		return types.NewDateValue(t), true
	case uriKind:
		return types.NewURIValue(value), true
	case binaryKind:
		b, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, false
		}
		return types.NewBinaryValue(b), true
	}

	return nil, false
}

// detect applies the string recognition heuristic.
func (p *parser) detect(s string) types.Value {
	if !p.opts.DetectTypes {
		return types.NewStringValue(s)
	}

	if types.IsHyphenatedUUID(s) || p.opts.StrictUUID {
		if u, err := uuid.Parse(s); err == nil {
			return types.NewUUIDValue(u)
		}
	}

	if looksLikeDate(s) {
		if t, err := types.ParseRFC3339(s); err == nil && types.DateInRange(t) {
			return types.NewDateValue(t)
		}
	}

	if IsURI(s) {
		return types.NewURIValue(s)
	}

	return types.NewStringValue(s)
}

// looksLikeDate filters out strings that cannot be RFC-3339 date-times
// before attempting a full parse.
func looksLikeDate(s string) bool {
	return len(s) >= len("2006-01-02T15:04:05Z") && s[4] == '-' && s[7] == '-'
}

// IsURI reports whether s is recognized as an uri by the heuristic.
func IsURI(s string) bool {
	return strings.Contains(s, "://") ||
		strings.HasPrefix(s, "http:") ||
		strings.HasPrefix(s, "https:") ||
		strings.HasPrefix(s, "ftp:")
}

// parseNumber converts a JSON number. Integral numbers that fit in 32 bits
// become integers, every other number becomes a real.
func parseNumber(data []byte) (types.Value, error) {
	if !isNumber(data) {
		return nil, errs.NewJSONSyntax("invalid number " + strconv.Quote(string(data)))
	}

	s := string(data)
	if !strings.ContainsAny(s, ".eE") {
		if n, err := strconv.ParseInt(s, 10, 32); err == nil {
			return types.NewIntegerValue(int32(n)), nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errs.NewInvalidNumber(s + " does not fit in a 64-bit real")
	}

	return types.NewRealValue(f), nil
}

// isNumber reports whether b follows the JSON number grammar.
func isNumber(b []byte) bool {
	i := 0
	if i < len(b) && b[i] == '-' {
		i++
	}

	switch {
	case i < len(b) && b[i] == '0':
		i++
	case i < len(b) && b[i] >= '1' && b[i] <= '9':
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	default:
		return false
	}

	if i < len(b) && b[i] == '.' {
		i++
		if i >= len(b) || !isDigit(b[i]) {
			return false
		}
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	}

	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		if i >= len(b) || !isDigit(b[i]) {
			return false
		}
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	}

	return i == len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
