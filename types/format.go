package types

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-module/carbon/v2"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	errs "github.com/chaisql/llsd/errors"
)

// Range of instants that can be written as an RFC-3339 date-time,
// in seconds since the Unix epoch.
const (
	MinDateSeconds = -62135596800 // 0001-01-01T00:00:00Z
	MaxDateSeconds = 253402300799 // 9999-12-31T23:59:59Z
)

// FormatReal returns the shortest representation of f that parses back to
// the same bits. The result always carries a fraction or an exponent so
// that text codecs can tell it apart from an integer.
func FormatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}

	// By default the precision is -1 to use the smallest number of digits.
	// See https://pkg.go.dev/strconv#FormatFloat
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// FormatDate returns the RFC-3339 form of t in the Z zone. Fractional
// seconds are written only when non zero.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// DateInRange reports whether t can be written as an RFC-3339 date-time.
func DateInRange(t time.Time) bool {
	s := t.Unix()
	return s >= MinDateSeconds && s <= MaxDateSeconds
}

// ParseRFC3339 parses s strictly as an RFC-3339 date-time.
func ParseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errs.NewBadDate(s)
	}

	return t.UTC(), nil
}

// ParseDate parses s as an RFC-3339 date-time and falls back to a lenient
// parser accepting zone-less and date-only forms, interpreted as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}

	if s == "" {
		return time.Time{}, errs.NewBadDate(s)
	}

	c := carbon.Parse(s, "UTC")
	if c.Error != nil {
		return time.Time{}, errs.NewBadDate(s)
	}

	t := c.ToStdTime().UTC()
	if !DateInRange(t) {
		return time.Time{}, errs.NewBadDate(s)
	}

	return t, nil
}

// IsHyphenatedUUID reports whether s has the 36 characters
// xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx shape, x being an hexadecimal digit.
func IsHyphenatedUUID(s string) bool {
	if len(s) != 36 {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		default:
			if !isHex(c) {
				return false
			}
		}
	}

	return true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// ParseUUID parses the hyphenated form of an uuid.
func ParseUUID(s string) (uuid.UUID, error) {
	if !IsHyphenatedUUID(s) {
		return uuid.Nil, errs.NewBadUUID(s)
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errs.NewBadUUID(s)
	}

	return u, nil
}

// MarshalTextIndent returns a human readable representation of v.
// Map keys are sorted. If prefix and indent are empty, the output fits on
// a single line.
func MarshalTextIndent(v Value, prefix, indent string) []byte {
	var buf bytes.Buffer
	marshalText(&buf, v, prefix, indent, 0)
	return buf.Bytes()
}

// Format returns the multi-line representation of v, indented with two spaces.
func Format(v Value) string {
	return string(MarshalTextIndent(v, "", "  "))
}

func marshalText(dst *bytes.Buffer, v Value, prefix, indent string, depth int) {
	pretty := prefix != "" || indent != ""

	switch x := v.(type) {
	case nil:
		dst.WriteString("undef")
	case *ArrayValue:
		if x.Len() == 0 {
			dst.WriteString("[]")
			return
		}
		dst.WriteByte('[')
		for i, e := range x.values {
			if i > 0 {
				dst.WriteByte(',')
				if !pretty {
					dst.WriteByte(' ')
				}
			}
			newline(dst, prefix, indent, depth+1)
			marshalText(dst, e, prefix, indent, depth+1)
		}
		newline(dst, prefix, indent, depth)
		dst.WriteByte(']')
	case *MapValue:
		if x.Len() == 0 {
			dst.WriteString("{}")
			return
		}
		keys := x.Keys()
		slices.Sort(keys)
		dst.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				dst.WriteByte(',')
				if !pretty {
					dst.WriteByte(' ')
				}
			}
			newline(dst, prefix, indent, depth+1)
			dst.WriteString(strconv.Quote(k))
			dst.WriteString(": ")
			marshalText(dst, x.values[k], prefix, indent, depth+1)
		}
		newline(dst, prefix, indent, depth)
		dst.WriteByte('}')
	default:
		dst.WriteString(v.String())
	}
}

func newline(dst *bytes.Buffer, prefix, indent string, depth int) {
	if prefix == "" && indent == "" {
		return
	}

	dst.WriteByte('\n')
	dst.WriteString(prefix)
	for i := 0; i < depth; i++ {
		dst.WriteString(indent)
	}
}
