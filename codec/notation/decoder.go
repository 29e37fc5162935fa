package notation

import (
	"encoding/base64"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/types"
)

// A Decoder parses notation documents.
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
	s := scanner{data: data, opts: d.opts}

	s.skipSpace()
	if s.eof() {
		return nil, errs.NewNotationSyntax("empty document", s.off)
	}

	v, err := s.parseValue(0)
	if err != nil {
		return nil, err
	}

	s.skipSpace()
	if !s.eof() {
		return nil, errs.NewNotationSyntax("unexpected data after value", s.off)
	}

	return types.NewDocument(v), nil
}

type scanner struct {
	data []byte
	off  int
	opts Options
}

func (s *scanner) eof() bool {
	return s.off >= len(s.data)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}

	return s.data[s.off]
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.data[s.off] {
		case ' ', '\t', '\n', '\r':
			s.off++
		default:
			return
		}
	}
}

func (s *scanner) syntaxError(msg string) error {
	if s.eof() {
		return errs.NewNotationSyntax("unexpected end of input, "+msg, s.off)
	}

	return errs.NewNotationSyntax(msg, s.off)
}

func (s *scanner) expect(c byte) error {
	if s.peek() != c || s.eof() {
		return s.syntaxError("expected " + strconv.QuoteRune(rune(c)))
	}

	s.off++
	return nil
}

// word returns the run of bytes up to the next delimiter.
func (s *scanner) word() string {
	start := s.off
	for !s.eof() {
		switch s.data[s.off] {
		case ' ', '\t', '\n', '\r', ',', ']', '}':
			return string(s.data[start:s.off])
		}
		s.off++
	}

	return string(s.data[start:s.off])
}

func (s *scanner) parseValue(depth int) (types.Value, error) {
	if depth > s.opts.MaxDepth {
		return nil, errs.NewQuotaExceeded(errs.QuotaDepth, s.opts.MaxDepth)
	}

	start := s.off
	switch c := s.peek(); c {
	case '!':
		s.off++
		return types.NewUndefinedValue(), nil
	case '1':
		s.off++
		return types.NewBooleanValue(true), nil
	case '0':
		s.off++
		return types.NewBooleanValue(false), nil
	case 't', 'T', 'f', 'F':
		switch strings.ToLower(s.word()) {
		case "t", "true":
			return types.NewBooleanValue(true), nil
		case "f", "false":
			return types.NewBooleanValue(false), nil
		}
		return nil, errs.NewNotationSyntax("invalid boolean", start)
	case 'i':
		s.off++
		return parseInteger(s.word())
	case 'r':
		s.off++
		return parseReal(s.word())
	case 'u':
		s.off++
		u, err := types.ParseUUID(s.word())
		if err != nil {
			return nil, err
		}
		return types.NewUUIDValue(u), nil
	case '\'', '"', 's':
		str, err := s.parseString()
		if err != nil {
			return nil, err
		}
		return types.NewStringValue(str), nil
	case 'l':
		s.off++
		str, err := s.parseLexical()
		if err != nil {
			return nil, err
		}
		return types.NewURIValue(str), nil
	case 'd':
		s.off++
		str, err := s.parseLexical()
		if err != nil {
			return nil, err
		}
		t, err := types.ParseDate(str)
		if err != nil {
			return nil, err
		}
		return types.NewDateValue(t), nil
	case 'b':
		s.off++
		return s.parseBinary()
	case '[':
		s.off++
		return s.parseArray(depth)
	case '{':
		s.off++
		return s.parseMap(depth)
	}

	return nil, s.syntaxError("unexpected character")
}

// parseLexical reads a quoted string or, for compatibility, a bare word.
func (s *scanner) parseLexical() (string, error) {
	if c := s.peek(); c == '"' || c == '\'' {
		return s.parseQuoted()
	}

	return s.word(), nil
}

// parseString reads 'text', "text", s'text', s"text" or s(N)"raw".
func (s *scanner) parseString() (string, error) {
	if s.peek() == 's' {
		s.off++
		if s.peek() == '(' {
			b, err := s.parseSized()
			if err != nil {
				return "", err
			}
			if !utf8.Valid(b) {
				return "", errs.NewBadUTF8(s.off)
			}
			return string(b), nil
		}
	}

	return s.parseQuoted()
}

// parseQuoted reads a quoted string with escapes.
func (s *scanner) parseQuoted() (string, error) {
	start := s.off
	quote := s.peek()
	if s.eof() || (quote != '"' && quote != '\'') {
		return "", s.syntaxError("expected quoted string")
	}
	s.off++

	var sb strings.Builder
	for {
		if s.eof() {
			return "", errs.NewNotationSyntax("unterminated string", start)
		}

		c := s.data[s.off]
		s.off++
		if c == quote {
			break
		}
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}

		if s.eof() {
			return "", errs.NewNotationSyntax("unterminated string", start)
		}
		e := s.data[s.off]
		s.off++
		switch e {
		case '\\', '\'', '"', '/':
			sb.WriteByte(e)
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'x':
			if s.off+2 > len(s.data) {
				return "", errs.NewNotationSyntax("truncated \\x escape", s.off-2)
			}
			b, err := hex.DecodeString(string(s.data[s.off : s.off+2]))
			if err != nil {
				return "", errs.NewNotationSyntax("invalid \\x escape", s.off-2)
			}
			sb.WriteByte(b[0])
			s.off += 2
		default:
			return "", errs.NewNotationSyntax("invalid escape sequence", s.off-2)
		}
	}

	str := sb.String()
	if !utf8.ValidString(str) {
		return "", errs.NewBadUTF8(start)
	}

	return str, nil
}

// parseSized reads (N)"raw", N being the byte count of raw.
func (s *scanner) parseSized() ([]byte, error) {
	if err := s.expect('('); err != nil {
		return nil, err
	}

	start := s.off
	for !s.eof() && s.data[s.off] >= '0' && s.data[s.off] <= '9' {
		s.off++
	}
	n, err := strconv.Atoi(string(s.data[start:s.off]))
	if err != nil {
		return nil, errs.NewNotationSyntax("invalid size", start)
	}
	if err := s.expect(')'); err != nil {
		return nil, err
	}

	quote := s.peek()
	if quote != '"' && quote != '\'' {
		return nil, s.syntaxError("expected quoted data")
	}
	s.off++

	if n > len(s.data)-s.off-1 {
		return nil, errs.NewTruncated(s.off)
	}

	b := make([]byte, n)
	copy(b, s.data[s.off:s.off+n])
	s.off += n

	if err := s.expect(quote); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *scanner) parseBinary() (types.Value, error) {
	if s.peek() == '(' {
		b, err := s.parseSized()
		if err != nil {
			return nil, err
		}
		return types.NewBinaryValue(b), nil
	}

	start := s.off
	for !s.eof() && s.data[s.off] >= '0' && s.data[s.off] <= '9' {
		s.off++
	}
	base := string(s.data[start:s.off])

	text, err := s.parseQuoted()
	if err != nil {
		return nil, err
	}
	text = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, text)

	switch base {
	case "64":
		b, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, errs.NewBadBase64(err)
		}
		return types.NewBinaryValue(b), nil
	case "16":
		b, err := hex.DecodeString(text)
		if err != nil {
			return nil, errs.NewBadBase64(err)
		}
		return types.NewBinaryValue(b), nil
	}

	return nil, errs.NewNotationSyntax("unsupported binary encoding b"+base, start-1)
}

func (s *scanner) parseArray(depth int) (types.Value, error) {
	a := types.NewArrayValue()

	s.skipSpace()
	if s.peek() == ']' && !s.eof() {
		s.off++
		return a, nil
	}

	for {
		if a.Len() >= s.opts.MaxElements {
			return nil, errs.NewQuotaExceeded(errs.QuotaElements, s.opts.MaxElements)
		}

		s.skipSpace()
		v, err := s.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		a.Append(v)

		s.skipSpace()
		switch s.peek() {
		case ',':
			s.off++
		case ']':
			s.off++
			return a, nil
		default:
			return nil, s.syntaxError("expected ',' or ']'")
		}
	}
}

func (s *scanner) parseMap(depth int) (types.Value, error) {
	m := types.NewMapValue()

	s.skipSpace()
	if s.peek() == '}' && !s.eof() {
		s.off++
		return m, nil
	}

	count := 0
	for {
		count++
		if count > s.opts.MaxElements {
			return nil, errs.NewQuotaExceeded(errs.QuotaElements, s.opts.MaxElements)
		}

		s.skipSpace()
		key, err := s.parseKey()
		if err != nil {
			return nil, err
		}

		s.skipSpace()
		if err := s.expect(':'); err != nil {
			return nil, err
		}

		s.skipSpace()
		v, err := s.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)

		s.skipSpace()
		switch s.peek() {
		case ',':
			s.off++
		case '}':
			s.off++
			return m, nil
		default:
			return nil, s.syntaxError("expected ',' or '}'")
		}
	}
}

// parseKey reads a quoted key, a sized key or a bare identifier.
func (s *scanner) parseKey() (string, error) {
	c := s.peek()
	switch {
	case c == '\'' || c == '"':
		return s.parseQuoted()
	case c == 's' && s.off+1 < len(s.data) && (s.data[s.off+1] == '\'' || s.data[s.off+1] == '"' || s.data[s.off+1] == '('):
		return s.parseString()
	case isIdentStart(c):
		start := s.off
		for !s.eof() && isIdent(s.data[s.off]) {
			s.off++
		}
		return string(s.data[start:s.off]), nil
	}

	return "", s.syntaxError("expected map key")
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool {
	return isIdentStart(c) || c == '-' || (c >= '0' && c <= '9')
}

func parseInteger(text string) (types.Value, error) {
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return nil, errs.NewInvalidNumber(strconv.Quote(text) + " is not a 32-bit integer")
	}

	return types.NewIntegerValue(int32(n)), nil
}

func parseReal(text string) (types.Value, error) {
	switch strings.ToLower(text) {
	case "nan":
		return types.NewRealValue(math.NaN()), nil
	case "inf", "+inf":
		return types.NewRealValue(math.Inf(1)), nil
	case "-inf":
		return types.NewRealValue(math.Inf(-1)), nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, errs.NewInvalidNumber(strconv.Quote(text) + " is not a real number")
	}

	return types.NewRealValue(f), nil
}
