package xml

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	stdxml "encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/types"
)

// A Decoder parses XML encoded documents.
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
	return d.DecodeFrom(bytes.NewReader(data))
}

// DecodeFrom parses a document read from r.
func (d *Decoder) DecodeFrom(r io.Reader) (*types.Document, error) {
	p := parser{dec: stdxml.NewDecoder(r), opts: d.opts}
	p.dec.Strict = true

	v, err := p.parseDocument()
	if err != nil {
		return nil, err
	}

	return types.NewDocument(v), nil
}

type parser struct {
	dec  *stdxml.Decoder
	opts Options
}

// token returns the next token, mapping tokenizer errors to XMLSyntax.
// Comments, processing instructions and directives are skipped.
func (p *parser) token() (stdxml.Token, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, err
			}
			return nil, errs.WrapXMLSyntax(err)
		}

		switch tok.(type) {
		case stdxml.Comment, stdxml.ProcInst, stdxml.Directive:
			continue
		}

		return tok, nil
	}
}

// next returns the next start or end element, skipping whitespace.
// Any other text between elements is a syntax error.
func (p *parser) next() (stdxml.Token, error) {
	for {
		tok, err := p.token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errs.NewXMLSyntax("unexpected end of document")
			}
			return nil, err
		}

		switch t := tok.(type) {
		case stdxml.StartElement, stdxml.EndElement:
			return t, nil
		case stdxml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return nil, errs.NewXMLSyntax("unexpected text " + strconv.Quote(string(t)))
			}
		}
	}
}

func (p *parser) parseDocument() (types.Value, error) {
	var root stdxml.StartElement
	for {
		tok, err := p.token()
		if errors.Is(err, io.EOF) {
			return nil, errs.NewMissingRoot()
		}
		if err != nil {
			return nil, err
		}

		if s, ok := tok.(stdxml.StartElement); ok {
			root = s
			break
		}
		if c, ok := tok.(stdxml.CharData); ok && len(bytes.TrimSpace(c)) != 0 {
			return nil, errs.NewMissingRoot()
		}
	}

	if root.Name.Local != rootElement {
		return nil, errs.NewMissingRoot()
	}

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	// an empty <llsd/> holds an undefined value
	var v types.Value = types.NewUndefinedValue()
	if start, ok := tok.(stdxml.StartElement); ok {
		v, err = p.parseValue(start, 0)
		if err != nil {
			return nil, err
		}

		tok, err = p.next()
		if err != nil {
			return nil, err
		}
		if _, ok := tok.(stdxml.StartElement); ok {
			return nil, errs.NewXMLSyntax("llsd element must hold a single value")
		}
	}

	// only whitespace and comments may follow the root element
	for {
		tok, err := p.token()
		if errors.Is(err, io.EOF) {
			return v, nil
		}
		if err != nil {
			return nil, err
		}
		if c, ok := tok.(stdxml.CharData); ok && len(bytes.TrimSpace(c)) == 0 {
			continue
		}
		return nil, errs.NewXMLSyntax("unexpected content after llsd element")
	}
}

func (p *parser) parseValue(start stdxml.StartElement, depth int) (types.Value, error) {
	if depth > p.opts.MaxDepth {
		return nil, errs.NewQuotaExceeded(errs.QuotaDepth, p.opts.MaxDepth)
	}

	switch start.Name.Local {
	case undefElement:
		if err := p.dec.Skip(); err != nil {
			return nil, errs.WrapXMLSyntax(err)
		}
		return types.NewUndefinedValue(), nil
	case arrayElement:
		return p.parseArray(depth)
	case mapElement:
		return p.parseMap(depth)
	case keyElement:
		return nil, errs.NewXMLSyntax("key element outside of a map")
	}

	text, err := p.readText()
	if err != nil {
		return nil, err
	}

	switch start.Name.Local {
	case booleanElement:
		return parseBoolean(text)
	case integerElement:
		return parseInteger(text)
	case realElement:
		return parseReal(text)
	case stringElement:
		return types.NewStringValue(text), nil
	case uuidElement:
		text = strings.TrimSpace(text)
		if text == "" {
			return types.NewUUIDValue(uuid.Nil), nil
		}
		u, err := types.ParseUUID(text)
		if err != nil {
			return nil, err
		}
		return types.NewUUIDValue(u), nil
	case dateElement:
		text = strings.TrimSpace(text)
		if text == "" {
			return types.NewDateValue(time.Unix(0, 0)), nil
		}
		t, err := types.ParseDate(text)
		if err != nil {
			return nil, err
		}
		return types.NewDateValue(t), nil
	case uriElement:
		return types.NewURIValue(text), nil
	case binaryElement:
		return parseBinary(attr(start, "encoding"), text)
	}

	return nil, errs.NewXMLSyntax("unknown element <" + start.Name.Local + ">")
}

// readText returns the text content of the current element and consumes
// its end tag. A nested <undef/> is accepted and yields empty content.
func (p *parser) readText() (string, error) {
	var sb strings.Builder
	for {
		tok, err := p.token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", errs.NewXMLSyntax("unexpected end of document")
			}
			return "", err
		}

		switch t := tok.(type) {
		case stdxml.CharData:
			sb.Write(t)
		case stdxml.EndElement:
			return sb.String(), nil
		case stdxml.StartElement:
			if t.Name.Local != undefElement {
				return "", errs.NewXMLSyntax("unexpected element <" + t.Name.Local + ">")
			}
			if err := p.dec.Skip(); err != nil {
				return "", errs.WrapXMLSyntax(err)
			}
		}
	}
}

func (p *parser) parseArray(depth int) (types.Value, error) {
	a := types.NewArrayValue()
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		start, ok := tok.(stdxml.StartElement)
		if !ok {
			return a, nil
		}

		if a.Len() >= p.opts.MaxElements {
			return nil, errs.NewQuotaExceeded(errs.QuotaElements, p.opts.MaxElements)
		}

		v, err := p.parseValue(start, depth+1)
		if err != nil {
			return nil, err
		}
		a.Append(v)
	}
}

func (p *parser) parseMap(depth int) (types.Value, error) {
	m := types.NewMapValue()
	count := 0
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		start, ok := tok.(stdxml.StartElement)
		if !ok {
			return m, nil
		}
		if start.Name.Local != keyElement {
			return nil, errs.NewXMLSyntax("expected <key>, got <" + start.Name.Local + ">")
		}

		key, err := p.readText()
		if err != nil {
			return nil, err
		}

		tok, err = p.next()
		if err != nil {
			return nil, err
		}
		start, ok = tok.(stdxml.StartElement)
		if !ok {
			return nil, errs.NewXMLSyntax("missing value for key " + strconv.Quote(key))
		}
		if start.Name.Local == keyElement {
			return nil, errs.NewXMLSyntax("missing value for key " + strconv.Quote(key))
		}

		count++
		if count > p.opts.MaxElements {
			return nil, errs.NewQuotaExceeded(errs.QuotaElements, p.opts.MaxElements)
		}

		v, err := p.parseValue(start, depth+1)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
}

func parseBoolean(text string) (types.Value, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "0", "false":
		return types.NewBooleanValue(false), nil
	case "1", "true":
		return types.NewBooleanValue(true), nil
	}

	return nil, errs.NewXMLSyntax("invalid boolean " + strconv.Quote(text))
}

func parseInteger(text string) (types.Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.NewIntegerValue(0), nil
	}

	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return nil, errs.NewInvalidNumber(strconv.Quote(text) + " is not a 32-bit integer")
	}

	return types.NewIntegerValue(int32(n)), nil
}

func parseReal(text string) (types.Value, error) {
	text = strings.TrimSpace(text)
	switch strings.ToLower(text) {
	case "":
		return types.NewRealValue(0), nil
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

func parseBinary(encoding, text string) (types.Value, error) {
	text = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, text)

	switch strings.ToLower(encoding) {
	case "", "base64":
		b, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			b, err = base64.RawStdEncoding.DecodeString(text)
		}
		if err != nil {
			return nil, errs.NewBadBase64(err)
		}
		return types.NewBinaryValue(b), nil
	case "base16":
		b, err := hex.DecodeString(text)
		if err != nil {
			return nil, errs.NewBadBase64(err)
		}
		return types.NewBinaryValue(b), nil
	}

	return nil, errs.NewXMLSyntax("unsupported binary encoding " + strconv.Quote(encoding))
}

func attr(start stdxml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}

	return ""
}
