package llsd

import (
	"bytes"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/chaisql/llsd/codec/binary"
	"github.com/chaisql/llsd/codec/json"
	"github.com/chaisql/llsd/codec/notation"
	"github.com/chaisql/llsd/codec/xml"
	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/types"
)

// Format identifies an encoding.
type Format uint8

const (
	Binary Format = iota + 1
	XML
	JSON
	Notation
)

func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case XML:
		return "xml"
	case JSON:
		return "json"
	case Notation:
		return "notation"
	}

	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormatName returns the format named s, as returned by Format.String.
func ParseFormatName(s string) (Format, error) {
	for _, f := range []Format{Binary, XML, JSON, Notation} {
		if f.String() == s {
			return f, nil
		}
	}

	return 0, errors.Newf("unknown format %q", s)
}

// DetectFormat guesses the encoding of data.
// Data starting with the binary magic is Binary. Data whose first non space
// character is '<' is XML. Data that starts like a JSON value and decodes as
// JSON is JSON. Everything else is Notation.
func DetectFormat(data []byte) Format {
	if bytes.HasPrefix(data, binary.Magic[:]) {
		return Binary
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Notation
	}

	if trimmed[0] == '<' {
		return XML
	}

	if looksLikeJSON(trimmed) {
		_, err := json.NewDecoder().Decode(trimmed)
		if err == nil || errs.KindOf(err) == errs.QuotaExceeded {
			return JSON
		}
	}

	return Notation
}

func looksLikeJSON(b []byte) bool {
	switch c := b[0]; {
	case c == '{', c == '[', c == '"', c == '-', c >= '0' && c <= '9':
		return true
	}

	for _, lit := range []string{"true", "false", "null"} {
		if bytes.HasPrefix(b, []byte(lit)) {
			return true
		}
	}

	return false
}

// Parse decodes data in the encoding returned by DetectFormat.
func Parse(data []byte) (*types.Document, error) {
	return ParseFormat(data, DetectFormat(data))
}

// ParseFormat decodes data in the encoding f.
func ParseFormat(data []byte, f Format) (*types.Document, error) {
	switch f {
	case Binary:
		return ParseBinary(data)
	case XML:
		return ParseXML(data)
	case JSON:
		return ParseJSON(data)
	case Notation:
		return ParseNotation(data)
	}

	return nil, errors.Newf("unknown format %s", f)
}

// Serialize encodes doc in the encoding f. JSON is written with type
// preservation. Plain strings that look like a uuid, a date or a uri are
// still written as JSON strings, so Parse reads them back as those kinds.
func Serialize(doc *types.Document, f Format, pretty bool) ([]byte, error) {
	switch f {
	case Binary:
		return SerializeBinary(doc)
	case XML:
		return SerializeXML(doc, pretty)
	case JSON:
		return SerializeJSONWithTypes(doc, pretty)
	case Notation:
		return SerializeNotation(doc, pretty)
	}

	return nil, errors.Newf("unknown format %s", f)
}

// ParseBinary decodes a binary document. The magic is required.
func ParseBinary(data []byte) (*types.Document, error) {
	return binary.NewDecoder().Decode(data)
}

// ParseXML decodes an XML document.
func ParseXML(data []byte) (*types.Document, error) {
	return xml.NewDecoder().Decode(data)
}

// ParseJSON decodes a JSON document, recognizing tunnel objects and
// uuids, dates and uris written as strings.
func ParseJSON(data []byte) (*types.Document, error) {
	return json.NewDecoder().Decode(data)
}

// ParseNotation decodes a notation document.
func ParseNotation(data []byte) (*types.Document, error) {
	return notation.NewDecoder().Decode(data)
}

// SerializeBinary encodes doc in the binary encoding, magic included.
func SerializeBinary(doc *types.Document) ([]byte, error) {
	return binary.NewEncoder().Encode(doc)
}

// SerializeXML encodes doc in XML.
func SerializeXML(doc *types.Document, pretty bool) ([]byte, error) {
	return xml.NewEncoder().WithPretty(pretty).Encode(doc)
}

// SerializeJSON encodes doc in JSON without type preservation.
func SerializeJSON(doc *types.Document, pretty bool) ([]byte, error) {
	return json.NewEncoder().WithPretty(pretty).Encode(doc)
}

// SerializeJSONWithTypes encodes doc in JSON, writing uuids, dates, uris and
// binary payloads as tunnel objects.
func SerializeJSONWithTypes(doc *types.Document, pretty bool) ([]byte, error) {
	return json.NewEncoder().WithPretty(pretty).WithPreserveTypes(true).Encode(doc)
}

// SerializeNotation encodes doc in the notation.
func SerializeNotation(doc *types.Document, pretty bool) ([]byte, error) {
	return notation.NewEncoder().WithPretty(pretty).Encode(doc)
}
