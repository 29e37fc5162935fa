// Package json implements the JSON bridge.
//
// JSON has no native representation for uuids, dates, uris and binary
// payloads. By default they are written as strings, and strings are
// recognized back with a heuristic on read. With type preservation enabled,
// they are written as tunnel objects of the form
//
//	{"__type": "uuid", "value": "550e8400-e29b-41d4-a716-446655440000"}
//
// which the decoder always recognizes.
package json

// Tunnel object keys and kinds.
const (
	TypeKey  = "__type"
	ValueKey = "value"

	uuidKind   = "uuid"
	dateKind   = "date"
	uriKind    = "uri"
	binaryKind = "binary"
)

// Default quotas.
const (
	DefaultMaxDepth    = 1000
	DefaultMaxElements = 1_000_000
)

// Options configure a Decoder.
type Options struct {
	// StrictUUID accepts every form understood by uuid.Parse, including
	// braces, urn prefixes and undashed hex, instead of only the
	// 36 characters hyphenated form.
	StrictUUID bool
	// DetectTypes enables recognition of uuids, dates and uris in strings.
	DetectTypes bool
	// MaxDepth is the deepest nesting level allowed, the root value being at depth 0.
	MaxDepth int
	// MaxElements is the largest element count allowed for a single container.
	MaxElements int
}

// DefaultOptions returns the options used by NewDecoder.
func DefaultOptions() Options {
	return Options{
		DetectTypes: true,
		MaxDepth:    DefaultMaxDepth,
		MaxElements: DefaultMaxElements,
	}
}

// EncodeOptions configure an Encoder.
type EncodeOptions struct {
	// Pretty writes one member or element per line.
	Pretty bool
	// PreserveTypes writes uuids, dates, uris and binary payloads as tunnel objects.
	PreserveTypes bool
	// Indent is repeated once per nesting level in pretty mode.
	Indent string
}

// DefaultEncodeOptions returns the options used by NewEncoder.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Indent: "  "}
}
