// Package xml implements the XML encoding.
//
// A document is an <llsd> root element holding exactly one value element.
// Maps are written as flat <key>NAME</key> / value element pairs.
package xml

// Header is written at the beginning of every encoded document.
const Header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Element names.
const (
	rootElement    = "llsd"
	undefElement   = "undef"
	booleanElement = "boolean"
	integerElement = "integer"
	realElement    = "real"
	stringElement  = "string"
	uuidElement    = "uuid"
	dateElement    = "date"
	uriElement     = "uri"
	binaryElement  = "binary"
	arrayElement   = "array"
	mapElement     = "map"
	keyElement     = "key"
)

// Default quotas.
const (
	DefaultMaxDepth    = 1000
	DefaultMaxElements = 1_000_000
)

// Options configure a Decoder.
type Options struct {
	// MaxDepth is the deepest nesting level allowed, the root value being at depth 0.
	MaxDepth int
	// MaxElements is the largest element count allowed for a single container.
	MaxElements int
}

// DefaultOptions returns the options used by NewDecoder.
func DefaultOptions() Options {
	return Options{
		MaxDepth:    DefaultMaxDepth,
		MaxElements: DefaultMaxElements,
	}
}

// EncodeOptions configure an Encoder.
type EncodeOptions struct {
	// Pretty writes one element per line.
	Pretty bool
	// Indent is repeated once per nesting level in pretty mode.
	Indent string
}

// DefaultEncodeOptions returns the options used by NewEncoder.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Indent: "  "}
}
