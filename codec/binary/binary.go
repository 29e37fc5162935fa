// Package binary implements the tagged binary encoding.
//
// A stream optionally starts with the 4 bytes "llsd", followed by a single
// value. Each value is a one byte tag followed by a tag specific payload.
// All integers are big-endian.
package binary

// Magic is written at the start of a stream.
var Magic = [4]byte{0x6C, 0x6C, 0x73, 0x64}

// Type tags.
const (
	UndefinedTag byte = 0
	BooleanTag   byte = 1
	IntegerTag   byte = 2
	RealTag      byte = 3
	StringTag    byte = 4
	UUIDTag      byte = 5
	// DateTag is followed by seconds since the epoch as a float64.
	// Dates are decoded to the nearest microsecond.
	DateTag      byte = 6
	URITag       byte = 7
	BinaryTag    byte = 8
	ArrayTag     byte = 9
	MapTag       byte = 10
)

// Default quotas.
const (
	DefaultMaxDepth    = 1000
	DefaultMaxElements = 1_000_000
)

// Options configure a Decoder.
type Options struct {
	// ValidateMagic requires the stream to start with Magic.
	// When false, a leading magic is skipped if present.
	ValidateMagic bool
	// MaxDepth is the deepest nesting level allowed, the root being at depth 0.
	MaxDepth int
	// MaxElements is the largest element count allowed for a single container.
	MaxElements int
}

// DefaultOptions returns the options used by NewDecoder.
func DefaultOptions() Options {
	return Options{
		ValidateMagic: true,
		MaxDepth:      DefaultMaxDepth,
		MaxElements:   DefaultMaxElements,
	}
}

// EncodeOptions configure an Encoder.
type EncodeOptions struct {
	WriteMagic bool
}

// DefaultEncodeOptions returns the options used by NewEncoder.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{WriteMagic: true}
}
