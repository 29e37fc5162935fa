// Package notation implements the compact notation encoding, where each
// value starts with a sigil identifying its kind:
//
//	!                       undefined
//	1 0 t f true false      booleans
//	i42                     integer
//	r3.25 rnan rinf r-inf   real
//	u550e8400-e29b-...      uuid
//	'text' "text" s(4)"text" strings
//	l"https://example.com"  uri
//	d"2024-03-01T12:00:00Z" date
//	b64"aGk=" b16"6869" b(2)"hi" binary
//	[v, v]                  array
//	{'key':v, key:v}        map
package notation

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
	// Pretty writes one member or element per line.
	Pretty bool
	// Indent is repeated once per nesting level in pretty mode.
	Indent string
}

// DefaultEncodeOptions returns the options used by NewEncoder.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Indent: "  "}
}
