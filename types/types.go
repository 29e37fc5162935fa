// Package types defines the in-memory value model: one Go type per
// primitive kind, arrays, maps and the Document wrapper.
package types

import "fmt"

// Type represents one of the primitive kinds of the format.
type Type uint8

// List of supported types.
const (
	TypeUndefined Type = iota
	TypeBoolean
	TypeInteger
	TypeReal
	TypeString
	TypeUUID
	TypeDate
	TypeURI
	TypeBinary
	TypeArray
	TypeMap
)

func (t Type) String() string {
	switch t {
	case TypeUndefined:
		return "undef"
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeString:
		return "string"
	case TypeUUID:
		return "uuid"
	case TypeDate:
		return "date"
	case TypeURI:
		return "uri"
	case TypeBinary:
		return "binary"
	case TypeArray:
		return "array"
	case TypeMap:
		return "map"
	}

	panic(fmt.Sprintf("unsupported type %#v", t))
}

// IsNumber returns true if t is either an integer or a real.
func (t Type) IsNumber() bool {
	return t == TypeInteger || t == TypeReal
}

// IsContainer returns true if t is an array or a map.
func (t Type) IsContainer() bool {
	return t == TypeArray || t == TypeMap
}

// IsTextual returns true if t is a string or an uri.
func (t Type) IsTextual() bool {
	return t == TypeString || t == TypeURI
}

// A Value is any value of the format.
type Value interface {
	Type() Type
	V() any
	String() string
}
