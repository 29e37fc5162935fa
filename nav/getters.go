package nav

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/chaisql/llsd/types"
)

// GetString returns the string or uri at path, or def.
func GetString(root types.Value, path string, def string) string {
	v, ok := Get(root, path)
	if !ok {
		return def
	}

	switch v.Type() {
	case types.TypeString, types.TypeURI:
		return types.AsString(v)
	}

	return def
}

// GetURI returns the uri or string at path, or def.
func GetURI(root types.Value, path string, def string) string {
	return GetString(root, path, def)
}

// GetInteger returns the integer at path, or def.
// A real holding an integral value in the 32-bit range is converted.
func GetInteger(root types.Value, path string, def int32) int32 {
	v, ok := Get(root, path)
	if !ok {
		return def
	}

	switch v.Type() {
	case types.TypeInteger:
		return types.AsInt32(v)
	case types.TypeReal:
		f := types.AsFloat64(v)
		if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
			return int32(f)
		}
	}

	return def
}

// GetReal returns the real or integer at path, or def.
func GetReal(root types.Value, path string, def float64) float64 {
	v, ok := Get(root, path)
	if !ok {
		return def
	}

	switch v.Type() {
	case types.TypeReal:
		return types.AsFloat64(v)
	case types.TypeInteger:
		return float64(types.AsInt32(v))
	}

	return def
}

// GetBoolean returns the boolean at path, or def.
func GetBoolean(root types.Value, path string, def bool) bool {
	v, ok := Get(root, path)
	if !ok || v.Type() != types.TypeBoolean {
		return def
	}

	return types.AsBool(v)
}

// GetUUID returns the uuid at path, or def.
// A string holding an uuid is parsed.
func GetUUID(root types.Value, path string, def uuid.UUID) uuid.UUID {
	v, ok := Get(root, path)
	if !ok {
		return def
	}

	switch v.Type() {
	case types.TypeUUID:
		return types.AsUUID(v)
	case types.TypeString:
		u, err := uuid.Parse(types.AsString(v))
		if err == nil {
			return u
		}
	}

	return def
}

// GetDate returns the date at path, or def.
func GetDate(root types.Value, path string, def time.Time) time.Time {
	v, ok := Get(root, path)
	if !ok || v.Type() != types.TypeDate {
		return def
	}

	return types.AsTime(v)
}

// GetBinary returns the binary payload at path, or def.
// The returned slice is shared with the tree.
func GetBinary(root types.Value, path string, def []byte) []byte {
	v, ok := Get(root, path)
	if !ok || v.Type() != types.TypeBinary {
		return def
	}

	return types.AsByteSlice(v)
}
