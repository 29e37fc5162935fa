package types

import (
	"bytes"
	"math"

	"golang.org/x/exp/constraints"
)

// Equal reports whether a and b are structurally equal.
// Reals are compared bit for bit, except NaN which never equals anything.
// Dates are compared as instants.
func Equal(a, b Value) bool {
	if IsUndefined(a) || IsUndefined(b) {
		return IsUndefined(a) && IsUndefined(b)
	}

	if a.Type() != b.Type() {
		return false
	}

	switch a.Type() {
	case TypeBoolean:
		return AsBool(a) == AsBool(b)
	case TypeInteger:
		return AsInt32(a) == AsInt32(b)
	case TypeReal:
		return realEqual(AsFloat64(a), AsFloat64(b))
	case TypeString, TypeURI:
		return AsString(a) == AsString(b)
	case TypeUUID:
		return AsUUID(a) == AsUUID(b)
	case TypeDate:
		return AsTime(a).Equal(AsTime(b))
	case TypeBinary:
		return bytes.Equal(AsByteSlice(a), AsByteSlice(b))
	case TypeArray:
		return equalArrays(AsArray(a), AsArray(b), Equal)
	case TypeMap:
		return equalMaps(AsMap(a), AsMap(b), Equal)
	}

	return false
}

// EqualWithTolerance behaves like Equal, except that integer and real
// leaves are equal when their absolute difference is at most eps.
func EqualWithTolerance(a, b Value, eps float64) bool {
	var eq func(a, b Value) bool
	eq = func(a, b Value) bool {
		if !IsUndefined(a) && !IsUndefined(b) && a.Type().IsNumber() && b.Type().IsNumber() {
			if a.Type() == TypeInteger && b.Type() == TypeInteger {
				return float64(absDiff(int64(AsInt32(a)), int64(AsInt32(b)))) <= eps
			}
			x, y := toFloat(a), toFloat(b)
			if math.IsNaN(x) || math.IsNaN(y) {
				return false
			}
			if x == y {
				return true
			}
			return absDiff(x, y) <= eps
		}

		if IsUndefined(a) || IsUndefined(b) || a.Type() != b.Type() {
			return Equal(a, b)
		}

		switch a.Type() {
		case TypeArray:
			return equalArrays(AsArray(a), AsArray(b), eq)
		case TypeMap:
			return equalMaps(AsMap(a), AsMap(b), eq)
		}

		return Equal(a, b)
	}

	return eq(a, b)
}

func realEqual(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}

	return math.Float64bits(x) == math.Float64bits(y)
}

func toFloat(v Value) float64 {
	if v.Type() == TypeInteger {
		return float64(AsInt32(v))
	}

	return AsFloat64(v)
}

func absDiff[T constraints.Signed | constraints.Float](a, b T) T {
	if a > b {
		return a - b
	}

	return b - a
}

func equalArrays(a, b *ArrayValue, eq func(a, b Value) bool) bool {
	if a.Len() != b.Len() {
		return false
	}

	for i := range a.values {
		if !eq(a.values[i], b.values[i]) {
			return false
		}
	}

	return true
}

func equalMaps(a, b *MapValue, eq func(a, b Value) bool) bool {
	if a.Len() != b.Len() {
		return false
	}

	for k, av := range a.values {
		bv, ok := b.values[k]
		if !ok || !eq(av, bv) {
			return false
		}
	}

	return true
}
