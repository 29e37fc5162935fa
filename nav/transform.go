package nav

import (
	"fmt"
	"strings"

	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/types"
)

// MergeMaps returns a new map holding the entries of base overridden by the
// entries of overlay. When both sides hold a map under the same key, the two
// maps are merged recursively. Neither input is modified and the result
// shares no containers with them.
func MergeMaps(base, overlay *types.MapValue) *types.MapValue {
	out := types.NewMapValue()
	if base != nil {
		out = types.AsMap(types.Clone(base))
	}
	if overlay == nil {
		return out
	}

	_ = overlay.Iterate(func(k string, v types.Value) error {
		cur, ok := out.Get(k)
		if ok && cur.Type() == types.TypeMap && v.Type() == types.TypeMap {
			out.Set(k, MergeMaps(types.AsMap(cur), types.AsMap(v)))
			return nil
		}

		out.Set(k, types.Clone(v))
		return nil
	})

	return out
}

// FilterMap returns a new map holding the entries of m for which keep
// returns true, in their original order. Values are shared with m.
func FilterMap(m *types.MapValue, keep func(key string, v types.Value) bool) *types.MapValue {
	out := types.NewMapValue()
	if m == nil {
		return out
	}

	_ = m.Iterate(func(k string, v types.Value) error {
		if keep(k, v) {
			out.Set(k, v)
		}
		return nil
	})

	return out
}

// RemoveNulls returns a copy of v where map entries and array elements
// holding undefined are dropped at every level.
func RemoveNulls(v types.Value) types.Value {
	if v == nil {
		return types.NewUndefinedValue()
	}

	switch v.Type() {
	case types.TypeMap:
		m := types.AsMap(v)
		out := types.NewMapValueWithCapacity(m.Len())
		_ = m.Iterate(func(k string, x types.Value) error {
			if !types.IsUndefined(x) {
				out.Set(k, RemoveNulls(x))
			}
			return nil
		})
		return out
	case types.TypeArray:
		a := types.AsArray(v)
		out := types.NewArrayValueWithCapacity(a.Len())
		for _, x := range a.Values() {
			if !types.IsUndefined(x) {
				out.Append(RemoveNulls(x))
			}
		}
		return out
	}

	return types.Clone(v)
}

// IsEmpty reports whether v carries no data: undefined, an empty string,
// uri or binary, or a container without entries.
func IsEmpty(v types.Value) bool {
	if types.IsUndefined(v) {
		return true
	}

	switch v.Type() {
	case types.TypeString, types.TypeURI:
		return types.AsString(v) == ""
	case types.TypeBinary:
		return len(types.AsByteSlice(v)) == 0
	case types.TypeArray:
		return types.AsArray(v).Len() == 0
	case types.TypeMap:
		return types.AsMap(v).Len() == 0
	}

	return false
}

// MissingFields returns the paths that do not resolve to a non empty value.
func MissingFields(root types.Value, paths ...string) []string {
	var missing []string
	for _, p := range paths {
		v, ok := Get(root, p)
		if !ok || IsEmpty(v) {
			missing = append(missing, p)
		}
	}

	return missing
}

// RequireFields returns a MissingField error naming every path that is
// absent or empty.
func RequireFields(root types.Value, paths ...string) error {
	missing := MissingFields(root, paths...)
	if len(missing) == 0 {
		return nil
	}

	return errs.NewMissingField(strings.Join(missing, ", "))
}

// Stats describes the shape of a tree.
type Stats struct {
	// Elements counts every value, the root included.
	Elements int
	// Depth is the deepest nesting level. The root is at depth 0.
	Depth int
}

// Measure walks v once and returns its Stats.
func Measure(v types.Value) Stats {
	var s Stats
	measure(v, 0, &s)
	return s
}

func measure(v types.Value, depth int, s *Stats) {
	s.Elements++
	if depth > s.Depth {
		s.Depth = depth
	}
	if v == nil {
		return
	}

	switch v.Type() {
	case types.TypeArray:
		for _, x := range types.AsArray(v).Values() {
			measure(x, depth+1, s)
		}
	case types.TypeMap:
		_ = types.AsMap(v).Iterate(func(_ string, x types.Value) error {
			measure(x, depth+1, s)
			return nil
		})
	}
}

// CountElements returns the number of values in v, the root included.
func CountElements(v types.Value) int {
	return Measure(v).Elements
}

// MaxDepth returns the deepest nesting level of v. A leaf root has depth 0.
func MaxDepth(v types.Value) int {
	return Measure(v).Depth
}

// ValidateConstraints returns a Validation error if v is nested deeper than
// maxDepth or holds more than maxElements values. A negative limit is ignored.
func ValidateConstraints(v types.Value, maxDepth, maxElements int) error {
	s := Measure(v)
	if maxDepth >= 0 && s.Depth > maxDepth {
		return errs.NewValidation(fmt.Sprintf("depth %d exceeds limit %d", s.Depth, maxDepth))
	}
	if maxElements >= 0 && s.Elements > maxElements {
		return errs.NewValidation(fmt.Sprintf("%d elements exceed limit %d", s.Elements, maxElements))
	}

	return nil
}

// EqualWithTolerance compares two trees, treating reals within eps of each
// other as equal.
func EqualWithTolerance(a, b types.Value, eps float64) bool {
	return types.EqualWithTolerance(a, b, eps)
}
