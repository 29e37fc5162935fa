package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chaisql/llsd/types"
)

// MakeValue turns a Go value into a types.Value.
// int and int32 become integers, float64 becomes a real, []any becomes
// an array. Values that already implement types.Value are returned as is.
func MakeValue(t testing.TB, v any) types.Value {
	t.Helper()

	switch x := v.(type) {
	case nil:
		return types.NewUndefinedValue()
	case types.Value:
		return x
	case bool:
		return types.NewBooleanValue(x)
	case int:
		require.Equal(t, int(int32(x)), x, "integer out of range")
		return types.NewIntegerValue(int32(x))
	case int32:
		return types.NewIntegerValue(x)
	case float64:
		return types.NewRealValue(x)
	case string:
		return types.NewStringValue(x)
	case []byte:
		return types.NewBinaryValue(x)
	case uuid.UUID:
		return types.NewUUIDValue(x)
	case time.Time:
		return types.NewDateValue(x)
	case []any:
		return MakeArray(t, x...)
	}

	t.Fatalf("unsupported value %#v", v)
	return nil
}

// MakeArray creates an array from a list of Go values.
func MakeArray(t testing.TB, vs ...any) *types.ArrayValue {
	t.Helper()

	a := types.NewArrayValueWithCapacity(len(vs))
	for _, v := range vs {
		a.Append(MakeValue(t, v))
	}

	return a
}

// MakeMap creates a map from alternating keys and values.
func MakeMap(t testing.TB, kvs ...any) *types.MapValue {
	t.Helper()

	require.True(t, len(kvs)%2 == 0, "odd number of arguments")
	m := types.NewMapValueWithCapacity(len(kvs) / 2)
	for i := 0; i < len(kvs); i += 2 {
		k, ok := kvs[i].(string)
		require.True(t, ok, "key %v is not a string", kvs[i])
		m.Set(k, MakeValue(t, kvs[i+1]))
	}

	return m
}

// RequireValueEqual fails the test if want and got are not structurally
// equal, printing a diff of their textual representation.
func RequireValueEqual(t testing.TB, want, got types.Value) {
	t.Helper()

	if types.Equal(want, got) {
		return
	}

	if diff := cmp.Diff(types.Format(want), types.Format(got)); diff != "" {
		t.Fatalf("mismatch (-want, +got):\n%s", diff)
	}
	t.Fatalf("values differ with the same representation: %s", fmt.Sprintf("%#v != %#v", want, got))
}

// RequireDocEqual is RequireValueEqual for documents.
func RequireDocEqual(t testing.TB, want, got *types.Document) {
	t.Helper()

	RequireValueEqual(t, want.Root(), got.Root())
}
