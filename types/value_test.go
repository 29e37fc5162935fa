package types_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/internal/testutil/assert"
	"github.com/chaisql/llsd/types"
)

func TestMapValue(t *testing.T) {
	m := types.NewMapValue()
	m.Set("b", types.NewIntegerValue(1))
	m.Set("a", types.NewIntegerValue(2))
	m.Set("b", types.NewIntegerValue(3))

	t.Run("Keys keep first insertion order", func(t *testing.T) {
		require.Equal(t, []string{"b", "a"}, m.Keys())
		require.Equal(t, 2, m.Len())
	})

	t.Run("Last write wins", func(t *testing.T) {
		v, ok := m.Get("b")
		require.True(t, ok)
		require.Equal(t, types.NewIntegerValue(3), v)
	})

	t.Run("GetByField", func(t *testing.T) {
		_, err := m.GetByField("nope")
		assert.ErrorIs(t, err, errs.MissingField)
	})

	t.Run("Delete", func(t *testing.T) {
		cp := types.Clone(m).(*types.MapValue)
		require.True(t, cp.Delete("b"))
		require.False(t, cp.Delete("b"))
		require.Equal(t, []string{"a"}, cp.Keys())
		require.Equal(t, 2, m.Len())
	})
}

func TestArrayValue(t *testing.T) {
	a := types.NewArrayValue(types.NewStringValue("x"), types.NewBooleanValue(true))

	v, err := a.GetByIndex(1)
	assert.NoError(t, err)
	require.Equal(t, types.NewBooleanValue(true), v)

	_, err = a.GetByIndex(2)
	assert.ErrorIs(t, err, errs.IndexOutOfBounds)

	assert.NoError(t, a.Replace(0, types.NewIntegerValue(9)))
	assert.ErrorIs(t, a.Replace(5, types.NewIntegerValue(9)), errs.IndexOutOfBounds)
	require.Equal(t, 2, a.Len())
}

func TestDocument(t *testing.T) {
	d := types.NewDocument(nil)
	require.Equal(t, types.TypeUndefined, d.Type())

	d.SetRoot(types.NewRealValue(1.5))
	require.Equal(t, types.TypeReal, d.Type())

	var nilDoc *types.Document
	require.Equal(t, types.TypeUndefined, nilDoc.Root().Type())
}

func TestEqual(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	now := time.Date(2024, 3, 1, 12, 0, 0, 500, time.UTC)

	tests := []struct {
		name string
		a, b types.Value
		want bool
	}{
		{"undef", types.NewUndefinedValue(), nil, true},
		{"int", types.NewIntegerValue(1), types.NewIntegerValue(1), true},
		{"int vs real", types.NewIntegerValue(1), types.NewRealValue(1), false},
		{"nan", types.NewRealValue(math.NaN()), types.NewRealValue(math.NaN()), false},
		{"signed zero", types.NewRealValue(0), types.NewRealValue(math.Copysign(0, -1)), false},
		{"string vs uri", types.NewStringValue("a"), types.NewURIValue("a"), false},
		{"uuid", types.NewUUIDValue(id), types.NewUUIDValue(id), true},
		{"date other zone", types.NewDateValue(now), types.DateValue(now.In(time.FixedZone("x", 3600))), true},
		{"binary", types.NewBinaryValue([]byte{1, 2}), types.NewBinaryValue([]byte{1, 2}), true},
		{"empty binary", types.NewBinaryValue(nil), types.NewBinaryValue([]byte{}), true},
		{"array order", types.NewArrayValue(types.NewIntegerValue(1), types.NewIntegerValue(2)), types.NewArrayValue(types.NewIntegerValue(2), types.NewIntegerValue(1)), false},
		{"map order", types.NewMapValue().Set("a", types.NewIntegerValue(1)).Set("b", types.NewIntegerValue(2)), types.NewMapValue().Set("b", types.NewIntegerValue(2)).Set("a", types.NewIntegerValue(1)), true},
		{"map value", types.NewMapValue().Set("a", types.NewIntegerValue(1)), types.NewMapValue().Set("a", types.NewIntegerValue(2)), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, types.Equal(test.a, test.b))
		})
	}
}

func TestEqualWithTolerance(t *testing.T) {
	a := types.NewMapValue().
		Set("x", types.NewRealValue(1.0)).
		Set("y", types.NewArrayValue(types.NewIntegerValue(3), types.NewStringValue("s")))
	b := types.NewMapValue().
		Set("x", types.NewRealValue(1.0005)).
		Set("y", types.NewArrayValue(types.NewRealValue(3.0004), types.NewStringValue("s")))

	require.True(t, types.EqualWithTolerance(a, b, 0.001))
	require.False(t, types.EqualWithTolerance(a, b, 0.0001))
	require.False(t, types.Equal(a, b))

	require.True(t, types.EqualWithTolerance(types.NewIntegerValue(10), types.NewIntegerValue(12), 2))
	require.False(t, types.EqualWithTolerance(types.NewStringValue("a"), types.NewStringValue("b"), 100))
	require.False(t, types.EqualWithTolerance(types.NewRealValue(math.NaN()), types.NewRealValue(math.NaN()), 1))
	require.True(t, types.EqualWithTolerance(types.NewRealValue(math.Inf(1)), types.NewRealValue(math.Inf(1)), 0))
}

func TestClone(t *testing.T) {
	payload := []byte{1, 2, 3}
	orig := types.NewMapValue().
		Set("bin", types.NewBinaryValue(payload)).
		Set("list", types.NewArrayValue(types.NewIntegerValue(1)))

	cp := types.Clone(orig).(*types.MapValue)
	require.True(t, types.Equal(orig, cp))

	payload[0] = 9
	v, _ := cp.Get("bin")
	require.Equal(t, byte(1), types.AsByteSlice(v)[0])

	l, _ := cp.Get("list")
	types.AsArray(l).Append(types.NewIntegerValue(2))
	ol, _ := orig.Get("list")
	require.Equal(t, 1, types.AsArray(ol).Len())

	require.Equal(t, types.TypeUndefined, types.Clone(nil).Type())
}
