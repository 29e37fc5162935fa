package types_test

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/internal/testutil/assert"
	"github.com/chaisql/llsd/types"
)

func TestFormatReal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{2, "2.0"},
		{-1.5, "-1.5"},
		{3.14159, "3.14159"},
		{1e21, "1e+21"},
		{1.2345e22, "1.2345e+22"},
		{1e-7, "1e-07"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}

	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			got := types.FormatReal(test.in)
			require.Equal(t, test.want, got)

			if !math.IsNaN(test.in) {
				f, err := strconv.ParseFloat(got, 64)
				require.NoError(t, err)
				require.Equal(t, math.Float64bits(test.in), math.Float64bits(f))
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in    string
		want  time.Time
		fails bool
	}{
		{"2024-03-01T12:30:00Z", time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), false},
		{"2024-03-01T12:30:00.123456789Z", time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.UTC), false},
		{"2024-03-01T14:30:00+02:00", time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), false},
		{"2024-03-01 12:30:00", time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), false},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"", time.Time{}, true},
		{"yesterday-ish", time.Time{}, true},
	}

	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			got, err := types.ParseDate(test.in)
			if test.fails {
				assert.ErrorIs(t, err, errs.BadDate)
				return
			}
			assert.NoError(t, err)
			require.True(t, test.want.Equal(got), "want %s, got %s", test.want, got)
			require.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := types.ParseRFC3339("2024-03-01 12:30:00")
	assert.ErrorIs(t, err, errs.BadDate)
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "2024-03-01T12:30:00Z", types.FormatDate(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)))
	require.Equal(t, "2024-03-01T12:30:00.25Z", types.FormatDate(time.Date(2024, 3, 1, 13, 30, 0, 250000000, time.FixedZone("", 3600))))
}

func TestUUIDShape(t *testing.T) {
	require.True(t, types.IsHyphenatedUUID("550e8400-e29b-41d4-a716-446655440000"))
	require.True(t, types.IsHyphenatedUUID("550E8400-E29B-41D4-A716-446655440000"))
	require.False(t, types.IsHyphenatedUUID("{550e8400-e29b-41d4-a716-446655440000}"))
	require.False(t, types.IsHyphenatedUUID("550e8400e29b41d4a716446655440000"))
	require.False(t, types.IsHyphenatedUUID("550e8400-e29b-41d4-a716-44665544000g"))

	u, err := types.ParseUUID("550E8400-E29B-41D4-A716-446655440000")
	assert.NoError(t, err)
	require.Equal(t, "550e8400-e29b-41d4-a716-446655440000", u.String())

	_, err = types.ParseUUID("not-a-uuid")
	assert.ErrorIs(t, err, errs.BadUUID)
}

func TestMarshalTextIndent(t *testing.T) {
	v := types.NewMapValue().
		Set("b", types.NewArrayValue(types.NewIntegerValue(1), types.NewRealValue(2))).
		Set("a", types.NewStringValue("x")).
		Set("c", types.NewMapValue())

	require.Equal(t, `{"a": "x", "b": [1, 2.0], "c": {}}`, v.String())
	require.Equal(t, `{
  "a": "x",
  "b": [
    1,
    2.0
  ],
  "c": {}
}`, types.Format(v))
}
