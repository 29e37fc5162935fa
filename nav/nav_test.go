package nav_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/internal/testutil"
	"github.com/chaisql/llsd/internal/testutil/assert"
	"github.com/chaisql/llsd/nav"
	"github.com/chaisql/llsd/types"
)

var (
	sampleID   = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	sampleDate = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func sample(t *testing.T) types.Value {
	return testutil.MakeMap(t,
		"user", testutil.MakeMap(t,
			"name", "alice",
			"age", 30,
			"score", 4.0,
			"ratio", 0.5,
			"active", true,
			"id", sampleID,
			"idText", sampleID.String(),
			"joined", sampleDate,
			"home", types.NewURIValue("https://example.com"),
			"avatar", []byte{1, 2},
			"tags", []any{"a", "b", testutil.MakeMap(t, "x", 1)},
		),
		"a.b", "dotted",
		"empty", "",
	)
}

func TestGet(t *testing.T) {
	root := sample(t)

	tests := []struct {
		path string
		want types.Value
		ok   bool
	}{
		{"", root, true},
		{"user.name", types.NewStringValue("alice"), true},
		{"user.tags.1", types.NewStringValue("b"), true},
		{"user.tags.2.x", types.NewIntegerValue(1), true},
		{"user.tags.3", nil, false},
		{"user.tags.-1", nil, false},
		{"user.tags.x", nil, false},
		{"user.name.first", nil, false},
		{"user.missing", nil, false},
		{"a.b", nil, false},
	}

	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			v, ok := nav.Get(root, test.path)
			require.Equal(t, test.ok, ok)
			if test.ok {
				testutil.RequireValueEqual(t, test.want, v)
			}
		})
	}

	v, ok := nav.GetSegments(root, []string{"a.b"})
	require.True(t, ok)
	require.Equal(t, "dotted", types.AsString(v))
}

func TestLookup(t *testing.T) {
	root := sample(t)

	_, err := nav.Lookup(root, "user.missing")
	assert.ErrorIs(t, err, errs.PathNotFound)
	require.Contains(t, err.Error(), "user.missing")

	_, err = nav.Lookup(root, "user.tags.9")
	assert.ErrorIs(t, err, errs.IndexOutOfBounds)

	_, err = nav.Lookup(root, "user.tags.first")
	assert.ErrorIs(t, err, errs.TypeMismatch)

	_, err = nav.Lookup(root, "user.age.x")
	assert.ErrorIs(t, err, errs.TypeMismatch)

	v, err := nav.Lookup(root, "user.age")
	assert.NoError(t, err)
	require.Equal(t, int32(30), types.AsInt32(v))
}

func TestSegments(t *testing.T) {
	require.Nil(t, nav.Segments(""))
	require.Equal(t, []string{"a", "0", "b"}, nav.Segments("a.0.b"))
}

func TestTypedGetters(t *testing.T) {
	root := sample(t)
	other := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	require.Equal(t, "alice", nav.GetString(root, "user.name", "x"))
	require.Equal(t, "https://example.com", nav.GetString(root, "user.home", "x"))
	require.Equal(t, "x", nav.GetString(root, "user.age", "x"))
	require.Equal(t, "x", nav.GetString(root, "nope", "x"))

	require.Equal(t, "alice", nav.GetURI(root, "user.name", "x"))
	require.Equal(t, "https://example.com", nav.GetURI(root, "user.home", "x"))

	require.Equal(t, int32(30), nav.GetInteger(root, "user.age", -1))
	require.Equal(t, int32(4), nav.GetInteger(root, "user.score", -1))
	require.Equal(t, int32(-1), nav.GetInteger(root, "user.ratio", -1))
	require.Equal(t, int32(-1), nav.GetInteger(root, "user.name", -1))

	require.Equal(t, 0.5, nav.GetReal(root, "user.ratio", -1))
	require.Equal(t, 30.0, nav.GetReal(root, "user.age", -1))
	require.Equal(t, -1.0, nav.GetReal(root, "user.active", -1))

	require.True(t, nav.GetBoolean(root, "user.active", false))
	require.True(t, nav.GetBoolean(root, "user.age", true))

	require.Equal(t, sampleID, nav.GetUUID(root, "user.id", other))
	require.Equal(t, sampleID, nav.GetUUID(root, "user.idText", other))
	require.Equal(t, other, nav.GetUUID(root, "user.name", other))

	require.True(t, sampleDate.Equal(nav.GetDate(root, "user.joined", time.Time{})))
	require.True(t, nav.GetDate(root, "user.name", time.Time{}).IsZero())

	require.Equal(t, []byte{1, 2}, nav.GetBinary(root, "user.avatar", nil))
	require.Nil(t, nav.GetBinary(root, "user.name", nil))
}

func TestSet(t *testing.T) {
	root := sample(t)

	require.True(t, nav.Set(root, "user.name", types.NewStringValue("bob")))
	require.Equal(t, "bob", nav.GetString(root, "user.name", ""))

	require.True(t, nav.Set(root, "user.nick", types.NewStringValue("b")))
	require.Equal(t, "b", nav.GetString(root, "user.nick", ""))

	require.True(t, nav.Set(root, "user.tags.0", types.NewIntegerValue(7)))
	require.Equal(t, int32(7), nav.GetInteger(root, "user.tags.0", 0))

	// no auto-create, no array growth
	require.False(t, nav.Set(root, "user.tags.3", types.NewIntegerValue(1)))
	require.False(t, nav.Set(root, "profile.name", types.NewStringValue("x")))
	require.False(t, nav.Set(root, "user.name.first", types.NewStringValue("x")))
	require.False(t, nav.Set(root, "", types.NewStringValue("x")))
	require.Equal(t, 3, types.AsArray(mustGet(t, root, "user.tags")).Len())

	require.True(t, nav.SetSegments(root, []string{"a.b"}, types.NewIntegerValue(1)))
	v, _ := nav.GetSegments(root, []string{"a.b"})
	require.Equal(t, int32(1), types.AsInt32(v))
}

func mustGet(t *testing.T, root types.Value, path string) types.Value {
	t.Helper()

	v, err := nav.Lookup(root, path)
	assert.NoError(t, err)
	return v
}

func TestMergeMaps(t *testing.T) {
	base := testutil.MakeMap(t,
		"a", 1,
		"nested", testutil.MakeMap(t, "x", 1, "y", 2),
		"list", []any{1},
	)
	overlay := testutil.MakeMap(t,
		"b", 2,
		"nested", testutil.MakeMap(t, "y", 3, "z", 4),
		"list", []any{2},
	)

	got := nav.MergeMaps(types.AsMap(base), types.AsMap(overlay))
	want := testutil.MakeMap(t,
		"a", 1,
		"nested", testutil.MakeMap(t, "x", 1, "y", 3, "z", 4),
		"list", []any{2},
		"b", 2,
	)
	testutil.RequireValueEqual(t, want, got)

	// inputs are untouched and not aliased
	testutil.RequireValueEqual(t, types.NewIntegerValue(2), mustGet(t, base, "nested.y"))
	require.True(t, nav.Set(got, "nested.x", types.NewIntegerValue(9)))
	testutil.RequireValueEqual(t, types.NewIntegerValue(1), mustGet(t, base, "nested.x"))

	// a non map value in the overlay replaces a map in the base
	got = nav.MergeMaps(types.AsMap(base), types.AsMap(testutil.MakeMap(t, "nested", "flat")))
	require.Equal(t, "flat", nav.GetString(got, "nested", ""))

	require.Equal(t, 0, nav.MergeMaps(nil, nil).Len())
}

func TestFilterMap(t *testing.T) {
	m := types.AsMap(testutil.MakeMap(t, "a", 1, "b", "x", "c", 3))

	got := nav.FilterMap(m, func(_ string, v types.Value) bool {
		return v.Type() == types.TypeInteger
	})
	testutil.RequireValueEqual(t, testutil.MakeMap(t, "a", 1, "c", 3), got)
	require.Equal(t, 3, m.Len())
}

func TestRemoveNulls(t *testing.T) {
	v := testutil.MakeMap(t,
		"a", nil,
		"b", 1,
		"c", testutil.MakeMap(t, "d", nil, "e", []any{nil, 2, testutil.MakeMap(t, "f", nil)}),
	)

	got := nav.RemoveNulls(v)
	want := testutil.MakeMap(t,
		"b", 1,
		"c", testutil.MakeMap(t, "e", []any{2, testutil.MakeMap(t)}),
	)
	testutil.RequireValueEqual(t, want, got)

	// the input keeps its entries
	require.Equal(t, 3, types.AsMap(v).Len())
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		v    types.Value
		want bool
	}{
		{nil, true},
		{types.NewUndefinedValue(), true},
		{types.NewStringValue(""), true},
		{types.NewURIValue(""), true},
		{types.NewBinaryValue(nil), true},
		{types.NewArrayValue(), true},
		{types.NewMapValue(), true},
		{types.NewStringValue("x"), false},
		{types.NewIntegerValue(0), false},
		{types.NewBooleanValue(false), false},
		{types.NewUUIDValue(uuid.Nil), false},
		{testutil.MakeArray(t, nil), false},
	}

	for _, test := range tests {
		require.Equalf(t, test.want, nav.IsEmpty(test.v), "%v", test.v)
	}
}

func TestRequireFields(t *testing.T) {
	root := sample(t)

	assert.NoError(t, nav.RequireFields(root, "user.name", "user.tags.0"))

	err := nav.RequireFields(root, "user.name", "empty", "user.missing")
	assert.ErrorIs(t, err, errs.MissingField)
	require.Contains(t, err.Error(), "empty, user.missing")
	require.Equal(t, []string{"empty", "user.missing"}, nav.MissingFields(root, "user.name", "empty", "user.missing"))
}

func TestCounters(t *testing.T) {
	require.Equal(t, 1, nav.CountElements(types.NewIntegerValue(1)))
	require.Equal(t, 0, nav.MaxDepth(types.NewIntegerValue(1)))

	v := testutil.MakeMap(t, "a", testutil.MakeMap(t, "b", testutil.MakeMap(t, "c", testutil.MakeMap(t, "d", "x"))))
	require.Equal(t, 5, nav.CountElements(v))
	require.Equal(t, 4, nav.MaxDepth(v))

	w := testutil.MakeArray(t, 1, 2, []any{3, 4})
	require.Equal(t, nav.Stats{Elements: 6, Depth: 2}, nav.Measure(w))
}

func TestValidateConstraints(t *testing.T) {
	v := testutil.MakeMap(t, "a", testutil.MakeMap(t, "b", testutil.MakeMap(t, "c", testutil.MakeMap(t, "d", "x"))))

	assert.NoError(t, nav.ValidateConstraints(v, 4, 5))
	assert.ErrorIs(t, nav.ValidateConstraints(v, 3, 5), errs.Validation)
	assert.ErrorIs(t, nav.ValidateConstraints(v, 4, 4), errs.Validation)
	assert.NoError(t, nav.ValidateConstraints(v, -1, -1))
}

func TestEqualWithTolerance(t *testing.T) {
	a := testutil.MakeArray(t, 1.0, 2, "x")
	b := testutil.MakeArray(t, 1.0005, 2.0001, "x")

	require.True(t, nav.EqualWithTolerance(a, b, 0.001))
	require.False(t, nav.EqualWithTolerance(a, b, 0.0001))
}
