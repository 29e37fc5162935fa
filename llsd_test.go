package llsd_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chaisql/llsd"
	"github.com/chaisql/llsd/cache"
	"github.com/chaisql/llsd/codec/binary"
	"github.com/chaisql/llsd/codec/xml"
	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/internal/testutil"
	"github.com/chaisql/llsd/internal/testutil/assert"
	"github.com/chaisql/llsd/nav"
	"github.com/chaisql/llsd/types"
)

func sampleDoc(t *testing.T) *types.Document {
	return types.NewDocument(testutil.MakeMap(t,
		"undef", nil,
		"bool", true,
		"int", int32(math.MaxInt32),
		"real", -0.125,
		"str", "hello & <world>",
		"id", uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		"when", time.Date(2024, 3, 1, 12, 30, 15, 250000000, time.UTC),
		"uri", types.NewURIValue("https://example.com/x?y=1"),
		"bin", []byte("binary\x00data"),
		"list", []any{1, "two", []any{}, testutil.MakeMap(t)},
	))
}

func TestRoundTripAllFormats(t *testing.T) {
	doc := sampleDoc(t)

	for _, f := range []llsd.Format{llsd.Binary, llsd.XML, llsd.JSON, llsd.Notation} {
		for _, pretty := range []bool{false, true} {
			t.Run(f.String(), func(t *testing.T) {
				data, err := llsd.Serialize(doc, f, pretty)
				assert.NoError(t, err)

				require.Equal(t, f, llsd.DetectFormat(data))

				got, err := llsd.Parse(data)
				assert.NoErrorf(t, err, "cannot parse %s", data)
				testutil.RequireDocEqual(t, doc, got)
			})
		}
	}
}

func TestJSONLossy(t *testing.T) {
	doc := sampleDoc(t)

	data, err := llsd.SerializeJSON(doc, false)
	assert.NoError(t, err)

	got, err := llsd.ParseJSON(data)
	assert.NoError(t, err)
	require.Equal(t, doc.Type(), got.Type())

	// the binary payload comes back as its base64 text
	bin, ok := nav.Get(got.Root(), "bin")
	require.True(t, ok)
	require.Equal(t, types.TypeString, bin.Type())
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		in   string
		want llsd.Format
	}{
		{"llsd\x02\x00\x00\x00\x01", llsd.Binary},
		{"  <?xml version=\"1.0\"?><llsd><undef /></llsd>", llsd.XML},
		{"<llsd><integer>1</integer></llsd>", llsd.XML},
		{`{"a": 1}`, llsd.JSON},
		{` [1, 2] `, llsd.JSON},
		{`"text"`, llsd.JSON},
		{`-1.5`, llsd.JSON},
		{`null`, llsd.JSON},
		{`{'a':i1}`, llsd.Notation},
		{`[i1, r2]`, llsd.Notation},
		{`i42`, llsd.Notation},
		{`!`, llsd.Notation},
		{``, llsd.Notation},
	}

	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			require.Equal(t, test.want, llsd.DetectFormat([]byte(test.in)))
		})
	}
}

func TestFormatNames(t *testing.T) {
	for _, f := range []llsd.Format{llsd.Binary, llsd.XML, llsd.JSON, llsd.Notation} {
		got, err := llsd.ParseFormatName(f.String())
		assert.NoError(t, err)
		require.Equal(t, f, got)
	}

	_, err := llsd.ParseFormatName("yaml")
	assert.Error(t, err)

	_, err = llsd.ParseFormat([]byte("!"), llsd.Format(42))
	assert.Error(t, err)
}

func TestBinaryNilUUIDLayout(t *testing.T) {
	doc := types.NewDocument(types.NewUUIDValue(uuid.Nil))

	data, err := llsd.SerializeBinary(doc)
	assert.NoError(t, err)
	require.Equal(t, []byte{
		0x6C, 0x6C, 0x73, 0x64, 0x05,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}, data)

	got, err := llsd.ParseBinary(data)
	assert.NoError(t, err)
	require.Equal(t, uuid.Nil, types.AsUUID(got.Root()))
}

func TestXMLEscapesReservedCharacters(t *testing.T) {
	doc := types.NewDocument(testutil.MakeMap(t, "greeting", "hello & <world>"))

	data, err := llsd.SerializeXML(doc, false)
	assert.NoError(t, err)
	require.Equal(t, xml.Header+`<llsd><map><key>greeting</key><string>hello &amp; &lt;world&gt;</string></map></llsd>`, string(data))

	got, err := llsd.ParseXML(data)
	assert.NoError(t, err)
	testutil.RequireDocEqual(t, doc, got)
}

func TestJSONIntegerWidening(t *testing.T) {
	doc, err := llsd.ParseJSON([]byte("2147483648"))
	assert.NoError(t, err)
	testutil.RequireValueEqual(t, types.NewRealValue(2147483648.0), doc.Root())

	doc, err = llsd.ParseJSON([]byte("2147483647"))
	assert.NoError(t, err)
	testutil.RequireValueEqual(t, types.NewIntegerValue(2147483647), doc.Root())
}

func TestJSONDetectsUUIDStrings(t *testing.T) {
	doc, err := llsd.ParseJSON([]byte(`"550e8400-e29b-41d4-a716-446655440000"`))
	assert.NoError(t, err)
	testutil.RequireValueEqual(t, types.NewUUIDValue(uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")), doc.Root())

	doc, err = llsd.ParseJSON([]byte(`"not-a-uuid"`))
	assert.NoError(t, err)
	testutil.RequireValueEqual(t, types.NewStringValue("not-a-uuid"), doc.Root())
}

func TestBinaryDepthQuota(t *testing.T) {
	v := testutil.MakeMap(t, "a", testutil.MakeMap(t, "b", testutil.MakeMap(t, "c", testutil.MakeMap(t, "d", "x"))))

	data, err := llsd.SerializeBinary(types.NewDocument(v))
	assert.NoError(t, err)

	_, err = binary.NewDecoder().WithMaxDepth(3).Decode(data)
	assert.ErrorIs(t, err, errs.QuotaExceeded)
	assert.Quota(t, err, errs.QuotaDepth)

	doc, err := binary.NewDecoder().WithMaxDepth(4).Decode(data)
	assert.NoError(t, err)
	testutil.RequireValueEqual(t, v, doc.Root())
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := cache.New(100*time.Millisecond, cache.WithClock(func() time.Time { return now }))

	c.Put("k", types.NewIntegerValue(1))

	now = now.Add(10 * time.Millisecond)
	v, ok := c.Get("k")
	require.True(t, ok)
	testutil.RequireValueEqual(t, types.NewIntegerValue(1), v)

	now = now.Add(140 * time.Millisecond)
	_, ok = c.Get("k")
	require.False(t, ok)
	require.Equal(t, 0, c.Size())
}
