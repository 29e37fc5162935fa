package errors_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	errs "github.com/chaisql/llsd/errors"
)

func TestKindIs(t *testing.T) {
	err := errs.NewTruncated(12)

	require.True(t, errors.Is(err, errs.Truncated))
	require.False(t, errors.Is(err, errs.BadMagic))
	require.Equal(t, errs.Truncated, errs.KindOf(err))

	wrapped := errors.Wrap(err, "reading header")
	require.True(t, errors.Is(wrapped, errs.Truncated))
	require.Equal(t, errs.Truncated, errs.KindOf(wrapped))
}

func TestKindOfForeignError(t *testing.T) {
	require.Equal(t, errs.Kind(0), errs.KindOf(errors.New("boom")))
	require.Equal(t, errs.Kind(0), errs.KindOf(nil))
}

func TestQuotaExceeded(t *testing.T) {
	err := errs.NewQuotaExceeded(errs.QuotaDepth, 3)

	require.True(t, errs.IsQuotaExceeded(err, errs.QuotaDepth))
	require.False(t, errs.IsQuotaExceeded(err, errs.QuotaElements))
	require.EqualError(t, err, "quota exceeded: depth limit of 3")
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errs.NewUnknownTypeTag(0x2a, 4), "unknown type tag 0x2a at offset 4"},
		{errs.NewTruncated(7), "truncated input at offset 7"},
		{errs.NewBadUUID("zzz"), `invalid uuid: "zzz"`},
		{errs.NewTypeMismatch("map", "array"), "type mismatch: expected map, got array"},
		{errs.NewIndexOutOfBounds(10), "index out of bounds: 10"},
		{errs.NewMissingField("name"), `missing field: "name"`},
		{errs.NewMissingRoot(), "missing llsd root element"},
	}

	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			require.EqualError(t, test.err, test.want)
		})
	}
}

func TestUnwrapCause(t *testing.T) {
	cause := errors.New("illegal base64 data at input byte 3")
	err := errs.NewBadBase64(cause)

	require.True(t, errors.Is(err, errs.BadBase64))
	require.True(t, errors.Is(err, cause))
}
