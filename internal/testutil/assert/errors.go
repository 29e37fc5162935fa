// Package assert holds test assertions on the errors returned by the codecs.
// Failures print the full stack recorded by cockroachdb/errors.
package assert

import (
	"testing"

	"github.com/cockroachdb/errors"

	errs "github.com/chaisql/llsd/errors"
)

func Error(t testing.TB, err error) {
	t.Helper()

	Errorf(t, err, "Expected an error, got nil")
}

func Errorf(t testing.TB, err error, str string, args ...interface{}) {
	t.Helper()

	if err != nil {
		return
	}
	t.Logf(str, args...)
	t.FailNow()
}

// ErrorIs fails the test unless err matches target, usually an errs.Kind.
func ErrorIs(t testing.TB, err error, target error) {
	t.Helper()

	if errors.Is(err, target) {
		return
	}

	switch {
	case err == nil:
		t.Logf("Expected a %q error, got nil", target)
	case errs.KindOf(err) != 0:
		t.Logf("Expected a %q error, got a %q error: %v", target, errs.KindOf(err), err)
		t.Logf("Stacktrace:\n%+v", err)
	default:
		t.Logf("Expected a %q error, got %v", target, err)
		t.Logf("Stacktrace:\n%+v", err)
	}
	t.FailNow()
}

// Quota fails the test unless err reports that the quota q was exceeded.
func Quota(t testing.TB, err error, q errs.QuotaKind) {
	t.Helper()

	if errs.IsQuotaExceeded(err, q) {
		return
	}
	t.Logf("Expected the %s quota to be exceeded, got %v", q, err)
	t.FailNow()
}

func NoErrorf(t testing.TB, err error, str string, args ...interface{}) {
	t.Helper()

	if err == nil {
		return
	}
	t.Logf(str, args...)
	t.Logf("Stacktrace:\n%+v", err)
	t.FailNow()
}

func NoError(t testing.TB, err error) {
	t.Helper()

	NoErrorf(t, err, "Expected no error, got %v", err)
}
