// Package errors defines the error taxonomy shared by every codec and helper
// of the module. All errors are *Error values carrying a Kind, wrapped with a
// stack trace by github.com/cockroachdb/errors.
//
// Callers compare kinds with errors.Is:
//
//	if errors.Is(err, errs.Truncated) {
//		...
//	}
package errors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind identifies the class of an error.
type Kind uint8

// List of error kinds.
const (
	BadMagic Kind = iota + 1
	UnknownTypeTag
	Truncated
	BadUTF8
	BadUUID
	BadDate
	BadBase64
	QuotaExceeded
	InvalidNumber
	XMLSyntax
	JSONSyntax
	NotationSyntax
	MissingRoot
	Validation
	TypeMismatch
	MissingField
	PathNotFound
	IndexOutOfBounds
	TrailingData
)

func (k Kind) String() string {
	switch k {
	case BadMagic:
		return "bad magic"
	case UnknownTypeTag:
		return "unknown type tag"
	case Truncated:
		return "truncated input"
	case BadUTF8:
		return "invalid utf-8"
	case BadUUID:
		return "invalid uuid"
	case BadDate:
		return "invalid date"
	case BadBase64:
		return "invalid base64"
	case QuotaExceeded:
		return "quota exceeded"
	case InvalidNumber:
		return "invalid number"
	case XMLSyntax:
		return "xml syntax error"
	case JSONSyntax:
		return "json syntax error"
	case NotationSyntax:
		return "notation syntax error"
	case MissingRoot:
		return "missing llsd root element"
	case Validation:
		return "validation failed"
	case TypeMismatch:
		return "type mismatch"
	case MissingField:
		return "missing field"
	case PathNotFound:
		return "path not found"
	case IndexOutOfBounds:
		return "index out of bounds"
	case TrailingData:
		return "trailing data"
	}

	return "unknown error kind " + strconv.Itoa(int(k))
}

// Error makes a Kind usable as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// QuotaKind distinguishes which quota was exceeded.
type QuotaKind uint8

const (
	QuotaDepth QuotaKind = iota + 1
	QuotaElements
)

func (q QuotaKind) String() string {
	switch q {
	case QuotaDepth:
		return "depth"
	case QuotaElements:
		return "elements"
	}

	return "unknown"
}

// Error is the error type returned by every package of the module.
type Error struct {
	Kind Kind
	// Detail is a free form description, usually the offending lexical form.
	Detail string
	// Tag is the offending type tag for UnknownTypeTag errors.
	Tag byte
	// Quota is set for QuotaExceeded errors, alongside Limit.
	Quota QuotaKind
	Limit int
	// Expected and Actual are set for TypeMismatch errors.
	Expected string
	Actual   string
	// Index is set for IndexOutOfBounds errors.
	Index int
	// Offset in the input where the error was detected, or -1.
	Offset int
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Kind.String())

	switch e.Kind {
	case UnknownTypeTag:
		fmt.Fprintf(&sb, " 0x%02x", e.Tag)
	case QuotaExceeded:
		fmt.Fprintf(&sb, ": %s limit of %d", e.Quota, e.Limit)
	case TypeMismatch:
		fmt.Fprintf(&sb, ": expected %s, got %s", e.Expected, e.Actual)
	case IndexOutOfBounds:
		fmt.Fprintf(&sb, ": %d", e.Index)
	}

	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}

	if e.Offset >= 0 {
		fmt.Fprintf(&sb, " at offset %d", e.Offset)
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}

// IsQuotaExceeded reports whether err is a QuotaExceeded error for the given quota.
func IsQuotaExceeded(err error, q QuotaKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == QuotaExceeded && e.Quota == q
}

func build(e *Error) error {
	return errors.WithStackDepth(e, 2)
}

func NewBadMagic(got []byte) error {
	return build(&Error{Kind: BadMagic, Detail: fmt.Sprintf("got % x", got), Offset: 0})
}

func NewUnknownTypeTag(tag byte, offset int) error {
	return build(&Error{Kind: UnknownTypeTag, Tag: tag, Offset: offset})
}

func NewTruncated(offset int) error {
	return build(&Error{Kind: Truncated, Offset: offset})
}

func NewBadUTF8(offset int) error {
	return build(&Error{Kind: BadUTF8, Offset: offset})
}

func NewBadUUID(lexical string) error {
	return build(&Error{Kind: BadUUID, Detail: strconv.Quote(lexical), Offset: -1})
}

func NewBadDate(lexical string) error {
	return build(&Error{Kind: BadDate, Detail: strconv.Quote(lexical), Offset: -1})
}

func NewBadBase64(cause error) error {
	return build(&Error{Kind: BadBase64, Offset: -1, Err: cause})
}

func NewQuotaExceeded(q QuotaKind, limit int) error {
	return build(&Error{Kind: QuotaExceeded, Quota: q, Limit: limit, Offset: -1})
}

func NewInvalidNumber(detail string) error {
	return build(&Error{Kind: InvalidNumber, Detail: detail, Offset: -1})
}

func NewXMLSyntax(detail string) error {
	return build(&Error{Kind: XMLSyntax, Detail: detail, Offset: -1})
}

// WrapXMLSyntax turns an error reported by the XML tokenizer into an XMLSyntax error.
func WrapXMLSyntax(cause error) error {
	return build(&Error{Kind: XMLSyntax, Offset: -1, Err: cause})
}

func NewJSONSyntax(detail string) error {
	return build(&Error{Kind: JSONSyntax, Detail: detail, Offset: -1})
}

func WrapJSONSyntax(cause error) error {
	return build(&Error{Kind: JSONSyntax, Offset: -1, Err: cause})
}

func NewNotationSyntax(detail string, offset int) error {
	return build(&Error{Kind: NotationSyntax, Detail: detail, Offset: offset})
}

func NewMissingRoot() error {
	return build(&Error{Kind: MissingRoot, Offset: -1})
}

func NewValidation(detail string) error {
	return build(&Error{Kind: Validation, Detail: detail, Offset: -1})
}

func NewTypeMismatch(expected, actual string) error {
	return build(&Error{Kind: TypeMismatch, Expected: expected, Actual: actual, Offset: -1})
}

func NewMissingField(name string) error {
	return build(&Error{Kind: MissingField, Detail: strconv.Quote(name), Offset: -1})
}

func NewPathNotFound(path string) error {
	return build(&Error{Kind: PathNotFound, Detail: strconv.Quote(path), Offset: -1})
}

func NewIndexOutOfBounds(i int) error {
	return build(&Error{Kind: IndexOutOfBounds, Index: i, Offset: -1})
}

func NewTrailingData(offset int) error {
	return build(&Error{Kind: TrailingData, Offset: offset})
}
