package types

import (
	"encoding/base64"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	_ Value = UndefinedValue{}
	_ Value = NewBooleanValue(false)
	_ Value = NewIntegerValue(0)
	_ Value = NewRealValue(0)
	_ Value = NewStringValue("")
	_ Value = NewUUIDValue(uuid.Nil)
	_ Value = NewDateValue(time.Time{})
	_ Value = NewURIValue("")
	_ Value = NewBinaryValue(nil)
)

// UndefinedValue is the undefined, or null, marker.
type UndefinedValue struct{}

// NewUndefinedValue returns the undefined value.
func NewUndefinedValue() UndefinedValue {
	return UndefinedValue{}
}

func (UndefinedValue) V() any {
	return nil
}

func (UndefinedValue) Type() Type {
	return TypeUndefined
}

func (UndefinedValue) String() string {
	return "undef"
}

type BooleanValue bool

// NewBooleanValue returns a boolean value.
func NewBooleanValue(x bool) BooleanValue {
	return BooleanValue(x)
}

func (v BooleanValue) V() any {
	return bool(v)
}

func (v BooleanValue) Type() Type {
	return TypeBoolean
}

func (v BooleanValue) String() string {
	return strconv.FormatBool(bool(v))
}

type IntegerValue int32

// NewIntegerValue returns a 32-bit integer value.
func NewIntegerValue(x int32) IntegerValue {
	return IntegerValue(x)
}

func (v IntegerValue) V() any {
	return int32(v)
}

func (v IntegerValue) Type() Type {
	return TypeInteger
}

func (v IntegerValue) String() string {
	return strconv.FormatInt(int64(v), 10)
}

type RealValue float64

// NewRealValue returns a 64-bit floating point value.
func NewRealValue(x float64) RealValue {
	return RealValue(x)
}

func (v RealValue) V() any {
	return float64(v)
}

func (v RealValue) Type() Type {
	return TypeReal
}

func (v RealValue) String() string {
	return FormatReal(float64(v))
}

type StringValue string

// NewStringValue returns a string value.
func NewStringValue(x string) StringValue {
	return StringValue(x)
}

func (v StringValue) V() any {
	return string(v)
}

func (v StringValue) Type() Type {
	return TypeString
}

func (v StringValue) String() string {
	return strconv.Quote(string(v))
}

type UUIDValue uuid.UUID

// NewUUIDValue returns an uuid value.
func NewUUIDValue(x uuid.UUID) UUIDValue {
	return UUIDValue(x)
}

func (v UUIDValue) V() any {
	return uuid.UUID(v)
}

func (v UUIDValue) Type() Type {
	return TypeUUID
}

// String returns the hyphenated lowercase form.
func (v UUIDValue) String() string {
	return uuid.UUID(v).String()
}

// IsNil returns true for the all-zero uuid.
func (v UUIDValue) IsNil() bool {
	return uuid.UUID(v) == uuid.Nil
}

type DateValue time.Time

// NewDateValue returns a date value. The instant is stored in UTC.
func NewDateValue(x time.Time) DateValue {
	return DateValue(x.UTC())
}

func (v DateValue) V() any {
	return time.Time(v)
}

func (v DateValue) Type() Type {
	return TypeDate
}

func (v DateValue) String() string {
	return strconv.Quote(FormatDate(time.Time(v)))
}

type URIValue string

// NewURIValue returns an uri value. The uri is opaque and never validated.
func NewURIValue(x string) URIValue {
	return URIValue(x)
}

func (v URIValue) V() any {
	return string(v)
}

func (v URIValue) Type() Type {
	return TypeURI
}

func (v URIValue) String() string {
	return "l" + strconv.Quote(string(v))
}

type BinaryValue []byte

// NewBinaryValue returns a binary value. x is not copied.
func NewBinaryValue(x []byte) BinaryValue {
	return BinaryValue(x)
}

func (v BinaryValue) V() any {
	return []byte(v)
}

func (v BinaryValue) Type() Type {
	return TypeBinary
}

func (v BinaryValue) String() string {
	return "b64" + strconv.Quote(base64.StdEncoding.EncodeToString(v))
}

// IsUndefined returns true if v is nil or undefined.
func IsUndefined(v Value) bool {
	return v == nil || v.Type() == TypeUndefined
}

func AsBool(v Value) bool {
	bv, ok := v.(BooleanValue)
	if !ok {
		return v.V().(bool)
	}

	return bool(bv)
}

func AsInt32(v Value) int32 {
	iv, ok := v.(IntegerValue)
	if !ok {
		return v.V().(int32)
	}

	return int32(iv)
}

func AsFloat64(v Value) float64 {
	rv, ok := v.(RealValue)
	if !ok {
		return v.V().(float64)
	}

	return float64(rv)
}

// AsString returns the content of a string or an uri value.
func AsString(v Value) string {
	switch x := v.(type) {
	case StringValue:
		return string(x)
	case URIValue:
		return string(x)
	}

	return v.V().(string)
}

func AsUUID(v Value) uuid.UUID {
	uv, ok := v.(UUIDValue)
	if !ok {
		return v.V().(uuid.UUID)
	}

	return uuid.UUID(uv)
}

func AsTime(v Value) time.Time {
	dv, ok := v.(DateValue)
	if !ok {
		return v.V().(time.Time)
	}

	return time.Time(dv)
}

func AsByteSlice(v Value) []byte {
	bv, ok := v.(BinaryValue)
	if !ok {
		return v.V().([]byte)
	}

	return bv
}

func AsArray(v Value) *ArrayValue {
	return v.(*ArrayValue)
}

func AsMap(v Value) *MapValue {
	return v.(*MapValue)
}
