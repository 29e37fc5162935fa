package types

import (
	"github.com/cockroachdb/errors"

	errs "github.com/chaisql/llsd/errors"
)

var _ Value = NewArrayValue()

// ArrayValue is an ordered sequence of values.
type ArrayValue struct {
	values []Value
}

// NewArrayValue returns an array holding the given values.
func NewArrayValue(values ...Value) *ArrayValue {
	return &ArrayValue{
		values: values,
	}
}

// NewArrayValueWithCapacity returns an empty array able to hold n values
// without reallocating.
func NewArrayValueWithCapacity(n int) *ArrayValue {
	return &ArrayValue{
		values: make([]Value, 0, n),
	}
}

func (v *ArrayValue) V() any {
	return v.values
}

func (v *ArrayValue) Type() Type {
	return TypeArray
}

func (v *ArrayValue) String() string {
	return string(MarshalTextIndent(v, "", ""))
}

// Len returns the number of values of the array.
func (v *ArrayValue) Len() int {
	return len(v.values)
}

// Append adds x at the end of the array.
func (v *ArrayValue) Append(x Value) *ArrayValue {
	v.values = append(v.values, x)
	return v
}

// GetByIndex returns the value at index i.
func (v *ArrayValue) GetByIndex(i int) (Value, error) {
	if i < 0 || i >= len(v.values) {
		return nil, errs.NewIndexOutOfBounds(i)
	}

	return v.values[i], nil
}

// Replace the value at index i. The array is never extended.
func (v *ArrayValue) Replace(i int, x Value) error {
	if i < 0 || i >= len(v.values) {
		return errs.NewIndexOutOfBounds(i)
	}

	v.values[i] = x
	return nil
}

// Iterate goes through all the values of the array and calls fn for each
// of them. If fn returns an error, the iteration stops.
func (v *ArrayValue) Iterate(fn func(i int, value Value) error) error {
	for i, x := range v.values {
		if err := fn(i, x); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

// Values returns the underlying slice. It must not be modified by callers
// holding a shared reference.
func (v *ArrayValue) Values() []Value {
	return v.values
}
