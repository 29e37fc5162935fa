package types

// Clone returns a deep copy of v. The result shares no mutable state with v:
// arrays, maps and binary payloads are copied, immutable leaves are reused.
func Clone(v Value) Value {
	if v == nil {
		return NewUndefinedValue()
	}

	switch x := v.(type) {
	case BinaryValue:
		if x == nil {
			return BinaryValue(nil)
		}
		cp := make([]byte, len(x))
		copy(cp, x)
		return BinaryValue(cp)
	case *ArrayValue:
		cp := NewArrayValueWithCapacity(x.Len())
		for _, e := range x.values {
			cp.values = append(cp.values, Clone(e))
		}
		return cp
	case *MapValue:
		cp := NewMapValueWithCapacity(x.Len())
		for _, k := range x.keys {
			cp.Set(k, Clone(x.values[k]))
		}
		return cp
	}

	return v
}
