package types

// A Document owns a single root value.
type Document struct {
	root Value
}

// NewDocument returns a document whose root is v.
// A nil value is stored as undefined.
func NewDocument(v Value) *Document {
	if v == nil {
		v = NewUndefinedValue()
	}

	return &Document{root: v}
}

// Root returns the root value.
func (d *Document) Root() Value {
	if d == nil || d.root == nil {
		return NewUndefinedValue()
	}

	return d.root
}

// SetRoot replaces the root value.
func (d *Document) SetRoot(v Value) {
	if v == nil {
		v = NewUndefinedValue()
	}

	d.root = v
}

// Type returns the type of the root value.
func (d *Document) Type() Type {
	return d.Root().Type()
}

// Equal reports whether both documents hold structurally equal roots.
func (d *Document) Equal(other *Document) bool {
	return Equal(d.Root(), other.Root())
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return NewDocument(Clone(d.Root()))
}

func (d *Document) String() string {
	return d.Root().String()
}
