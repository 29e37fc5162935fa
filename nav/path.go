// Package nav navigates and transforms value trees.
//
// A path is a dot separated list of segments. On a map, a segment is a key.
// On an array, it is a zero based decimal index. Keys containing a dot are
// reachable through the segment based functions.
package nav

import (
	"strconv"
	"strings"

	errs "github.com/chaisql/llsd/errors"
	"github.com/chaisql/llsd/types"
)

// Segments splits a dotted path. The empty path has no segments and
// addresses the root.
func Segments(path string) []string {
	if path == "" {
		return nil
	}

	return strings.Split(path, ".")
}

// Get returns the value at path, or false if the path does not lead to a value.
func Get(root types.Value, path string) (types.Value, bool) {
	return GetSegments(root, Segments(path))
}

// GetSegments is Get for a pre split path.
func GetSegments(root types.Value, segments []string) (types.Value, bool) {
	v, err := lookup(root, segments)
	return v, err == nil
}

// Lookup is Get reporting why a path could not be followed.
// The error is PathNotFound for a missing key, IndexOutOfBounds for an
// index past the end of an array, and TypeMismatch when a segment cannot
// apply to the value it is used on.
func Lookup(root types.Value, path string) (types.Value, error) {
	return lookup(root, Segments(path))
}

func lookup(root types.Value, segments []string) (types.Value, error) {
	if root == nil {
		root = types.NewUndefinedValue()
	}

	cur := root
	for i, seg := range segments {
		next, err := child(cur, seg)
		if err != nil {
			if errs.KindOf(err) == errs.MissingField {
				return nil, errs.NewPathNotFound(strings.Join(segments[:i+1], "."))
			}
			return nil, err
		}
		cur = next
	}

	return cur, nil
}

// child returns the value addressed by seg inside v.
func child(v types.Value, seg string) (types.Value, error) {
	switch v.Type() {
	case types.TypeMap:
		return types.AsMap(v).GetByField(seg)
	case types.TypeArray:
		idx, ok := parseIndex(seg)
		if !ok {
			return nil, errs.NewTypeMismatch("array index", strconv.Quote(seg))
		}
		return types.AsArray(v).GetByIndex(idx)
	}

	return nil, errs.NewTypeMismatch("map or array", v.Type().String())
}

// parseIndex accepts unsigned decimal indexes only.
func parseIndex(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}

	return n, true
}

// Set stores v at path. Every segment but the last must already exist.
// The last segment inserts or replaces a map entry, or replaces an existing
// array slot; arrays are never extended. Set reports whether the write happened.
func Set(root types.Value, path string, v types.Value) bool {
	return SetSegments(root, Segments(path), v)
}

// SetSegments is Set for a pre split path.
func SetSegments(root types.Value, segments []string, v types.Value) bool {
	if len(segments) == 0 || root == nil {
		return false
	}

	parent, err := lookup(root, segments[:len(segments)-1])
	if err != nil {
		return false
	}

	if v == nil {
		v = types.NewUndefinedValue()
	}

	last := segments[len(segments)-1]
	switch parent.Type() {
	case types.TypeMap:
		types.AsMap(parent).Set(last, v)
		return true
	case types.TypeArray:
		idx, ok := parseIndex(last)
		if !ok {
			return false
		}
		return types.AsArray(parent).Replace(idx, v) == nil
	}

	return false
}
