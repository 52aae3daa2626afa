/*
Copyright 2025 The Skycrane Authors.
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at
    http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package dynamic implements the schema-less recursive value tree exchanged
// over the wire and used as config and state payloads. A Value is one of
// seven kinds: Null, Bool, Number, String, List, Map, or Unknown. Unknown
// marks "not yet known" and is legal only on computed attributes during
// planning; it must never appear in an applied value.
package dynamic

import (
	"sort"

	"github.com/pkg/errors"
)

// Error strings.
const (
	errNotFound     = "path does not exist in value"
	errTypeMismatch = "value has unexpected kind"
)

// ErrNotFound indicates a path addresses a node that does not exist.
var ErrNotFound = errors.New(errNotFound)

// ErrTypeMismatch indicates a path step does not match the shape of the
// value it addresses, or an accessor was used on a value of another kind.
var ErrTypeMismatch = errors.New(errTypeMismatch)

// IsNotFound returns true if the supplied error indicates a missing path.
func IsNotFound(err error) bool { return errors.Cause(err) == ErrNotFound }

// IsTypeMismatch returns true if the supplied error indicates a shape
// mismatch.
func IsTypeMismatch(err error) bool { return errors.Cause(err) == ErrTypeMismatch }

// A Kind discriminates the variants of a Value.
type Kind int

// The seven kinds of Value.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
	KindUnknown
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindUnknown:
		return "unknown"
	}
	return "invalid"
}

// A Value is a node in a schema-less recursive value tree. The zero Value
// is Null.
type Value struct {
	kind  Kind
	b     bool
	n     float64
	s     string
	list  []Value
	attrs map[string]Value
}

// NullVal returns the Null value.
func NullVal() Value { return Value{kind: KindNull} }

// UnknownVal returns the Unknown value.
func UnknownVal() Value { return Value{kind: KindUnknown} }

// BoolVal returns a Bool value.
func BoolVal(b bool) Value { return Value{kind: KindBool, b: b} }

// NumberVal returns a Number value. Numbers are double-precision floats.
func NumberVal(n float64) Value { return Value{kind: KindNumber, n: n} }

// StringVal returns a String value.
func StringVal(s string) Value { return Value{kind: KindString, s: s} }

// ListVal returns a List value holding copies of the supplied elements.
func ListVal(elems []Value) Value {
	l := make([]Value, len(elems))
	copy(l, elems)
	return Value{kind: KindList, list: l}
}

// MapVal returns a Map value holding copies of the supplied attributes. A
// nil map yields an empty Map, not Null.
func MapVal(attrs map[string]Value) Value {
	m := make(map[string]Value, len(attrs))
	for k, v := range attrs {
		m[k] = v
	}
	return Value{kind: KindMap, attrs: m}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull returns true for the Null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsUnknown returns true for the Unknown value.
func (v Value) IsUnknown() bool { return v.kind == KindUnknown }

// IsKnown returns true unless the value is Unknown. It does not descend
// into collections; use HasUnknown for the deep check.
func (v Value) IsKnown() bool { return v.kind != KindUnknown }

// HasUnknown returns true if the value is, or contains at any depth, an
// Unknown value. Applied states must never satisfy HasUnknown.
func (v Value) HasUnknown() bool {
	switch v.kind {
	case KindUnknown:
		return true
	case KindList:
		for _, e := range v.list {
			if e.HasUnknown() {
				return true
			}
		}
	case KindMap:
		for _, e := range v.attrs {
			if e.HasUnknown() {
				return true
			}
		}
	}
	return false
}

// WithUnknownAsNull returns a copy of the value with every Unknown node
// replaced by Null. Applied state never carries Unknown; this is the
// degradation used when echoing a partially-resolved plan back as state.
func (v Value) WithUnknownAsNull() Value {
	switch v.kind {
	case KindUnknown:
		return NullVal()
	case KindList:
		elems := make([]Value, len(v.list))
		for i, e := range v.list {
			elems[i] = e.WithUnknownAsNull()
		}
		return ListVal(elems)
	case KindMap:
		attrs := make(map[string]Value, len(v.attrs))
		for k, e := range v.attrs {
			attrs[k] = e.WithUnknownAsNull()
		}
		return MapVal(attrs)
	}
	return v
}

// AsBool returns the value as a bool.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, errors.Wrapf(ErrTypeMismatch, "want bool, got %s", v.kind)
	}
	return v.b, nil
}

// AsNumber returns the value as a float64.
func (v Value) AsNumber() (float64, error) {
	if v.kind != KindNumber {
		return 0, errors.Wrapf(ErrTypeMismatch, "want number, got %s", v.kind)
	}
	return v.n, nil
}

// AsString returns the value as a string.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", errors.Wrapf(ErrTypeMismatch, "want string, got %s", v.kind)
	}
	return v.s, nil
}

// AsList returns a copy of the value's elements.
func (v Value) AsList() ([]Value, error) {
	if v.kind != KindList {
		return nil, errors.Wrapf(ErrTypeMismatch, "want list, got %s", v.kind)
	}
	out := make([]Value, len(v.list))
	copy(out, v.list)
	return out, nil
}

// AsMap returns a copy of the value's attributes.
func (v Value) AsMap() (map[string]Value, error) {
	if v.kind != KindMap {
		return nil, errors.Wrapf(ErrTypeMismatch, "want map, got %s", v.kind)
	}
	out := make(map[string]Value, len(v.attrs))
	for k, e := range v.attrs {
		out[k] = e
	}
	return out, nil
}

// AttributeNames returns the sorted attribute names of a Map value, or nil
// for any other kind.
func (v Value) AttributeNames() []string {
	if v.kind != KindMap {
		return nil
	}
	names := make([]string, 0, len(v.attrs))
	for k := range v.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AtPath returns the value at the supplied path. It returns an ErrNotFound
// wrapped error if the path addresses a node that does not exist, and an
// ErrTypeMismatch wrapped error if a step does not match the shape of the
// value it steps into.
func (v Value) AtPath(p Path) (Value, error) {
	cur := v
	for i, s := range p.steps {
		at := Path{steps: p.steps[:i+1]}
		switch step := s.(type) {
		case AttributeName:
			if cur.kind != KindMap {
				return Value{}, errors.Wrapf(ErrTypeMismatch, "cannot step into attribute %q of %s value at %q", string(step), cur.kind, at.String())
			}
			next, ok := cur.attrs[string(step)]
			if !ok {
				return Value{}, errors.Wrapf(ErrNotFound, "no attribute %q at %q", string(step), at.String())
			}
			cur = next
		case Index:
			if cur.kind != KindList {
				return Value{}, errors.Wrapf(ErrTypeMismatch, "cannot index into %s value at %q", cur.kind, at.String())
			}
			if int(step) < 0 || int(step) >= len(cur.list) {
				return Value{}, errors.Wrapf(ErrNotFound, "index %d out of bounds at %q", int(step), at.String())
			}
			cur = cur.list[int(step)]
		}
	}
	return cur, nil
}

// SetAtPath returns a copy of the value with the node at the supplied path
// replaced by nv. Intermediate Map nodes are created as needed when a step
// addresses an attribute of a Null or missing node. List indexes must
// address an existing element or the position one past the end.
func (v Value) SetAtPath(p Path, nv Value) (Value, error) {
	return setAtSteps(v, p.steps, nv)
}

func setAtSteps(v Value, steps []Step, nv Value) (Value, error) {
	if len(steps) == 0 {
		return nv, nil
	}
	switch step := steps[0].(type) {
	case AttributeName:
		if v.kind == KindNull {
			v = MapVal(nil)
		}
		if v.kind != KindMap {
			return Value{}, errors.Wrapf(ErrTypeMismatch, "cannot set attribute %q of %s value", string(step), v.kind)
		}
		child, err := setAtSteps(v.attrs[string(step)], steps[1:], nv)
		if err != nil {
			return Value{}, err
		}
		m := make(map[string]Value, len(v.attrs)+1)
		for k, e := range v.attrs {
			m[k] = e
		}
		m[string(step)] = child
		return Value{kind: KindMap, attrs: m}, nil
	case Index:
		if v.kind != KindList {
			return Value{}, errors.Wrapf(ErrTypeMismatch, "cannot set index %d of %s value", int(step), v.kind)
		}
		i := int(step)
		if i < 0 || i > len(v.list) {
			return Value{}, errors.Wrapf(ErrNotFound, "index %d out of bounds for list of length %d", i, len(v.list))
		}
		l := make([]Value, len(v.list), len(v.list)+1)
		copy(l, v.list)
		if i == len(l) {
			l = append(l, Value{})
		}
		child, err := setAtSteps(l[i], steps[1:], nv)
		if err != nil {
			return Value{}, err
		}
		l[i] = child
		return Value{kind: KindList, list: l}, nil
	}
	return Value{}, errors.Wrap(ErrTypeMismatch, "unsupported path step")
}

// Equal reports structural, recursive equality. Unknown equals Unknown and
// Null equals Null. NaN numbers are not equal to themselves, matching IEEE
// 754 comparison.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull, KindUnknown:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.attrs) != len(o.attrs) {
			return false
		}
		for k, e := range v.attrs {
			oe, ok := o.attrs[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	}
	return false
}
