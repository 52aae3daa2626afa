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

// Package schema describes the shape and constraints of a capability's
// configuration and state. A Schema is accumulated through a Builder and
// then frozen; hosts build one Schema per type name and cache it.
package schema

import (
	"sort"

	"github.com/skycrane/provider-runtime/pkg/schema/defaults"
	"github.com/skycrane/provider-runtime/pkg/schema/planmod"
	"github.com/skycrane/provider-runtime/pkg/schema/validator"
)

// A Type is the value type an Attribute accepts.
type Type int

// Attribute value types. TypeDynamic accepts any value kind.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeNumber
	TypeString
	TypeList
	TypeMap
	TypeDynamic
)

// String returns the type's name.
func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeMap:
		return "map"
	case TypeDynamic:
		return "dynamic"
	}
	return "invalid"
}

// An Attribute describes a single named value within a Schema. Exactly one
// of the flag combinations {required}, {optional}, {computed},
// {optional, computed} must hold; the Builder enforces this.
type Attribute struct {
	// Name of the attribute within its containing schema or block.
	Name string

	// Type constrains the value's kind.
	Type Type

	// Required attributes must be set in configuration.
	Required bool

	// Optional attributes may be set in configuration.
	Optional bool

	// Computed attributes may be set by the provider. A computed attribute
	// may be Unknown during planning, before its true value is resolved.
	Computed bool

	// Sensitive marks the attribute's value as secret. The flag propagates
	// end-to-end to every layer that renders human-facing diagnostics or
	// logs; wire values are not redacted by this runtime.
	Sensitive bool

	// Description is plain-text documentation for the attribute.
	Description string

	// Validators run unordered and unconditionally during validation.
	Validators []validator.Validator

	// PlanModifiers form an ordered pipeline run during planning.
	PlanModifiers []planmod.Modifier

	// Default provides a value during planning when the configuration
	// value is absent. Legal only when Optional and Computed.
	Default defaults.Provider
}

// A NestingMode describes how a Block's items nest.
type NestingMode int

// Block nesting modes.
const (
	NestingInvalid NestingMode = iota
	NestingSingle
	NestingList
	NestingSet
)

// An ItemLimit is an explicit, possibly-unbounded item count limit. The
// zero ItemLimit is unbounded; a bounded limit of zero is a genuine "at
// most zero items" constraint, not an unbounded marker.
type ItemLimit struct {
	bounded bool
	max     int64
}

// Limit returns a bounded ItemLimit.
func Limit(max int64) ItemLimit { return ItemLimit{bounded: true, max: max} }

// Unbounded returns an unbounded ItemLimit.
func Unbounded() ItemLimit { return ItemLimit{} }

// Bounded returns the limit and whether it is bounded.
func (l ItemLimit) Bounded() (int64, bool) { return l.max, l.bounded }

// A Block is a nested group of attributes and blocks with its own nesting
// mode and item count constraints.
type Block struct {
	// Name of the block within its containing schema or block.
	Name string

	// Nesting describes how the block's items nest.
	Nesting NestingMode

	// MinItems is the minimum number of items.
	MinItems int64

	// MaxItems is the maximum number of items, with an explicit unbounded
	// sentinel.
	MaxItems ItemLimit

	// Attributes are the block's attributes, keyed by name.
	Attributes map[string]Attribute

	// Blocks are the block's nested blocks, keyed by name.
	Blocks map[string]Block
}

// A Schema is a frozen, versioned description of a capability's
// configuration and state shape.
type Schema struct {
	version    int64
	attributes map[string]Attribute
	blocks     map[string]Block
}

// Version returns the schema's monotonic version integer.
func (s *Schema) Version() int64 { return s.version }

// Attribute returns the named attribute.
func (s *Schema) Attribute(name string) (Attribute, bool) {
	a, ok := s.attributes[name]
	return a, ok
}

// AttributeNames returns the schema's attribute names in sorted order.
func (s *Schema) AttributeNames() []string {
	names := make([]string, 0, len(s.attributes))
	for n := range s.attributes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Block returns the named block.
func (s *Schema) Block(name string) (Block, bool) {
	b, ok := s.blocks[name]
	return b, ok
}

// BlockNames returns the schema's block names in sorted order.
func (s *Schema) BlockNames() []string {
	names := make([]string, 0, len(s.blocks))
	for n := range s.blocks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
