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

package schema

import (
	"github.com/pkg/errors"
)

// Error strings.
const (
	errEmptyAttributeName   = "attribute name must not be empty"
	errDuplicateAttribute   = "attribute %q is already declared"
	errDuplicateBlock       = "block %q is already declared"
	errRequiredAndOptional  = "attribute %q cannot be both required and optional"
	errRequiredAndComputed  = "attribute %q cannot be both required and computed"
	errNoBehavior           = "attribute %q must be required, optional or computed"
	errDefaultNeedsOptComp  = "attribute %q may only carry a default when optional and computed"
	errInvalidType          = "attribute %q has an invalid type"
	errInvalidNesting       = "block %q has an invalid nesting mode"
	errItemCountsConflict   = "block %q declares a maximum item count below its minimum"
	errNegativeMinItems     = "block %q declares a negative minimum item count"
)

// A Builder accumulates attributes and blocks and freezes them into an
// immutable Schema tied to a version integer.
type Builder struct {
	version    int64
	attributes []Attribute
	blocks     []Block
}

// NewBuilder returns a Builder for the supplied schema version.
func NewBuilder(version int64) *Builder {
	return &Builder{version: version}
}

// Attribute adds an attribute.
func (b *Builder) Attribute(a Attribute) *Builder {
	b.attributes = append(b.attributes, a)
	return b
}

// Block adds a block.
func (b *Builder) Block(blk Block) *Builder {
	b.blocks = append(b.blocks, blk)
	return b
}

// Build validates the accumulated declarations and freezes them into a
// Schema.
func (b *Builder) Build() (*Schema, error) {
	s := &Schema{
		version:    b.version,
		attributes: make(map[string]Attribute, len(b.attributes)),
		blocks:     make(map[string]Block, len(b.blocks)),
	}

	for _, a := range b.attributes {
		if err := validateAttribute(a); err != nil {
			return nil, err
		}
		if _, exists := s.attributes[a.Name]; exists {
			return nil, errors.Errorf(errDuplicateAttribute, a.Name)
		}
		s.attributes[a.Name] = a
	}

	for _, blk := range b.blocks {
		if err := validateBlock(blk); err != nil {
			return nil, err
		}
		if _, exists := s.blocks[blk.Name]; exists {
			return nil, errors.Errorf(errDuplicateBlock, blk.Name)
		}
		s.blocks[blk.Name] = blk
	}

	return s, nil
}

// MustBuild is like Build but panics on an invalid declaration. Intended
// for schemas declared as package-level literals, where an error could
// only be a programming mistake.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func validateAttribute(a Attribute) error {
	if a.Name == "" {
		return errors.New(errEmptyAttributeName)
	}
	if a.Type <= TypeInvalid || a.Type > TypeDynamic {
		return errors.Errorf(errInvalidType, a.Name)
	}
	if a.Required && a.Optional {
		return errors.Errorf(errRequiredAndOptional, a.Name)
	}
	if a.Required && a.Computed {
		return errors.Errorf(errRequiredAndComputed, a.Name)
	}
	if !a.Required && !a.Optional && !a.Computed {
		return errors.Errorf(errNoBehavior, a.Name)
	}
	if a.Default != nil && !(a.Optional && a.Computed) {
		return errors.Errorf(errDefaultNeedsOptComp, a.Name)
	}
	return nil
}

func validateBlock(blk Block) error {
	if blk.Name == "" {
		return errors.New(errEmptyAttributeName)
	}
	if blk.Nesting <= NestingInvalid || blk.Nesting > NestingSet {
		return errors.Errorf(errInvalidNesting, blk.Name)
	}
	if blk.MinItems < 0 {
		return errors.Errorf(errNegativeMinItems, blk.Name)
	}
	if max, bounded := blk.MaxItems.Bounded(); bounded && max < blk.MinItems {
		return errors.Errorf(errItemCountsConflict, blk.Name)
	}
	for _, a := range blk.Attributes {
		if err := validateAttribute(a); err != nil {
			return err
		}
	}
	for _, nested := range blk.Blocks {
		if err := validateBlock(nested); err != nil {
			return err
		}
	}
	return nil
}
