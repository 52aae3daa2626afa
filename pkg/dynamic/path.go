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

package dynamic

import (
	"fmt"
	"strings"
)

// A Step is a single step into a Value tree; either an attribute name into a
// Map value or an index into a List value.
type Step interface {
	isStep()
	String() string
}

// AttributeName steps into the named attribute of a Map value.
type AttributeName string

func (AttributeName) isStep() {}

func (n AttributeName) String() string { return string(n) }

// Index steps into the element at the supplied index of a List value.
type Index int

func (Index) isStep() {}

func (i Index) String() string { return fmt.Sprintf("[%d]", int(i)) }

// A Path is an ordered sequence of steps locating a node inside a Value
// tree. Paths are immutable; Attribute and Index return extended copies.
type Path struct {
	steps []Step
}

// EmptyPath returns a Path pointing at the root of a Value tree.
func EmptyPath() Path { return Path{} }

// PathFromSteps returns a Path composed of the supplied steps.
func PathFromSteps(steps ...Step) Path {
	p := Path{steps: make([]Step, len(steps))}
	copy(p.steps, steps)
	return p
}

// Attribute returns a copy of the path extended by an attribute name step.
func (p Path) Attribute(name string) Path {
	steps := make([]Step, 0, len(p.steps)+1)
	steps = append(steps, p.steps...)
	return Path{steps: append(steps, AttributeName(name))}
}

// Index returns a copy of the path extended by a list index step.
func (p Path) Index(i int) Path {
	steps := make([]Step, 0, len(p.steps)+1)
	steps = append(steps, p.steps...)
	return Path{steps: append(steps, Index(i))}
}

// Steps returns a copy of the path's steps.
func (p Path) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Empty returns true if the path points at the root of a Value tree.
func (p Path) Empty() bool { return len(p.steps) == 0 }

// Equal returns true if both paths consist of the same steps.
func (p Path) Equal(o Path) bool {
	if len(p.steps) != len(o.steps) {
		return false
	}
	for i := range p.steps {
		if p.steps[i] != o.steps[i] {
			return false
		}
	}
	return true
}

// String renders the path in dotted form, e.g. "network.interfaces[0].name".
func (p Path) String() string {
	b := &strings.Builder{}
	for i, s := range p.steps {
		if _, ok := s.(AttributeName); ok && i > 0 {
			b.WriteString(".")
		}
		b.WriteString(s.String())
	}
	return b.String()
}
