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

package wire

import (
	"sort"

	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
	"github.com/skycrane/provider-runtime/pkg/schema"
)

// PathToWire converts a dynamic.Path to its wire form.
func PathToWire(p dynamic.Path) *AttributePath {
	steps := p.Steps()
	if len(steps) == 0 {
		return nil
	}
	out := &AttributePath{Steps: make([]PathStep, 0, len(steps))}
	for _, s := range steps {
		switch step := s.(type) {
		case dynamic.AttributeName:
			out.Steps = append(out.Steps, PathStep{Kind: StepAttribute, Attribute: string(step)})
		case dynamic.Index:
			out.Steps = append(out.Steps, PathStep{Kind: StepIndex, Index: int64(step)})
		}
	}
	return out
}

// PathFromWire converts a wire AttributePath to a dynamic.Path. Steps of
// an unrecognized kind are dropped.
func PathFromWire(p *AttributePath) dynamic.Path {
	if p == nil {
		return dynamic.EmptyPath()
	}
	steps := make([]dynamic.Step, 0, len(p.Steps))
	for _, s := range p.Steps {
		switch s.Kind {
		case StepAttribute:
			steps = append(steps, dynamic.AttributeName(s.Attribute))
		case StepIndex:
			steps = append(steps, dynamic.Index(s.Index))
		}
	}
	return dynamic.PathFromSteps(steps...)
}

// DiagnosticsToWire converts a diag.Diagnostics collection to its wire
// form, preserving order.
func DiagnosticsToWire(in diag.Diagnostics) []*Diagnostic {
	if len(in) == 0 {
		return nil
	}
	out := make([]*Diagnostic, 0, len(in))
	for _, d := range in {
		wd := &Diagnostic{Summary: d.Summary, Detail: d.Detail, Path: PathToWire(d.Path)}
		switch d.Severity {
		case diag.SeverityError:
			wd.Severity = SeverityError
		case diag.SeverityWarning:
			wd.Severity = SeverityWarning
		}
		out = append(out, wd)
	}
	return out
}

// DiagnosticsFromWire converts wire diagnostics back to the model form.
func DiagnosticsFromWire(in []*Diagnostic) diag.Diagnostics {
	if len(in) == 0 {
		return nil
	}
	out := make(diag.Diagnostics, 0, len(in))
	for _, d := range in {
		if d == nil {
			continue
		}
		md := diag.Diagnostic{Summary: d.Summary, Detail: d.Detail, Path: PathFromWire(d.Path)}
		switch d.Severity {
		case SeverityError:
			md.Severity = diag.SeverityError
		case SeverityWarning:
			md.Severity = diag.SeverityWarning
		}
		out = append(out, md)
	}
	return out
}

// SchemaToWire converts a frozen schema to its wire form. Attributes and
// blocks are emitted in sorted name order so encodings are deterministic.
func SchemaToWire(s *schema.Schema) *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{Version: s.Version()}
	for _, name := range s.AttributeNames() {
		a, _ := s.Attribute(name)
		out.Attributes = append(out.Attributes, attributeToWire(a))
	}
	for _, name := range s.BlockNames() {
		b, _ := s.Block(name)
		out.Blocks = append(out.Blocks, blockToWire(b))
	}
	return out
}

func attributeToWire(a schema.Attribute) *SchemaAttribute {
	return &SchemaAttribute{
		Name:        a.Name,
		Type:        a.Type.String(),
		Required:    a.Required,
		Optional:    a.Optional,
		Computed:    a.Computed,
		Sensitive:   a.Sensitive,
		Description: a.Description,
	}
}

func blockToWire(b schema.Block) *SchemaBlock {
	out := &SchemaBlock{Name: b.Name, MinItems: b.MinItems}
	switch b.Nesting {
	case schema.NestingSingle:
		out.Nesting = NestingSingle
	case schema.NestingList:
		out.Nesting = NestingList
	case schema.NestingSet:
		out.Nesting = NestingSet
	}
	if max, bounded := b.MaxItems.Bounded(); bounded {
		out.MaxItems = max
		out.MaxItemsBounded = true
	}
	for _, name := range sortedAttributeNames(b.Attributes) {
		out.Attributes = append(out.Attributes, attributeToWire(b.Attributes[name]))
	}
	for _, name := range sortedBlockNames(b.Blocks) {
		out.Blocks = append(out.Blocks, blockToWire(b.Blocks[name]))
	}
	return out
}

func sortedAttributeNames(in map[string]schema.Attribute) []string {
	names := make([]string, 0, len(in))
	for n := range in {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedBlockNames(in map[string]schema.Block) []string {
	names := make([]string, 0, len(in))
	for n := range in {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
