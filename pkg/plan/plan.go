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

// Package plan applies the planning pipeline to a resource change: default
// values, then each attribute's ordered plan modifier pipeline, collecting
// forced-replacement paths and diagnostics. Pipelines append diagnostics
// and continue so one planning pass surfaces every issue; only the caller
// decides whether the collected set fails the operation.
package plan

import (
	"context"
	"sort"
	"strconv"

	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
	"github.com/skycrane/provider-runtime/pkg/schema"
	"github.com/skycrane/provider-runtime/pkg/schema/planmod"
)

// A Result is the outcome of planning a resource change.
type Result struct {
	// Planned is the planned new state.
	Planned dynamic.Value

	// RequiresReplace are the attribute paths whose changes cannot be
	// applied in place.
	RequiresReplace []dynamic.Path

	// Diagnostics collects everything the pipelines reported.
	Diagnostics diag.Diagnostics
}

// Resource plans a change for a resource described by s. state is the
// prior state, proposed the orchestrator's proposed new state, and config
// the configuration as written; any of them may be a Null or empty Map. A
// Null proposed state against a non-Null prior state plans a deletion; the
// Null value is returned as planned, bypassing every pipeline.
//
// Per attribute: a default is applied when the configured value is absent
// and the attribute is optional and computed; a computed attribute with no
// other planned value is marked Unknown; then the attribute's modifier
// pipeline runs in attachment order, each stage consuming the previous
// stage's output plan value.
func Resource(ctx context.Context, s *schema.Schema, state, proposed, config dynamic.Value) Result {
	// A Null proposal against existing state is a destroy plan. It passes
	// through untouched: running defaults and computed markers would
	// rebuild a non-Null planned state, and the apply dispatch would no
	// longer see a deletion.
	if proposed.IsNull() && !state.IsNull() {
		return Result{Planned: dynamic.NullVal()}
	}

	res := Result{Planned: proposed}
	if res.Planned.IsNull() {
		res.Planned = dynamic.MapVal(nil)
	}

	for _, name := range s.AttributeNames() {
		attr, _ := s.Attribute(name)
		p := dynamic.EmptyPath().Attribute(name)

		stateV := valueAt(state, p)
		configV := valueAt(config, p)
		planV := valueAt(res.Planned, p)

		if configV.IsNull() && attr.Optional && attr.Computed && attr.Default != nil {
			dv, diags := attr.Default.DefaultValue(ctx)
			res.Diagnostics.Extend(diags)
			if !diags.HasError() {
				planV = dv
			}
		}

		// A computed attribute with nothing planned and nothing configured
		// is not yet known; its true value is resolved at apply time.
		if planV.IsNull() && configV.IsNull() && attr.Computed && attr.Default == nil {
			planV = dynamic.UnknownVal()
		}

		replace := false
		for _, m := range attr.PlanModifiers {
			resp := planmod.Response{Plan: planV}
			m.Modify(ctx, planmod.Request{State: stateV, Plan: planV, Config: configV, Path: p}, &resp)
			planV = resp.Plan
			replace = replace || resp.RequiresReplace
			res.Diagnostics.Extend(resp.Diagnostics)
		}
		if replace {
			res.RequiresReplace = append(res.RequiresReplace, p)
		}

		planned, err := res.Planned.SetAtPath(p, planV)
		if err != nil {
			res.Diagnostics.AddAttributeError(p, "Cannot record planned value", err.Error())
			continue
		}
		res.Planned = planned
	}

	return res
}

// ValidateConfig runs every validator of every attribute against the
// supplied configuration, descending into blocks: item count bounds are
// enforced and the nested attribute checks run on each item. Validators run
// independently and unconditionally, so a single pass surfaces every
// violation.
func ValidateConfig(ctx context.Context, s *schema.Schema, config dynamic.Value) diag.Diagnostics {
	var diags diag.Diagnostics

	for _, name := range s.AttributeNames() {
		attr, _ := s.Attribute(name)
		p := dynamic.EmptyPath().Attribute(name)
		validateAttribute(ctx, attr, valueAt(config, p), p, &diags)
	}
	for _, name := range s.BlockNames() {
		b, _ := s.Block(name)
		p := dynamic.EmptyPath().Attribute(name)
		validateBlock(ctx, b, valueAt(config, p), p, &diags)
	}

	return diags
}

func validateAttribute(ctx context.Context, attr schema.Attribute, v dynamic.Value, p dynamic.Path, diags *diag.Diagnostics) {
	if attr.Required && v.IsNull() {
		diags.AddAttributeError(p, "Missing required attribute",
			"The attribute "+p.String()+" is required, but no value was configured.")
	}
	for _, val := range attr.Validators {
		val.Validate(ctx, v, p, diags)
	}
}

// validateBlock enforces a block's item count bounds and runs the nested
// attribute checks on each configured item, recursing into nested blocks.
// An Unknown block value is skipped; its contents are checked once known.
func validateBlock(ctx context.Context, b schema.Block, v dynamic.Value, p dynamic.Path, diags *diag.Diagnostics) {
	if v.IsUnknown() {
		return
	}

	var items []dynamic.Value
	var paths []dynamic.Path
	switch {
	case v.IsNull():
	case b.Nesting == schema.NestingSingle:
		items = []dynamic.Value{v}
		paths = []dynamic.Path{p}
	default:
		elems, err := v.AsList()
		if err != nil {
			diags.AddAttributeError(p, "Invalid block value",
				"The block "+p.String()+" must be configured as a list of items.")
			return
		}
		for i, e := range elems {
			items = append(items, e)
			paths = append(paths, p.Index(i))
		}
	}

	count := int64(len(items))
	if count < b.MinItems {
		diags.AddAttributeError(p, "Too few block items",
			"The block "+p.String()+" requires at least "+strconv.FormatInt(b.MinItems, 10)+
				" item(s), but "+strconv.FormatInt(count, 10)+" were configured.")
	}
	if max, bounded := b.MaxItems.Bounded(); bounded && count > max {
		diags.AddAttributeError(p, "Too many block items",
			"The block "+p.String()+" allows at most "+strconv.FormatInt(max, 10)+
				" item(s), but "+strconv.FormatInt(count, 10)+" were configured.")
	}

	for i, item := range items {
		if item.IsUnknown() {
			continue
		}
		ip := paths[i]
		for _, name := range sortedNames(b.Attributes) {
			validateAttribute(ctx, b.Attributes[name], valueAt(item, dynamic.EmptyPath().Attribute(name)), ip.Attribute(name), diags)
		}
		for _, name := range sortedNames(b.Blocks) {
			validateBlock(ctx, b.Blocks[name], valueAt(item, dynamic.EmptyPath().Attribute(name)), ip.Attribute(name), diags)
		}
	}
}

// sortedNames returns the map's keys in sorted order, for deterministic
// diagnostic ordering.
func sortedNames[V any](in map[string]V) []string {
	names := make([]string, 0, len(in))
	for n := range in {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// valueAt returns the value at the supplied path, or Null when the path
// does not exist or steps through an absent tree.
func valueAt(v dynamic.Value, p dynamic.Path) dynamic.Value {
	got, err := v.AtPath(p)
	if err != nil {
		return dynamic.NullVal()
	}
	return got
}
