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

package planmod

import (
	"context"
	"fmt"
	"strings"

	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

// RequiresReplace returns a modifier that demands replacement whenever the
// state and plan values differ structurally, except when either side is
// Unknown or both are Null.
func RequiresReplace() Modifier {
	return requiresReplace{}
}

type requiresReplace struct{}

func (requiresReplace) Description() string {
	return "a change to this attribute requires the object to be replaced"
}

func (requiresReplace) Modify(_ context.Context, req Request, resp *Response) {
	if replaceGate(req) {
		resp.RequiresReplace = true
	}
}

// replaceGate is the shared structural-difference gate: no decision when
// either side is Unknown or both sides are Null.
func replaceGate(req Request) bool {
	if req.State.IsUnknown() || req.Plan.IsUnknown() {
		return false
	}
	if req.State.IsNull() && req.Plan.IsNull() {
		return false
	}
	return !req.State.Equal(req.Plan)
}

// A Predicate decides whether a structurally-changed attribute forces
// replacement.
type Predicate func(req Request) bool

// RequiresReplaceIf returns a modifier with the same structural gate as
// RequiresReplace, but the replacement decision is driven by the supplied
// predicate. When the predicate fires, a Warning diagnostic carrying the
// supplied reason is appended.
func RequiresReplaceIf(pred Predicate, reason string) Modifier {
	return requiresReplaceIf{pred: pred, reason: reason}
}

type requiresReplaceIf struct {
	pred   Predicate
	reason string
}

func (m requiresReplaceIf) Description() string {
	return "a change to this attribute may require the object to be replaced: " + m.reason
}

func (m requiresReplaceIf) Modify(_ context.Context, req Request, resp *Response) {
	if !replaceGate(req) {
		return
	}
	if !m.pred(req) {
		return
	}
	resp.RequiresReplace = true
	resp.Diagnostics.AddAttributeWarning(req.Path, "Object replacement required", m.reason)
}

// UseStateForUnknown returns a modifier that substitutes the prior state
// value when the planned value is Unknown, or Null where the decoding
// context degraded Unknown to Null, and the state value is known. It never
// forces replacement and never invents a value when the state has none.
func UseStateForUnknown() Modifier {
	return useStateForUnknown{}
}

type useStateForUnknown struct{}

func (useStateForUnknown) Description() string {
	return "once set, the value of this attribute is carried over from state"
}

func (useStateForUnknown) Modify(_ context.Context, req Request, resp *Response) {
	if !req.Plan.IsUnknown() && !req.Plan.IsNull() {
		return
	}
	if req.State.IsNull() || req.State.IsUnknown() {
		return
	}
	resp.Plan = req.State
}

// PreventUpdate returns a modifier that blocks in-place updates: when the
// state value is known and the planned value differs from it, an Error
// diagnostic is emitted rather than a replacement being scheduled.
func PreventUpdate() Modifier {
	return preventUpdate{}
}

type preventUpdate struct{}

func (preventUpdate) Description() string {
	return "this attribute cannot be changed after creation"
}

func (preventUpdate) Modify(_ context.Context, req Request, resp *Response) {
	if req.State.IsNull() || req.State.IsUnknown() || req.Plan.IsUnknown() {
		return
	}
	if req.State.Equal(req.Plan) {
		return
	}
	resp.Diagnostics.AddAttributeError(req.Path, "Attribute cannot be updated",
		fmt.Sprintf("The value at %q cannot be changed after the object is created.", req.Path.String()))
}

// SetDefault returns a modifier that substitutes the supplied constant when
// the planned value is Null.
func SetDefault(v dynamic.Value) Modifier {
	return setDefault{v: v}
}

type setDefault struct {
	v dynamic.Value
}

func (m setDefault) Description() string {
	return "a default value is planned when none is configured"
}

func (m setDefault) Modify(_ context.Context, req Request, resp *Response) {
	if resp.Plan.IsNull() {
		resp.Plan = m.v
	}
}

// A CaseMode selects the case NormalizeCase rewrites strings to.
type CaseMode int

const (
	// CaseUpper rewrites strings to upper case.
	CaseUpper CaseMode = iota

	// CaseLower rewrites strings to lower case.
	CaseLower
)

// NormalizeCase returns a modifier that rewrites string plan values to the
// supplied case. It is a no-op on non-string values.
func NormalizeCase(mode CaseMode) Modifier {
	return normalizeCase{mode: mode}
}

type normalizeCase struct {
	mode CaseMode
}

func (m normalizeCase) Description() string {
	if m.mode == CaseUpper {
		return "the planned value is normalized to upper case"
	}
	return "the planned value is normalized to lower case"
}

func (m normalizeCase) Modify(_ context.Context, _ Request, resp *Response) {
	s, err := resp.Plan.AsString()
	if err != nil {
		return
	}
	if m.mode == CaseUpper {
		resp.Plan = dynamic.StringVal(strings.ToUpper(s))
		return
	}
	resp.Plan = dynamic.StringVal(strings.ToLower(s))
}
