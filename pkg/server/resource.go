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

package server

import (
	"context"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
	"github.com/skycrane/provider-runtime/pkg/plan"
	"github.com/skycrane/provider-runtime/pkg/provider"
	"github.com/skycrane/provider-runtime/pkg/schema"
	"github.com/skycrane/provider-runtime/pkg/wire"
)

// ValidateResourceConfig runs the resource schema's declarative validators,
// then the resource's own validation hook.
func (s *PluginServer) ValidateResourceConfig(ctx context.Context, req *wire.ValidateResourceConfigRequest) (*wire.ValidateResourceConfigResponse, error) {
	r, sch, err := s.resource(ctx, req.TypeName)
	if err != nil {
		return nil, err
	}
	config, err := req.Config.Unmarshal()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, errDecodeConfig, err)
	}

	diags := plan.ValidateConfig(ctx, sch, config)
	diags.Extend(r.ValidateConfig(ctx, config))

	return &wire.ValidateResourceConfigResponse{Diagnostics: wire.DiagnosticsToWire(diags)}, nil
}

// UpgradeResourceState migrates state persisted under an earlier schema
// version. The raw state arrives in the JSON fallback encoding because its
// shape may no longer match the current schema; it is decoded without
// schema enforcement and handed to the resource's migration hook.
func (s *PluginServer) UpgradeResourceState(ctx context.Context, req *wire.UpgradeResourceStateRequest) (*wire.UpgradeResourceStateResponse, error) {
	r, sch, err := s.resource(ctx, req.TypeName)
	if err != nil {
		return nil, err
	}

	state := dynamic.MapVal(nil)
	if len(req.RawState) > 0 {
		state, err = dynamic.UnmarshalJSON(req.RawState)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, errDecodeState, err)
		}
	}

	resp := &wire.UpgradeResourceStateResponse{}

	if req.Version == sch.Version() {
		dv, err := wire.NewDynamicValue(state)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "cannot encode upgraded state: %v", err)
		}
		resp.UpgradedState = dv
		return resp, nil
	}

	ru, ok := r.(provider.ResourceWithUpgradeState)
	if !ok {
		var diags diag.Diagnostics
		diags.AddError("Cannot upgrade resource state",
			"State for "+req.TypeName+" was persisted under schema version "+
				strconv.FormatInt(req.Version, 10)+" but the current version is "+
				strconv.FormatInt(sch.Version(), 10)+", and the resource defines no state migration.")
		resp.Diagnostics = wire.DiagnosticsToWire(diags)
		return resp, nil
	}

	ur := ru.UpgradeState(ctx, provider.UpgradeStateRequest{PriorVersion: req.Version, State: state})
	resp.Diagnostics = wire.DiagnosticsToWire(ur.Diagnostics)
	if !ur.Diagnostics.HasError() {
		dv, err := wire.NewDynamicValue(ur.State)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "cannot encode upgraded state: %v", err)
		}
		resp.UpgradedState = dv
	}
	return resp, nil
}

// ReadResource refreshes a resource's state. Confirmed absence is reported
// as a nil new state; any failure preserves the prior state so an ambiguous
// error never looks like absence.
func (s *PluginServer) ReadResource(ctx context.Context, req *wire.ReadResourceRequest) (*wire.ReadResourceResponse, error) {
	r, _, err := s.resource(ctx, req.TypeName)
	if err != nil {
		return nil, err
	}
	state, err := req.CurrentState.Unmarshal()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, errDecodeState, err)
	}

	rr := r.Read(ctx, provider.ReadRequest{State: state, Private: req.Private})

	resp := &wire.ReadResourceResponse{
		Private:     rr.Private,
		Diagnostics: wire.DiagnosticsToWire(rr.Diagnostics),
	}

	switch {
	case rr.Diagnostics.HasError():
		dv, err := wire.NewDynamicValue(state)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "cannot encode state: %v", err)
		}
		resp.NewState = dv
	case !rr.ResourceExists:
		// Confirmed absent; the host forgets the object.
	default:
		dv, err := wire.NewDynamicValue(rr.State.WithUnknownAsNull())
		if err != nil {
			return nil, status.Errorf(codes.Internal, "cannot encode state: %v", err)
		}
		resp.NewState = dv
	}
	return resp, nil
}

// PlanResourceChange runs the planning pipeline for a resource change:
// defaults, per-attribute modifier pipelines, then the resource-level
// ModifyPlan hook if the resource has one.
func (s *PluginServer) PlanResourceChange(ctx context.Context, req *wire.PlanResourceChangeRequest) (*wire.PlanResourceChangeResponse, error) {
	r, sch, err := s.resource(ctx, req.TypeName)
	if err != nil {
		return nil, err
	}
	prior, err := req.PriorState.Unmarshal()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, errDecodeState, err)
	}
	proposed, err := req.ProposedNewState.Unmarshal()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, errDecodePlan, err)
	}
	config, err := req.Config.Unmarshal()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, errDecodeConfig, err)
	}

	result := plan.Resource(ctx, sch, prior, proposed, config)

	if rm, ok := r.(provider.ResourceWithModifyPlan); ok {
		hr := rm.ModifyPlan(ctx, provider.ModifyPlanRequest{
			State:           prior,
			Plan:            result.Planned,
			Config:          config,
			RequiresReplace: result.RequiresReplace,
		})
		result.Planned = hr.Plan
		result.RequiresReplace = hr.RequiresReplace
		result.Diagnostics.Extend(hr.Diagnostics)
	}

	if change, err := plan.ChangeSummary(prior, result.Planned); err == nil {
		s.log.Debug("Planned resource change", "type", req.TypeName, "change", string(change))
	}

	resp := &wire.PlanResourceChangeResponse{
		PlannedPrivate: req.PriorPrivate,
		Diagnostics:    wire.DiagnosticsToWire(result.Diagnostics),
	}
	dv, err := wire.NewDynamicValue(result.Planned)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "cannot encode planned state: %v", err)
	}
	resp.PlannedState = dv
	for _, p := range result.RequiresReplace {
		resp.RequiresReplace = append(resp.RequiresReplace, wire.PathToWire(p))
	}
	return resp, nil
}

// ApplyResourceChange applies a planned change. A Null planned state means
// deletion, a Null prior state creation, anything else an in-place update.
// The applied state never carries Unknown: a create must resolve every
// attribute, and even a failed create echoes back the best-known planned
// values rather than leaving gaps.
func (s *PluginServer) ApplyResourceChange(ctx context.Context, req *wire.ApplyResourceChangeRequest) (*wire.ApplyResourceChangeResponse, error) {
	r, sch, err := s.resource(ctx, req.TypeName)
	if err != nil {
		return nil, err
	}
	prior, err := req.PriorState.Unmarshal()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, errDecodeState, err)
	}
	planned, err := req.PlannedState.Unmarshal()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, errDecodePlan, err)
	}
	config, err := req.Config.Unmarshal()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, errDecodeConfig, err)
	}

	switch {
	case planned.IsNull():
		return s.applyDelete(ctx, r, prior, req.PlannedPrivate)
	case prior.IsNull():
		return s.applyCreate(ctx, r, sch, config, planned)
	default:
		return s.applyUpdate(ctx, r, prior, config, planned, req.PlannedPrivate)
	}
}

func (s *PluginServer) applyDelete(ctx context.Context, r provider.Resource, prior dynamic.Value, private []byte) (*wire.ApplyResourceChangeResponse, error) {
	dr := r.Delete(ctx, provider.DeleteRequest{State: prior, Private: private})

	resp := &wire.ApplyResourceChangeResponse{Diagnostics: wire.DiagnosticsToWire(dr.Diagnostics)}
	if dr.Diagnostics.HasError() {
		// The object may still exist; keep its state.
		dv, err := wire.NewDynamicValue(prior)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "cannot encode state: %v", err)
		}
		resp.NewState = dv
	}
	return resp, nil
}

func (s *PluginServer) applyCreate(ctx context.Context, r provider.Resource, sch *schema.Schema, config, planned dynamic.Value) (*wire.ApplyResourceChangeResponse, error) {
	cr := r.Create(ctx, provider.CreateRequest{Config: config, Planned: planned})

	state := fillAppliedState(sch, cr.State, planned)
	if !cr.Diagnostics.HasError() && state.HasUnknown() {
		cr.Diagnostics.AddError("Provider produced an unresolved value",
			"The resource reported a successful create but left one or more attributes unknown.")
	}
	state = state.WithUnknownAsNull()

	resp := &wire.ApplyResourceChangeResponse{
		Private:     cr.Private,
		Diagnostics: wire.DiagnosticsToWire(cr.Diagnostics),
	}
	dv, err := wire.NewDynamicValue(state)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "cannot encode state: %v", err)
	}
	resp.NewState = dv
	return resp, nil
}

func (s *PluginServer) applyUpdate(ctx context.Context, r provider.Resource, prior, config, planned dynamic.Value, private []byte) (*wire.ApplyResourceChangeResponse, error) {
	ur := r.Update(ctx, provider.UpdateRequest{State: prior, Config: config, Planned: planned, Private: private})

	state := ur.State
	if ur.Diagnostics.HasError() && state.IsNull() {
		state = prior
	}
	state = state.WithUnknownAsNull()

	resp := &wire.ApplyResourceChangeResponse{
		Private:     ur.Private,
		Diagnostics: wire.DiagnosticsToWire(ur.Diagnostics),
	}
	dv, err := wire.NewDynamicValue(state)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "cannot encode state: %v", err)
	}
	resp.NewState = dv
	return resp, nil
}

// fillAppliedState enforces the create contract on a returned state: every
// schema attribute is populated, gaps being filled from the planned values
// and finally with Null. A resource that returns a partial or Null state on
// failure still produces a complete record.
func fillAppliedState(sch *schema.Schema, state, planned dynamic.Value) dynamic.Value {
	if state.IsNull() || state.IsUnknown() {
		state = dynamic.MapVal(nil)
	}
	if filled, err := dynamic.FillMissing(state, planned); err == nil {
		state = filled
	}
	for _, name := range sch.AttributeNames() {
		p := dynamic.EmptyPath().Attribute(name)
		if _, err := state.AtPath(p); dynamic.IsNotFound(err) {
			if ns, err := state.SetAtPath(p, dynamic.NullVal()); err == nil {
				state = ns
			}
		}
	}
	return state
}

// ImportResourceState adopts an out-of-band object. Resources that do not
// implement the import hook reject the call outright.
func (s *PluginServer) ImportResourceState(ctx context.Context, req *wire.ImportResourceStateRequest) (*wire.ImportResourceStateResponse, error) {
	r, _, err := s.resource(ctx, req.TypeName)
	if err != nil {
		return nil, err
	}
	ri, ok := r.(provider.ResourceWithImportState)
	if !ok {
		return nil, status.Errorf(codes.Unimplemented, errImportUnsupported, req.TypeName)
	}

	ir := ri.ImportState(ctx, provider.ImportStateRequest{ID: req.ID})

	resp := &wire.ImportResourceStateResponse{Diagnostics: wire.DiagnosticsToWire(ir.Diagnostics)}
	for _, imp := range ir.Imported {
		dv, err := wire.NewDynamicValue(imp.State)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "cannot encode imported state: %v", err)
		}
		typeName := imp.TypeName
		if typeName == "" {
			typeName = req.TypeName
		}
		resp.ImportedResources = append(resp.ImportedResources, &wire.ImportedResource{
			TypeName: typeName,
			State:    dv,
			Private:  imp.Private,
		})
	}
	return resp, nil
}
