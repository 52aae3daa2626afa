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
	"sort"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
	"github.com/skycrane/provider-runtime/pkg/plan"
	"github.com/skycrane/provider-runtime/pkg/provider"
	"github.com/skycrane/provider-runtime/pkg/wire"
)

// GetMetadata returns the provider's identity and the type names it
// serves. It is always legal, configured or not.
func (s *PluginServer) GetMetadata(ctx context.Context, req *wire.GetMetadataRequest) (*wire.GetMetadataResponse, error) {
	md := s.provider.Metadata(ctx)

	resp := &wire.GetMetadataResponse{
		TypeName:    md.TypeName,
		Version:     md.Version,
		Resources:   sortedKeys(s.provider.Resources(ctx)),
		DataSources: sortedKeys(s.provider.DataSources(ctx)),
	}
	if pf, ok := s.provider.(provider.ProviderWithFunctions); ok {
		resp.Functions = sortedKeys(pf.Functions(ctx))
	}
	return resp, nil
}

// GetProviderSchema returns the provider configuration schema plus the
// schema of every resource and data source type.
func (s *PluginServer) GetProviderSchema(ctx context.Context, req *wire.GetProviderSchemaRequest) (*wire.GetProviderSchemaResponse, error) {
	resp := &wire.GetProviderSchemaResponse{
		Provider:          wire.SchemaToWire(s.provider.Schema(ctx)),
		ResourceSchemas:   map[string]*wire.Schema{},
		DataSourceSchemas: map[string]*wire.Schema{},
	}

	for _, name := range sortedKeys(s.provider.Resources(ctx)) {
		_, sch, err := s.resource(ctx, name)
		if err != nil {
			return nil, err
		}
		resp.ResourceSchemas[name] = wire.SchemaToWire(sch)
	}
	for _, name := range sortedKeys(s.provider.DataSources(ctx)) {
		_, sch, err := s.dataSource(ctx, name)
		if err != nil {
			return nil, err
		}
		resp.DataSourceSchemas[name] = wire.SchemaToWire(sch)
	}
	return resp, nil
}

// ValidateProviderConfig runs the provider schema's declarative validators,
// then the provider's own validation hook. The two diagnostic sets are
// concatenated so one call surfaces every violation.
func (s *PluginServer) ValidateProviderConfig(ctx context.Context, req *wire.ValidateProviderConfigRequest) (*wire.ValidateProviderConfigResponse, error) {
	config, err := req.Config.Unmarshal()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, errDecodeConfig, err)
	}

	diags := plan.ValidateConfig(ctx, s.provider.Schema(ctx), config)
	diags.Extend(s.provider.ValidateConfig(ctx, config))

	return &wire.ValidateProviderConfigResponse{Diagnostics: wire.DiagnosticsToWire(diags)}, nil
}

// ConfigureProvider prepares the provider's shared context. On success the
// resulting data is handed to every cached capability instance and to each
// instance created afterwards.
func (s *PluginServer) ConfigureProvider(ctx context.Context, req *wire.ConfigureProviderRequest) (*wire.ConfigureProviderResponse, error) {
	config, err := req.Config.Unmarshal()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, errDecodeConfig, err)
	}

	data, diags := s.provider.Configure(ctx, config)
	if diags.HasError() {
		return &wire.ConfigureProviderResponse{Diagnostics: wire.DiagnosticsToWire(diags)}, nil
	}

	s.mu.Lock()
	s.configured = true
	s.providerData = data
	// Instances created before configure were handed nil data; bring them
	// up to date.
	for _, r := range s.resources {
		if rc, ok := r.(provider.ResourceWithConfigure); ok {
			diags.Extend(rc.Configure(ctx, data))
		}
	}
	for _, d := range s.dataSources {
		if dc, ok := d.(provider.DataSourceWithConfigure); ok {
			diags.Extend(dc.Configure(ctx, data))
		}
	}
	s.mu.Unlock()

	s.log.Debug("Configured provider", "host-version", req.HostVersion)
	return &wire.ConfigureProviderResponse{Diagnostics: wire.DiagnosticsToWire(diags)}, nil
}

// StopProvider asks the provider to abandon in-flight work. Failure is
// reported as text rather than an RPC error so the host can distinguish a
// stop failure from a transport failure.
func (s *PluginServer) StopProvider(ctx context.Context, req *wire.StopProviderRequest) (*wire.StopProviderResponse, error) {
	if err := s.provider.Stop(ctx); err != nil {
		return &wire.StopProviderResponse{Error: err.Error()}, nil
	}
	return &wire.StopProviderResponse{}, nil
}

// GetFunctions lists the provider's callable functions. A provider without
// functions returns an empty set.
func (s *PluginServer) GetFunctions(ctx context.Context, req *wire.GetFunctionsRequest) (*wire.GetFunctionsResponse, error) {
	pf, ok := s.provider.(provider.ProviderWithFunctions)
	if !ok {
		return &wire.GetFunctionsResponse{}, nil
	}

	resp := &wire.GetFunctionsResponse{Functions: map[string]*wire.FunctionSignature{}}
	for name, fn := range pf.Functions(ctx) {
		def := fn.Definition(ctx)
		sig := &wire.FunctionSignature{Summary: def.Summary, Return: def.Return.String()}
		for _, p := range def.Parameters {
			sig.Parameters = append(sig.Parameters, p.String())
		}
		resp.Functions[name] = sig
	}
	return resp, nil
}

// CallFunction evaluates a provider-defined function.
func (s *PluginServer) CallFunction(ctx context.Context, req *wire.CallFunctionRequest) (*wire.CallFunctionResponse, error) {
	pf, ok := s.provider.(provider.ProviderWithFunctions)
	if !ok {
		return nil, status.Error(codes.Unimplemented, errFunctionsUnsupported)
	}
	fn, ok := pf.Functions(ctx)[req.Name]
	if !ok {
		return nil, status.Errorf(codes.NotFound, errUnknownFunction, req.Name)
	}

	decoded, diags := decodeArguments(req.Arguments)
	if diags.HasError() {
		return &wire.CallFunctionResponse{Diagnostics: wire.DiagnosticsToWire(diags)}, nil
	}

	result, callDiags := fn.Call(ctx, decoded)
	diags.Extend(callDiags)

	resp := &wire.CallFunctionResponse{Diagnostics: wire.DiagnosticsToWire(diags)}
	if !diags.HasError() {
		dv, err := wire.NewDynamicValue(result)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "cannot encode function result: %v", err)
		}
		resp.Result = dv
	}
	return resp, nil
}

func decodeArguments(in []*wire.DynamicValue) ([]dynamic.Value, diag.Diagnostics) {
	var diags diag.Diagnostics
	out := make([]dynamic.Value, 0, len(in))
	for i, a := range in {
		v, err := a.Unmarshal()
		if err != nil {
			diags.AddError("Invalid function argument",
				"Argument "+strconv.Itoa(i)+" could not be decoded: "+err.Error())
			continue
		}
		out = append(out, v)
	}
	return out, diags
}

// sortedKeys returns the map's keys in sorted order.
func sortedKeys[V any](in map[string]V) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for k := range in {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
