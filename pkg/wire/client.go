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
	"context"

	"google.golang.org/grpc"
)

// A ProviderClient calls the provider service over a gRPC connection. The
// zero CallOption set forces the protocol's msgpack codec; callers need
// not configure anything beyond the connection itself.
type ProviderClient struct {
	cc grpc.ClientConnInterface
}

// NewProviderClient returns a ProviderClient for the supplied connection.
func NewProviderClient(cc grpc.ClientConnInterface) *ProviderClient {
	return &ProviderClient{cc: cc}
}

func invoke[Req any, Resp any](ctx context.Context, c *ProviderClient, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMetadata calls the GetMetadata RPC.
func (c *ProviderClient) GetMetadata(ctx context.Context, in *GetMetadataRequest, opts ...grpc.CallOption) (*GetMetadataResponse, error) {
	return invoke[GetMetadataRequest, GetMetadataResponse](ctx, c, "GetMetadata", in, opts)
}

// GetProviderSchema calls the GetProviderSchema RPC.
func (c *ProviderClient) GetProviderSchema(ctx context.Context, in *GetProviderSchemaRequest, opts ...grpc.CallOption) (*GetProviderSchemaResponse, error) {
	return invoke[GetProviderSchemaRequest, GetProviderSchemaResponse](ctx, c, "GetProviderSchema", in, opts)
}

// ValidateProviderConfig calls the ValidateProviderConfig RPC.
func (c *ProviderClient) ValidateProviderConfig(ctx context.Context, in *ValidateProviderConfigRequest, opts ...grpc.CallOption) (*ValidateProviderConfigResponse, error) {
	return invoke[ValidateProviderConfigRequest, ValidateProviderConfigResponse](ctx, c, "ValidateProviderConfig", in, opts)
}

// ConfigureProvider calls the ConfigureProvider RPC.
func (c *ProviderClient) ConfigureProvider(ctx context.Context, in *ConfigureProviderRequest, opts ...grpc.CallOption) (*ConfigureProviderResponse, error) {
	return invoke[ConfigureProviderRequest, ConfigureProviderResponse](ctx, c, "ConfigureProvider", in, opts)
}

// StopProvider calls the StopProvider RPC.
func (c *ProviderClient) StopProvider(ctx context.Context, in *StopProviderRequest, opts ...grpc.CallOption) (*StopProviderResponse, error) {
	return invoke[StopProviderRequest, StopProviderResponse](ctx, c, "StopProvider", in, opts)
}

// ValidateResourceConfig calls the ValidateResourceConfig RPC.
func (c *ProviderClient) ValidateResourceConfig(ctx context.Context, in *ValidateResourceConfigRequest, opts ...grpc.CallOption) (*ValidateResourceConfigResponse, error) {
	return invoke[ValidateResourceConfigRequest, ValidateResourceConfigResponse](ctx, c, "ValidateResourceConfig", in, opts)
}

// UpgradeResourceState calls the UpgradeResourceState RPC.
func (c *ProviderClient) UpgradeResourceState(ctx context.Context, in *UpgradeResourceStateRequest, opts ...grpc.CallOption) (*UpgradeResourceStateResponse, error) {
	return invoke[UpgradeResourceStateRequest, UpgradeResourceStateResponse](ctx, c, "UpgradeResourceState", in, opts)
}

// ReadResource calls the ReadResource RPC.
func (c *ProviderClient) ReadResource(ctx context.Context, in *ReadResourceRequest, opts ...grpc.CallOption) (*ReadResourceResponse, error) {
	return invoke[ReadResourceRequest, ReadResourceResponse](ctx, c, "ReadResource", in, opts)
}

// PlanResourceChange calls the PlanResourceChange RPC.
func (c *ProviderClient) PlanResourceChange(ctx context.Context, in *PlanResourceChangeRequest, opts ...grpc.CallOption) (*PlanResourceChangeResponse, error) {
	return invoke[PlanResourceChangeRequest, PlanResourceChangeResponse](ctx, c, "PlanResourceChange", in, opts)
}

// ApplyResourceChange calls the ApplyResourceChange RPC.
func (c *ProviderClient) ApplyResourceChange(ctx context.Context, in *ApplyResourceChangeRequest, opts ...grpc.CallOption) (*ApplyResourceChangeResponse, error) {
	return invoke[ApplyResourceChangeRequest, ApplyResourceChangeResponse](ctx, c, "ApplyResourceChange", in, opts)
}

// ImportResourceState calls the ImportResourceState RPC.
func (c *ProviderClient) ImportResourceState(ctx context.Context, in *ImportResourceStateRequest, opts ...grpc.CallOption) (*ImportResourceStateResponse, error) {
	return invoke[ImportResourceStateRequest, ImportResourceStateResponse](ctx, c, "ImportResourceState", in, opts)
}

// ReadDataSource calls the ReadDataSource RPC.
func (c *ProviderClient) ReadDataSource(ctx context.Context, in *ReadDataSourceRequest, opts ...grpc.CallOption) (*ReadDataSourceResponse, error) {
	return invoke[ReadDataSourceRequest, ReadDataSourceResponse](ctx, c, "ReadDataSource", in, opts)
}

// GetFunctions calls the GetFunctions RPC.
func (c *ProviderClient) GetFunctions(ctx context.Context, in *GetFunctionsRequest, opts ...grpc.CallOption) (*GetFunctionsResponse, error) {
	return invoke[GetFunctionsRequest, GetFunctionsResponse](ctx, c, "GetFunctions", in, opts)
}

// CallFunction calls the CallFunction RPC.
func (c *ProviderClient) CallFunction(ctx context.Context, in *CallFunctionRequest, opts ...grpc.CallOption) (*CallFunctionResponse, error) {
	return invoke[CallFunctionRequest, CallFunctionResponse](ctx, c, "CallFunction", in, opts)
}
