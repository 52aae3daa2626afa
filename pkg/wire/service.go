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

// ServiceName is the fully-qualified name of the provider service.
const ServiceName = "skycrane.provider.v6.Provider"

// A ProviderServer serves the versioned provider protocol.
type ProviderServer interface {
	GetMetadata(context.Context, *GetMetadataRequest) (*GetMetadataResponse, error)
	GetProviderSchema(context.Context, *GetProviderSchemaRequest) (*GetProviderSchemaResponse, error)
	ValidateProviderConfig(context.Context, *ValidateProviderConfigRequest) (*ValidateProviderConfigResponse, error)
	ConfigureProvider(context.Context, *ConfigureProviderRequest) (*ConfigureProviderResponse, error)
	StopProvider(context.Context, *StopProviderRequest) (*StopProviderResponse, error)
	ValidateResourceConfig(context.Context, *ValidateResourceConfigRequest) (*ValidateResourceConfigResponse, error)
	UpgradeResourceState(context.Context, *UpgradeResourceStateRequest) (*UpgradeResourceStateResponse, error)
	ReadResource(context.Context, *ReadResourceRequest) (*ReadResourceResponse, error)
	PlanResourceChange(context.Context, *PlanResourceChangeRequest) (*PlanResourceChangeResponse, error)
	ApplyResourceChange(context.Context, *ApplyResourceChangeRequest) (*ApplyResourceChangeResponse, error)
	ImportResourceState(context.Context, *ImportResourceStateRequest) (*ImportResourceStateResponse, error)
	ReadDataSource(context.Context, *ReadDataSourceRequest) (*ReadDataSourceResponse, error)
	GetFunctions(context.Context, *GetFunctionsRequest) (*GetFunctionsResponse, error)
	CallFunction(context.Context, *CallFunctionRequest) (*CallFunctionResponse, error)
}

// RegisterProviderServer registers a ProviderServer with a gRPC server.
func RegisterProviderServer(s grpc.ServiceRegistrar, srv ProviderServer) {
	s.RegisterService(&ProviderServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](method string, call func(ProviderServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ProviderServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ProviderServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ProviderServiceDesc is the gRPC service descriptor for the provider
// service. It is written by hand: the protocol's messages travel in
// msgpack rather than protobuf, so there is no generated code.
var ProviderServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProviderServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("GetMetadata", ProviderServer.GetMetadata),
		unaryHandler("GetProviderSchema", ProviderServer.GetProviderSchema),
		unaryHandler("ValidateProviderConfig", ProviderServer.ValidateProviderConfig),
		unaryHandler("ConfigureProvider", ProviderServer.ConfigureProvider),
		unaryHandler("StopProvider", ProviderServer.StopProvider),
		unaryHandler("ValidateResourceConfig", ProviderServer.ValidateResourceConfig),
		unaryHandler("UpgradeResourceState", ProviderServer.UpgradeResourceState),
		unaryHandler("ReadResource", ProviderServer.ReadResource),
		unaryHandler("PlanResourceChange", ProviderServer.PlanResourceChange),
		unaryHandler("ApplyResourceChange", ProviderServer.ApplyResourceChange),
		unaryHandler("ImportResourceState", ProviderServer.ImportResourceState),
		unaryHandler("ReadDataSource", ProviderServer.ReadDataSource),
		unaryHandler("GetFunctions", ProviderServer.GetFunctions),
		unaryHandler("CallFunction", ProviderServer.CallFunction),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "skycrane/provider/v6/provider.msgpack",
}
