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

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/skycrane/provider-runtime/pkg/plan"
	"github.com/skycrane/provider-runtime/pkg/provider"
	"github.com/skycrane/provider-runtime/pkg/wire"
)

// ReadDataSource performs a data source lookup. The configuration is
// validated against the schema's declarative validators first; the lookup
// runs only when validation passes.
func (s *PluginServer) ReadDataSource(ctx context.Context, req *wire.ReadDataSourceRequest) (*wire.ReadDataSourceResponse, error) {
	d, sch, err := s.dataSource(ctx, req.TypeName)
	if err != nil {
		return nil, err
	}
	config, err := req.Config.Unmarshal()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, errDecodeConfig, err)
	}

	diags := plan.ValidateConfig(ctx, sch, config)
	diags.Extend(d.ValidateConfig(ctx, config))
	if diags.HasError() {
		return &wire.ReadDataSourceResponse{Diagnostics: wire.DiagnosticsToWire(diags)}, nil
	}

	dr := d.Read(ctx, provider.DataSourceReadRequest{Config: config})
	diags.Extend(dr.Diagnostics)

	resp := &wire.ReadDataSourceResponse{Diagnostics: wire.DiagnosticsToWire(diags)}
	if !diags.HasError() {
		dv, err := wire.NewDynamicValue(dr.State.WithUnknownAsNull())
		if err != nil {
			return nil, status.Errorf(codes.Internal, "cannot encode state: %v", err)
		}
		resp.State = dv
	}
	return resp, nil
}
