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

// Package test provides mock capability implementations and cmp options
// for testing code built on the runtime.
package test

import (
	"context"

	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
	"github.com/skycrane/provider-runtime/pkg/provider"
	"github.com/skycrane/provider-runtime/pkg/schema"
)

// MockMetadataFn mocks the Metadata method of a Provider.
type MockMetadataFn func(ctx context.Context) provider.Metadata

// MockSchemaFn mocks the Schema method of a capability.
type MockSchemaFn func(ctx context.Context) *schema.Schema

// MockValidateConfigFn mocks the ValidateConfig method of a capability.
type MockValidateConfigFn func(ctx context.Context, config dynamic.Value) diag.Diagnostics

// MockConfigureProviderFn mocks the Configure method of a Provider.
type MockConfigureProviderFn func(ctx context.Context, config dynamic.Value) (*provider.Data, diag.Diagnostics)

// MockStopFn mocks the Stop method of a Provider.
type MockStopFn func(ctx context.Context) error

// MockResourcesFn mocks the Resources method of a Provider.
type MockResourcesFn func(ctx context.Context) map[string]provider.ResourceFactory

// MockDataSourcesFn mocks the DataSources method of a Provider.
type MockDataSourcesFn func(ctx context.Context) map[string]provider.DataSourceFactory

// MockProvider is a mock Provider for testing.
type MockProvider struct {
	MockMetadata       MockMetadataFn
	MockSchema         MockSchemaFn
	MockValidateConfig MockValidateConfigFn
	MockConfigure      MockConfigureProviderFn
	MockStop           MockStopFn
	MockResources      MockResourcesFn
	MockDataSources    MockDataSourcesFn
}

// NewMockProvider creates a new MockProvider.
func NewMockProvider(o ...func(*MockProvider)) *MockProvider {
	p := &MockProvider{}
	for _, fn := range o {
		fn(p)
	}
	return p
}

// WithMockConfigure adds a MockConfigure function to the MockProvider.
func WithMockConfigure(fn MockConfigureProviderFn) func(*MockProvider) {
	return func(p *MockProvider) {
		p.MockConfigure = fn
	}
}

// WithMockResources adds a MockResources function to the MockProvider.
func WithMockResources(fn MockResourcesFn) func(*MockProvider) {
	return func(p *MockProvider) {
		p.MockResources = fn
	}
}

// WithMockDataSources adds a MockDataSources function to the MockProvider.
func WithMockDataSources(fn MockDataSourcesFn) func(*MockProvider) {
	return func(p *MockProvider) {
		p.MockDataSources = fn
	}
}

// WithMockProviderSchema adds a MockSchema function to the MockProvider.
func WithMockProviderSchema(fn MockSchemaFn) func(*MockProvider) {
	return func(p *MockProvider) {
		p.MockSchema = fn
	}
}

// Metadata calls the MockMetadata function.
func (p *MockProvider) Metadata(ctx context.Context) provider.Metadata {
	if p.MockMetadata != nil {
		return p.MockMetadata(ctx)
	}
	return provider.Metadata{TypeName: "mock"}
}

// Schema calls the MockSchema function.
func (p *MockProvider) Schema(ctx context.Context) *schema.Schema {
	if p.MockSchema != nil {
		return p.MockSchema(ctx)
	}
	return schema.NewBuilder(0).MustBuild()
}

// ValidateConfig calls the MockValidateConfig function.
func (p *MockProvider) ValidateConfig(ctx context.Context, config dynamic.Value) diag.Diagnostics {
	if p.MockValidateConfig != nil {
		return p.MockValidateConfig(ctx, config)
	}
	return nil
}

// Configure calls the MockConfigure function.
func (p *MockProvider) Configure(ctx context.Context, config dynamic.Value) (*provider.Data, diag.Diagnostics) {
	if p.MockConfigure != nil {
		return p.MockConfigure(ctx, config)
	}
	return nil, nil
}

// Stop calls the MockStop function.
func (p *MockProvider) Stop(ctx context.Context) error {
	if p.MockStop != nil {
		return p.MockStop(ctx)
	}
	return nil
}

// Resources calls the MockResources function.
func (p *MockProvider) Resources(ctx context.Context) map[string]provider.ResourceFactory {
	if p.MockResources != nil {
		return p.MockResources(ctx)
	}
	return nil
}

// DataSources calls the MockDataSources function.
func (p *MockProvider) DataSources(ctx context.Context) map[string]provider.DataSourceFactory {
	if p.MockDataSources != nil {
		return p.MockDataSources(ctx)
	}
	return nil
}

// MockCreateFn mocks the Create method of a Resource.
type MockCreateFn func(ctx context.Context, req provider.CreateRequest) provider.CreateResponse

// MockReadFn mocks the Read method of a Resource.
type MockReadFn func(ctx context.Context, req provider.ReadRequest) provider.ReadResponse

// MockUpdateFn mocks the Update method of a Resource.
type MockUpdateFn func(ctx context.Context, req provider.UpdateRequest) provider.UpdateResponse

// MockDeleteFn mocks the Delete method of a Resource.
type MockDeleteFn func(ctx context.Context, req provider.DeleteRequest) provider.DeleteResponse

// MockConfigureFn mocks the Configure method of a configurable capability.
type MockConfigureFn func(ctx context.Context, data *provider.Data) diag.Diagnostics

// MockImportStateFn mocks the ImportState method of an importable Resource.
type MockImportStateFn func(ctx context.Context, req provider.ImportStateRequest) provider.ImportStateResponse

// MockModifyPlanFn mocks the ModifyPlan method of a Resource.
type MockModifyPlanFn func(ctx context.Context, req provider.ModifyPlanRequest) provider.ModifyPlanResponse

// MockUpgradeStateFn mocks the UpgradeState method of a Resource.
type MockUpgradeStateFn func(ctx context.Context, req provider.UpgradeStateRequest) provider.UpgradeStateResponse

// MockResource is a mock Resource for testing. It implements every
// optional resource capability; leave a Mock function nil to get a benign
// default.
type MockResource struct {
	MockSchema         MockSchemaFn
	MockValidateConfig MockValidateConfigFn
	MockCreate         MockCreateFn
	MockRead           MockReadFn
	MockUpdate         MockUpdateFn
	MockDelete         MockDeleteFn
	MockConfigure      MockConfigureFn
	MockImportState    MockImportStateFn
	MockModifyPlan     MockModifyPlanFn
	MockUpgradeState   MockUpgradeStateFn
}

// NewMockResource creates a new MockResource.
func NewMockResource(o ...func(*MockResource)) *MockResource {
	r := &MockResource{}
	for _, fn := range o {
		fn(r)
	}
	return r
}

// WithMockSchema adds a MockSchema function to the MockResource.
func WithMockSchema(fn MockSchemaFn) func(*MockResource) {
	return func(r *MockResource) {
		r.MockSchema = fn
	}
}

// WithMockCreate adds a MockCreate function to the MockResource.
func WithMockCreate(fn MockCreateFn) func(*MockResource) {
	return func(r *MockResource) {
		r.MockCreate = fn
	}
}

// WithMockRead adds a MockRead function to the MockResource.
func WithMockRead(fn MockReadFn) func(*MockResource) {
	return func(r *MockResource) {
		r.MockRead = fn
	}
}

// WithMockUpdate adds a MockUpdate function to the MockResource.
func WithMockUpdate(fn MockUpdateFn) func(*MockResource) {
	return func(r *MockResource) {
		r.MockUpdate = fn
	}
}

// WithMockDelete adds a MockDelete function to the MockResource.
func WithMockDelete(fn MockDeleteFn) func(*MockResource) {
	return func(r *MockResource) {
		r.MockDelete = fn
	}
}

// Schema calls the MockSchema function.
func (r *MockResource) Schema(ctx context.Context) *schema.Schema {
	if r.MockSchema != nil {
		return r.MockSchema(ctx)
	}
	return schema.NewBuilder(0).MustBuild()
}

// ValidateConfig calls the MockValidateConfig function.
func (r *MockResource) ValidateConfig(ctx context.Context, config dynamic.Value) diag.Diagnostics {
	if r.MockValidateConfig != nil {
		return r.MockValidateConfig(ctx, config)
	}
	return nil
}

// Create calls the MockCreate function.
func (r *MockResource) Create(ctx context.Context, req provider.CreateRequest) provider.CreateResponse {
	if r.MockCreate != nil {
		return r.MockCreate(ctx, req)
	}
	return provider.CreateResponse{State: req.Planned}
}

// Read calls the MockRead function.
func (r *MockResource) Read(ctx context.Context, req provider.ReadRequest) provider.ReadResponse {
	if r.MockRead != nil {
		return r.MockRead(ctx, req)
	}
	return provider.ReadResponse{State: req.State, ResourceExists: true}
}

// Update calls the MockUpdate function.
func (r *MockResource) Update(ctx context.Context, req provider.UpdateRequest) provider.UpdateResponse {
	if r.MockUpdate != nil {
		return r.MockUpdate(ctx, req)
	}
	return provider.UpdateResponse{State: req.Planned}
}

// Delete calls the MockDelete function.
func (r *MockResource) Delete(ctx context.Context, req provider.DeleteRequest) provider.DeleteResponse {
	if r.MockDelete != nil {
		return r.MockDelete(ctx, req)
	}
	return provider.DeleteResponse{}
}

// Configure calls the MockConfigure function.
func (r *MockResource) Configure(ctx context.Context, data *provider.Data) diag.Diagnostics {
	if r.MockConfigure != nil {
		return r.MockConfigure(ctx, data)
	}
	return nil
}

// ImportState calls the MockImportState function.
func (r *MockResource) ImportState(ctx context.Context, req provider.ImportStateRequest) provider.ImportStateResponse {
	if r.MockImportState != nil {
		return r.MockImportState(ctx, req)
	}
	return provider.ImportStateResponse{}
}

// ModifyPlan calls the MockModifyPlan function.
func (r *MockResource) ModifyPlan(ctx context.Context, req provider.ModifyPlanRequest) provider.ModifyPlanResponse {
	if r.MockModifyPlan != nil {
		return r.MockModifyPlan(ctx, req)
	}
	return provider.ModifyPlanResponse{Plan: req.Plan, RequiresReplace: req.RequiresReplace}
}

// UpgradeState calls the MockUpgradeState function.
func (r *MockResource) UpgradeState(ctx context.Context, req provider.UpgradeStateRequest) provider.UpgradeStateResponse {
	if r.MockUpgradeState != nil {
		return r.MockUpgradeState(ctx, req)
	}
	return provider.UpgradeStateResponse{State: req.State}
}

// MockDataSourceReadFn mocks the Read method of a DataSource.
type MockDataSourceReadFn func(ctx context.Context, req provider.DataSourceReadRequest) provider.DataSourceReadResponse

// MockDataSource is a mock DataSource for testing.
type MockDataSource struct {
	MockSchema         MockSchemaFn
	MockValidateConfig MockValidateConfigFn
	MockRead           MockDataSourceReadFn
	MockConfigure      MockConfigureFn
}

// NewMockDataSource creates a new MockDataSource.
func NewMockDataSource(o ...func(*MockDataSource)) *MockDataSource {
	d := &MockDataSource{}
	for _, fn := range o {
		fn(d)
	}
	return d
}

// WithMockDataSourceSchema adds a MockSchema function to the MockDataSource.
func WithMockDataSourceSchema(fn MockSchemaFn) func(*MockDataSource) {
	return func(d *MockDataSource) {
		d.MockSchema = fn
	}
}

// WithMockDataSourceRead adds a MockRead function to the MockDataSource.
func WithMockDataSourceRead(fn MockDataSourceReadFn) func(*MockDataSource) {
	return func(d *MockDataSource) {
		d.MockRead = fn
	}
}

// Schema calls the MockSchema function.
func (d *MockDataSource) Schema(ctx context.Context) *schema.Schema {
	if d.MockSchema != nil {
		return d.MockSchema(ctx)
	}
	return schema.NewBuilder(0).MustBuild()
}

// ValidateConfig calls the MockValidateConfig function.
func (d *MockDataSource) ValidateConfig(ctx context.Context, config dynamic.Value) diag.Diagnostics {
	if d.MockValidateConfig != nil {
		return d.MockValidateConfig(ctx, config)
	}
	return nil
}

// Read calls the MockRead function.
func (d *MockDataSource) Read(ctx context.Context, req provider.DataSourceReadRequest) provider.DataSourceReadResponse {
	if d.MockRead != nil {
		return d.MockRead(ctx, req)
	}
	return provider.DataSourceReadResponse{}
}

// Configure calls the MockConfigure function.
func (d *MockDataSource) Configure(ctx context.Context, data *provider.Data) diag.Diagnostics {
	if d.MockConfigure != nil {
		return d.MockConfigure(ctx, data)
	}
	return nil
}
