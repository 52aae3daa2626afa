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

// Package server bridges the wire RPC service to the capability contracts:
// it decodes wire dynamic values, locates the target capability instance
// by type name, invokes the matching method, and encodes the result. A
// single mutex protects configuration mutation and the instance
// registries; capability calls run with the lock released so one slow
// backend call cannot serialize the whole process.
package server

import (
	"context"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/skycrane/provider-runtime/pkg/logging"
	"github.com/skycrane/provider-runtime/pkg/provider"
	"github.com/skycrane/provider-runtime/pkg/schema"
	"github.com/skycrane/provider-runtime/pkg/wire"
)

// Error strings.
const (
	errUnknownResourceType   = "unknown resource type %q"
	errUnknownDataSourceType = "unknown data source type %q"
	errUnknownFunction       = "unknown function %q"
	errDecodeConfig          = "cannot decode config value: %v"
	errDecodeState           = "cannot decode state value: %v"
	errDecodePlan            = "cannot decode planned value: %v"
	errImportUnsupported     = "resource type %q does not support import"
	errFunctionsUnsupported  = "provider does not expose functions"
)

// A PluginServer implements the wire provider service on top of a
// capability Provider.
type PluginServer struct {
	// provider is the capability implementation being served.
	provider provider.Provider

	// log is the server logger.
	log logging.Logger

	// mu protects the fields below. It is held only while mutating
	// configuration or fetching capability instances, never across a
	// capability call.
	mu sync.RWMutex

	configured   bool
	providerData *provider.Data

	resources         map[string]provider.Resource
	dataSources       map[string]provider.DataSource
	resourceSchemas   map[string]*schema.Schema
	dataSourceSchemas map[string]*schema.Schema
}

// A PluginServerOption configures a PluginServer.
type PluginServerOption func(*PluginServer)

// WithLogger sets the server logger.
func WithLogger(log logging.Logger) PluginServerOption {
	return func(s *PluginServer) {
		s.log = log
	}
}

// NewPluginServer returns a PluginServer serving the supplied provider.
func NewPluginServer(p provider.Provider, opts ...PluginServerOption) *PluginServer {
	s := &PluginServer{
		provider:          p,
		log:               logging.NewNopLogger(),
		resources:         make(map[string]provider.Resource),
		dataSources:       make(map[string]provider.DataSource),
		resourceSchemas:   make(map[string]*schema.Schema),
		dataSourceSchemas: make(map[string]*schema.Schema),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ wire.ProviderServer = &PluginServer{}

// resource returns the cached resource instance and schema for the
// supplied type name, creating and configuring them on first use. Schemas
// are built once per type name and cached for the process lifetime.
func (s *PluginServer) resource(ctx context.Context, typeName string) (provider.Resource, *schema.Schema, error) {
	s.mu.RLock()
	r, ok := s.resources[typeName]
	sch := s.resourceSchemas[typeName]
	s.mu.RUnlock()
	if ok {
		return r, sch, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another call may have created the instance while the lock was
	// released.
	if r, ok := s.resources[typeName]; ok {
		return r, s.resourceSchemas[typeName], nil
	}

	factory, ok := s.provider.Resources(ctx)[typeName]
	if !ok {
		return nil, nil, status.Errorf(codes.NotFound, errUnknownResourceType, typeName)
	}

	r = factory()
	if rc, ok := r.(provider.ResourceWithConfigure); ok {
		if diags := rc.Configure(ctx, s.providerData); diags.HasError() {
			s.log.Debug("Resource configure reported errors", "type", typeName)
		}
	}

	s.resources[typeName] = r
	s.resourceSchemas[typeName] = r.Schema(ctx)
	s.log.Debug("Registered resource instance", "type", typeName)
	return r, s.resourceSchemas[typeName], nil
}

// dataSource returns the cached data source instance and schema for the
// supplied type name, creating and configuring them on first use.
func (s *PluginServer) dataSource(ctx context.Context, typeName string) (provider.DataSource, *schema.Schema, error) {
	s.mu.RLock()
	d, ok := s.dataSources[typeName]
	sch := s.dataSourceSchemas[typeName]
	s.mu.RUnlock()
	if ok {
		return d, sch, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.dataSources[typeName]; ok {
		return d, s.dataSourceSchemas[typeName], nil
	}

	factory, ok := s.provider.DataSources(ctx)[typeName]
	if !ok {
		return nil, nil, status.Errorf(codes.NotFound, errUnknownDataSourceType, typeName)
	}

	d = factory()
	if dc, ok := d.(provider.DataSourceWithConfigure); ok {
		if diags := dc.Configure(ctx, s.providerData); diags.HasError() {
			s.log.Debug("Data source configure reported errors", "type", typeName)
		}
	}

	s.dataSources[typeName] = d
	s.dataSourceSchemas[typeName] = d.Schema(ctx)
	s.log.Debug("Registered data source instance", "type", typeName)
	return d, s.dataSourceSchemas[typeName], nil
}
