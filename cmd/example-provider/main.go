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

// An example provider plugin. It manages "buckets" in process memory, which
// makes it useless for real infrastructure but handy for exercising a host
// against the full protocol: planning with unknown values, forced
// replacement, imports and data source lookups all behave like the real
// thing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
	"github.com/skycrane/provider-runtime/pkg/logging"
	"github.com/skycrane/provider-runtime/pkg/provider"
	"github.com/skycrane/provider-runtime/pkg/schema"
	"github.com/skycrane/provider-runtime/pkg/schema/defaults"
	"github.com/skycrane/provider-runtime/pkg/schema/planmod"
	"github.com/skycrane/provider-runtime/pkg/schema/validator"
	"github.com/skycrane/provider-runtime/pkg/server"
)

var (
	debug    = flag.Bool("debug", false, "Enable debug logging")
	certFile = flag.String("tls-cert", "", "PEM certificate presented to the host")
	keyFile  = flag.String("tls-key", "", "PEM key for -tls-cert")
)

// A store keeps bucket records in memory, keyed by id.
type store struct {
	mu      sync.Mutex
	serial  int
	buckets map[string]bucket
}

type bucket struct {
	id     string
	name   string
	region string
}

func newStore() *store {
	return &store{buckets: map[string]bucket{}}
}

func (s *store) create(name, region string) bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serial++
	b := bucket{id: fmt.Sprintf("bkt-%d", s.serial), name: name, region: region}
	s.buckets[b.id] = b
	return b
}

func (s *store) get(id string) (bucket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[id]
	return b, ok
}

func (s *store) find(name string) (bucket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.buckets {
		if b.name == name {
			return b, true
		}
	}
	return bucket{}, false
}

func (s *store) put(b bucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[b.id] = b
}

func (s *store) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, id)
}

type memoryProvider struct{}

func (p *memoryProvider) Metadata(_ context.Context) provider.Metadata {
	return provider.Metadata{TypeName: "memory", Version: "0.1.0"}
}

func (p *memoryProvider) Schema(_ context.Context) *schema.Schema {
	return schema.NewBuilder(0).
		Attribute(schema.Attribute{
			Name: "default_region", Type: schema.TypeString, Optional: true,
		}).
		MustBuild()
}

func (p *memoryProvider) ValidateConfig(_ context.Context, _ dynamic.Value) diag.Diagnostics {
	return nil
}

func (p *memoryProvider) Configure(_ context.Context, _ dynamic.Value) (*provider.Data, diag.Diagnostics) {
	return provider.NewData("store", newStore()), nil
}

func (p *memoryProvider) Stop(_ context.Context) error { return nil }

func (p *memoryProvider) Resources(_ context.Context) map[string]provider.ResourceFactory {
	return map[string]provider.ResourceFactory{
		"memory_bucket": func() provider.Resource { return &bucketResource{} },
	}
}

func (p *memoryProvider) DataSources(_ context.Context) map[string]provider.DataSourceFactory {
	return map[string]provider.DataSourceFactory{
		"memory_bucket": func() provider.DataSource { return &bucketDataSource{} },
	}
}

type bucketResource struct {
	store *store
}

func (r *bucketResource) Schema(_ context.Context) *schema.Schema {
	return schema.NewBuilder(1).
		Attribute(schema.Attribute{
			Name: "name", Type: schema.TypeString, Required: true,
			Validators:    []validator.Validator{validator.StringLengthBetween(1, 63)},
			PlanModifiers: []planmod.Modifier{planmod.RequiresReplace()},
		}).
		Attribute(schema.Attribute{
			Name: "region", Type: schema.TypeString, Optional: true, Computed: true,
			Default: defaults.StaticString("local"),
		}).
		Attribute(schema.Attribute{
			Name: "id", Type: schema.TypeString, Computed: true,
			PlanModifiers: []planmod.Modifier{planmod.UseStateForUnknown()},
		}).
		MustBuild()
}

func (r *bucketResource) ValidateConfig(_ context.Context, _ dynamic.Value) diag.Diagnostics {
	return nil
}

func (r *bucketResource) Configure(_ context.Context, data *provider.Data) diag.Diagnostics {
	if data == nil {
		return nil
	}
	return data.As(&r.store)
}

func (r *bucketResource) Create(_ context.Context, req provider.CreateRequest) provider.CreateResponse {
	var diags diag.Diagnostics
	if r.store == nil {
		diags.AddError("Provider not configured", "Configure the provider before creating buckets.")
		return provider.CreateResponse{State: req.Planned, Diagnostics: diags}
	}

	name, _ := stringAt(req.Planned, "name")
	region, _ := stringAt(req.Planned, "region")
	b := r.store.create(name, region)

	state, err := req.Planned.SetAtPath(dynamic.EmptyPath().Attribute("id"), dynamic.StringVal(b.id))
	if err != nil {
		diags.AddError("Cannot record bucket id", err.Error())
		return provider.CreateResponse{State: req.Planned, Diagnostics: diags}
	}
	return provider.CreateResponse{State: state}
}

func (r *bucketResource) Read(_ context.Context, req provider.ReadRequest) provider.ReadResponse {
	var diags diag.Diagnostics
	if r.store == nil {
		diags.AddError("Provider not configured", "Configure the provider before reading buckets.")
		return provider.ReadResponse{State: req.State, ResourceExists: true, Diagnostics: diags}
	}

	id, err := stringAt(req.State, "id")
	if err != nil {
		diags.AddError("Invalid state", err.Error())
		return provider.ReadResponse{State: req.State, ResourceExists: true, Diagnostics: diags}
	}
	b, ok := r.store.get(id)
	if !ok {
		return provider.ReadResponse{ResourceExists: false}
	}
	return provider.ReadResponse{State: bucketState(b), ResourceExists: true}
}

func (r *bucketResource) Update(_ context.Context, req provider.UpdateRequest) provider.UpdateResponse {
	var diags diag.Diagnostics
	if r.store == nil {
		diags.AddError("Provider not configured", "Configure the provider before updating buckets.")
		return provider.UpdateResponse{State: req.State, Diagnostics: diags}
	}

	id, err := stringAt(req.State, "id")
	if err != nil {
		diags.AddError("Invalid state", err.Error())
		return provider.UpdateResponse{State: req.State, Diagnostics: diags}
	}
	b, ok := r.store.get(id)
	if !ok {
		diags.AddError("Bucket vanished", fmt.Sprintf("Bucket %s no longer exists.", id))
		return provider.UpdateResponse{State: req.State, Diagnostics: diags}
	}

	b.region, _ = stringAt(req.Planned, "region")
	r.store.put(b)
	return provider.UpdateResponse{State: bucketState(b)}
}

func (r *bucketResource) Delete(_ context.Context, req provider.DeleteRequest) provider.DeleteResponse {
	if r.store == nil {
		var diags diag.Diagnostics
		diags.AddError("Provider not configured", "Configure the provider before deleting buckets.")
		return provider.DeleteResponse{Diagnostics: diags}
	}
	if id, err := stringAt(req.State, "id"); err == nil {
		r.store.delete(id)
	}
	return provider.DeleteResponse{}
}

func (r *bucketResource) ImportState(_ context.Context, req provider.ImportStateRequest) provider.ImportStateResponse {
	var diags diag.Diagnostics
	if r.store == nil {
		diags.AddError("Provider not configured", "Configure the provider before importing buckets.")
		return provider.ImportStateResponse{Diagnostics: diags}
	}
	b, ok := r.store.get(req.ID)
	if !ok {
		diags.AddError("Bucket not found", fmt.Sprintf("No bucket with id %s.", req.ID))
		return provider.ImportStateResponse{Diagnostics: diags}
	}
	return provider.ImportStateResponse{Imported: []provider.ImportedResource{{State: bucketState(b)}}}
}

type bucketDataSource struct {
	store *store
}

func (d *bucketDataSource) Schema(_ context.Context) *schema.Schema {
	return schema.NewBuilder(0).
		Attribute(schema.Attribute{Name: "name", Type: schema.TypeString, Required: true}).
		Attribute(schema.Attribute{Name: "region", Type: schema.TypeString, Computed: true}).
		Attribute(schema.Attribute{Name: "id", Type: schema.TypeString, Computed: true}).
		MustBuild()
}

func (d *bucketDataSource) ValidateConfig(_ context.Context, _ dynamic.Value) diag.Diagnostics {
	return nil
}

func (d *bucketDataSource) Configure(_ context.Context, data *provider.Data) diag.Diagnostics {
	if data == nil {
		return nil
	}
	return data.As(&d.store)
}

func (d *bucketDataSource) Read(_ context.Context, req provider.DataSourceReadRequest) provider.DataSourceReadResponse {
	var diags diag.Diagnostics
	if d.store == nil {
		diags.AddError("Provider not configured", "Configure the provider before looking up buckets.")
		return provider.DataSourceReadResponse{Diagnostics: diags}
	}

	name, err := stringAt(req.Config, "name")
	if err != nil {
		diags.AddError("Invalid config", err.Error())
		return provider.DataSourceReadResponse{Diagnostics: diags}
	}
	b, ok := d.store.find(name)
	if !ok {
		diags.AddError("Bucket not found", fmt.Sprintf("No bucket named %s.", name))
		return provider.DataSourceReadResponse{Diagnostics: diags}
	}
	return provider.DataSourceReadResponse{State: bucketState(b)}
}

func stringAt(v dynamic.Value, name string) (string, error) {
	av, err := v.AtPath(dynamic.EmptyPath().Attribute(name))
	if err != nil {
		return "", err
	}
	return av.AsString()
}

func bucketState(b bucket) dynamic.Value {
	return dynamic.MapVal(map[string]dynamic.Value{
		"name":   dynamic.StringVal(b.name),
		"region": dynamic.StringVal(b.region),
		"id":     dynamic.StringVal(b.id),
	})
}

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []server.ServeOption{
		server.WithServeLogger(logging.NewZapLogger(*debug)),
		server.WithMetrics(server.NewMetrics()),
	}
	if *certFile != "" {
		opts = append(opts, server.WithTLS(*certFile, *keyFile))
	}

	if err := server.Serve(ctx, &memoryProvider{}, opts...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
