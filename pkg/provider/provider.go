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

// Package provider defines the capability contracts a concrete backend
// implements: a Provider configures shared context, a Resource manages a
// mutable remote object's full lifecycle, and a DataSource performs
// read-only lookups. The runtime defines and enforces these contracts but
// not their bodies; all outbound network calls, retry policy and
// domain-specific config translation belong to the implementation.
package provider

import (
	"context"

	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
	"github.com/skycrane/provider-runtime/pkg/schema"
)

// Metadata identifies a provider to its host.
type Metadata struct {
	// TypeName is the provider's type name, the prefix of its resource and
	// data source type names.
	TypeName string

	// Version is the provider build's version string.
	Version string
}

// A ResourceFactory creates a new Resource instance. The runtime creates
// one instance per resource type name and reuses it across calls, so
// instances must be safe for concurrent use or keep no mutable state.
type ResourceFactory func() Resource

// A DataSourceFactory creates a new DataSource instance.
type DataSourceFactory func() DataSource

// A Provider is the root capability of a plugin process. Configure runs
// once and produces the Data shared by every later-created Resource and
// DataSource. All methods must tolerate being invoked before Configure;
// schema introspection is always legal, and data-dependent calls that
// arrive before a successful configure must fail with an Error diagnostic,
// never a crash.
type Provider interface {
	// Metadata returns the provider's identity.
	Metadata(ctx context.Context) Metadata

	// Schema returns the provider configuration's schema.
	Schema(ctx context.Context) *schema.Schema

	// ValidateConfig checks a provider configuration.
	ValidateConfig(ctx context.Context, config dynamic.Value) diag.Diagnostics

	// Configure prepares the provider's shared context. It is called once
	// per provider process. The returned Data is shared, read-mostly, for
	// the lifetime of the process and is never mutated after construction.
	Configure(ctx context.Context, config dynamic.Value) (*Data, diag.Diagnostics)

	// Stop asks the provider to abandon in-flight work. The runtime does
	// not roll back partial side effects; that responsibility belongs to
	// the implementation.
	Stop(ctx context.Context) error

	// Resources returns the provider's resource factories keyed by type
	// name.
	Resources(ctx context.Context) map[string]ResourceFactory

	// DataSources returns the provider's data source factories keyed by
	// type name.
	DataSources(ctx context.Context) map[string]DataSourceFactory
}

// A Resource manages the full lifecycle of a mutable remote object.
type Resource interface {
	// Schema returns the resource's schema.
	Schema(ctx context.Context) *schema.Schema

	// ValidateConfig checks a resource configuration.
	ValidateConfig(ctx context.Context, config dynamic.Value) diag.Diagnostics

	// Create creates the remote object. The returned state must carry
	// every schema attribute, even on failure: the implementation echoes
	// back the best-known planned values instead of leaving gaps, and
	// reports failure via an Error diagnostic rather than aborting the
	// call.
	Create(ctx context.Context, req CreateRequest) CreateResponse

	// Read refreshes state from the remote object. An object confirmed
	// absent is reported via ResourceExists=false, not an error; the
	// orchestrator then forgets it. Ambiguous failures must be reported
	// as Error diagnostics with the prior state preserved — treating an
	// ambiguous failure as confirmed absent is a correctness bug.
	Read(ctx context.Context, req ReadRequest) ReadResponse

	// Update applies configuration changes to the remote object,
	// returning the new state, or the unchanged prior state plus an Error
	// diagnostic on failure.
	Update(ctx context.Context, req UpdateRequest) UpdateResponse

	// Delete removes the remote object. Delete is idempotent: deleting an
	// already-absent object is success.
	Delete(ctx context.Context, req DeleteRequest) DeleteResponse
}

// A ResourceWithConfigure receives the provider's shared Data once the
// runtime creates the resource instance.
type ResourceWithConfigure interface {
	Resource

	// Configure hands the resource the provider's shared Data. Data is
	// nil when the provider has not been configured yet.
	Configure(ctx context.Context, data *Data) diag.Diagnostics
}

// A ResourceWithImportState adopts out-of-band objects, substituting for
// Create and Read when importing.
type ResourceWithImportState interface {
	Resource

	// ImportState resolves an opaque identifier into one or more imported
	// resource states; compound identifiers may fan out.
	ImportState(ctx context.Context, req ImportStateRequest) ImportStateResponse
}

// A ResourceWithModifyPlan participates in planning after all per-attribute
// modifier pipelines have run. It may rewrite the planned state and append
// additional forced-replacement paths.
type ResourceWithModifyPlan interface {
	Resource

	ModifyPlan(ctx context.Context, req ModifyPlanRequest) ModifyPlanResponse
}

// A ResourceWithUpgradeState migrates state persisted under an earlier
// schema version. It runs once, before Read, when the persisted version is
// below the current schema version.
type ResourceWithUpgradeState interface {
	Resource

	UpgradeState(ctx context.Context, req UpgradeStateRequest) UpgradeStateResponse
}

// A DataSource performs read-only lookups.
type DataSource interface {
	// Schema returns the data source's schema.
	Schema(ctx context.Context) *schema.Schema

	// ValidateConfig checks a data source configuration.
	ValidateConfig(ctx context.Context, config dynamic.Value) diag.Diagnostics

	// Read performs the lookup.
	Read(ctx context.Context, req DataSourceReadRequest) DataSourceReadResponse
}

// A DataSourceWithConfigure receives the provider's shared Data once the
// runtime creates the data source instance.
type DataSourceWithConfigure interface {
	DataSource

	Configure(ctx context.Context, data *Data) diag.Diagnostics
}

// A Function is a provider-defined pure function callable over the wire.
type Function interface {
	// Definition describes the function.
	Definition(ctx context.Context) FunctionDefinition

	// Call evaluates the function.
	Call(ctx context.Context, args []dynamic.Value) (dynamic.Value, diag.Diagnostics)
}

// A FunctionDefinition describes a Function's signature.
type FunctionDefinition struct {
	Summary    string
	Parameters []schema.Type
	Return     schema.Type
}

// A ProviderWithFunctions additionally exposes callable functions.
type ProviderWithFunctions interface {
	Provider

	// Functions returns the provider's functions keyed by name.
	Functions(ctx context.Context) map[string]Function
}
