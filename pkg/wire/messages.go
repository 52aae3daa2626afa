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

// Package wire defines the versioned RPC surface of the provider plugin
// protocol: the message types exchanged with the host, the codec that
// carries them, and the gRPC service descriptor binding them to methods.
package wire

import (
	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

// ProtocolVersionMajor is the protocol's major version, negotiated through
// the startup handshake.
const ProtocolVersionMajor = 6

// A DynamicValue is a value tree in one of the protocol's two encodings.
// Msgpack is the compact primary format; JSON is the canonical fallback.
// Exactly one of the two should be set; an empty DynamicValue decodes to
// an empty Map.
type DynamicValue struct {
	Msgpack []byte `msgpack:"msgpack,omitempty"`
	JSON    []byte `msgpack:"json,omitempty"`
}

// NewDynamicValue encodes a value in the primary format.
func NewDynamicValue(v dynamic.Value) (*DynamicValue, error) {
	b, err := dynamic.MarshalMsgpack(v)
	if err != nil {
		return nil, err
	}
	return &DynamicValue{Msgpack: b}, nil
}

// Unmarshal decodes the value, trying the primary format first and falling
// back to JSON. A nil or empty DynamicValue decodes to an empty Map, never
// an error.
func (d *DynamicValue) Unmarshal() (dynamic.Value, error) {
	if d == nil {
		return dynamic.MapVal(nil), nil
	}
	if len(d.Msgpack) > 0 {
		return dynamic.UnmarshalMsgpack(d.Msgpack)
	}
	if len(d.JSON) > 0 {
		return dynamic.UnmarshalJSON(d.JSON)
	}
	return dynamic.MapVal(nil), nil
}

// Severity levels of a wire Diagnostic.
const (
	SeverityInvalid int32 = 0
	SeverityError   int32 = 1
	SeverityWarning int32 = 2
)

// Path step kinds.
const (
	StepInvalid   int32 = 0
	StepAttribute int32 = 1
	StepIndex     int32 = 2
)

// A PathStep is one step of a wire AttributePath.
type PathStep struct {
	Kind      int32  `msgpack:"kind"`
	Attribute string `msgpack:"attribute,omitempty"`
	Index     int64  `msgpack:"index,omitempty"`
}

// An AttributePath locates a node inside a DynamicValue tree.
type AttributePath struct {
	Steps []PathStep `msgpack:"steps"`
}

// A Diagnostic is a severity-tagged message, optionally scoped to an
// attribute path.
type Diagnostic struct {
	Severity int32          `msgpack:"severity"`
	Summary  string         `msgpack:"summary"`
	Detail   string         `msgpack:"detail,omitempty"`
	Path     *AttributePath `msgpack:"path,omitempty"`
}

// A SchemaAttribute describes one attribute of a wire Schema.
type SchemaAttribute struct {
	Name        string `msgpack:"name"`
	Type        string `msgpack:"type"`
	Required    bool   `msgpack:"required,omitempty"`
	Optional    bool   `msgpack:"optional,omitempty"`
	Computed    bool   `msgpack:"computed,omitempty"`
	Sensitive   bool   `msgpack:"sensitive,omitempty"`
	Description string `msgpack:"description,omitempty"`
}

// Block nesting modes on the wire.
const (
	NestingInvalid int32 = 0
	NestingSingle  int32 = 1
	NestingList    int32 = 2
	NestingSet     int32 = 3
)

// A SchemaBlock describes one nested block of a wire Schema. MaxItems is
// meaningful only when MaxItemsBounded is true; there is no "zero means
// unbounded" overload.
type SchemaBlock struct {
	Name            string             `msgpack:"name"`
	Nesting         int32              `msgpack:"nesting"`
	MinItems        int64              `msgpack:"min_items,omitempty"`
	MaxItems        int64              `msgpack:"max_items,omitempty"`
	MaxItemsBounded bool               `msgpack:"max_items_bounded,omitempty"`
	Attributes      []*SchemaAttribute `msgpack:"attributes,omitempty"`
	Blocks          []*SchemaBlock     `msgpack:"blocks,omitempty"`
}

// A Schema is the wire form of a capability's schema.
type Schema struct {
	Version    int64              `msgpack:"version"`
	Attributes []*SchemaAttribute `msgpack:"attributes,omitempty"`
	Blocks     []*SchemaBlock     `msgpack:"blocks,omitempty"`
}

// GetMetadataRequest asks the provider for its identity and type names.
type GetMetadataRequest struct{}

// GetMetadataResponse lists the provider's identity and the type names it
// serves.
type GetMetadataResponse struct {
	TypeName    string        `msgpack:"type_name"`
	Version     string        `msgpack:"version,omitempty"`
	Resources   []string      `msgpack:"resources,omitempty"`
	DataSources []string      `msgpack:"data_sources,omitempty"`
	Functions   []string      `msgpack:"functions,omitempty"`
	Diagnostics []*Diagnostic `msgpack:"diagnostics,omitempty"`
}

// GetProviderSchemaRequest asks for every schema the provider serves.
type GetProviderSchemaRequest struct{}

// GetProviderSchemaResponse carries the provider, resource and data source
// schemas.
type GetProviderSchemaResponse struct {
	Provider          *Schema            `msgpack:"provider,omitempty"`
	ResourceSchemas   map[string]*Schema `msgpack:"resource_schemas,omitempty"`
	DataSourceSchemas map[string]*Schema `msgpack:"data_source_schemas,omitempty"`
	Diagnostics       []*Diagnostic      `msgpack:"diagnostics,omitempty"`
}

// ValidateProviderConfigRequest checks a provider configuration.
type ValidateProviderConfigRequest struct {
	Config *DynamicValue `msgpack:"config,omitempty"`
}

// ValidateProviderConfigResponse carries validation diagnostics.
type ValidateProviderConfigResponse struct {
	Diagnostics []*Diagnostic `msgpack:"diagnostics,omitempty"`
}

// ConfigureProviderRequest configures the provider's shared context.
type ConfigureProviderRequest struct {
	Config      *DynamicValue `msgpack:"config,omitempty"`
	HostVersion string        `msgpack:"host_version,omitempty"`
}

// ConfigureProviderResponse carries configure diagnostics.
type ConfigureProviderResponse struct {
	Diagnostics []*Diagnostic `msgpack:"diagnostics,omitempty"`
}

// StopProviderRequest asks the provider to abandon in-flight work.
type StopProviderRequest struct{}

// StopProviderResponse reports a stop failure as text; an empty Error
// means success.
type StopProviderResponse struct {
	Error string `msgpack:"error,omitempty"`
}

// ValidateResourceConfigRequest checks a resource configuration.
type ValidateResourceConfigRequest struct {
	TypeName string        `msgpack:"type_name"`
	Config   *DynamicValue `msgpack:"config,omitempty"`
}

// ValidateResourceConfigResponse carries validation diagnostics.
type ValidateResourceConfigResponse struct {
	Diagnostics []*Diagnostic `msgpack:"diagnostics,omitempty"`
}

// UpgradeResourceStateRequest migrates state persisted under an earlier
// schema version. RawState carries the persisted state in the JSON
// fallback encoding, since its shape may no longer match the current
// schema.
type UpgradeResourceStateRequest struct {
	TypeName string `msgpack:"type_name"`
	Version  int64  `msgpack:"version"`
	RawState []byte `msgpack:"raw_state,omitempty"`
}

// UpgradeResourceStateResponse carries the migrated state.
type UpgradeResourceStateResponse struct {
	UpgradedState *DynamicValue `msgpack:"upgraded_state,omitempty"`
	Diagnostics   []*Diagnostic `msgpack:"diagnostics,omitempty"`
}

// ReadResourceRequest refreshes a resource's state.
type ReadResourceRequest struct {
	TypeName     string        `msgpack:"type_name"`
	CurrentState *DynamicValue `msgpack:"current_state,omitempty"`
	Private      []byte        `msgpack:"private,omitempty"`
}

// ReadResourceResponse carries the refreshed state. A nil NewState means
// the remote object is confirmed absent and the orchestrator forgets it.
type ReadResourceResponse struct {
	NewState    *DynamicValue `msgpack:"new_state,omitempty"`
	Private     []byte        `msgpack:"private,omitempty"`
	Diagnostics []*Diagnostic `msgpack:"diagnostics,omitempty"`
}

// PlanResourceChangeRequest plans a resource change.
type PlanResourceChangeRequest struct {
	TypeName         string        `msgpack:"type_name"`
	PriorState       *DynamicValue `msgpack:"prior_state,omitempty"`
	ProposedNewState *DynamicValue `msgpack:"proposed_new_state,omitempty"`
	Config           *DynamicValue `msgpack:"config,omitempty"`
	PriorPrivate     []byte        `msgpack:"prior_private,omitempty"`
}

// PlanResourceChangeResponse carries the planned state and the attribute
// paths that force replacement.
type PlanResourceChangeResponse struct {
	PlannedState    *DynamicValue    `msgpack:"planned_state,omitempty"`
	RequiresReplace []*AttributePath `msgpack:"requires_replace,omitempty"`
	PlannedPrivate  []byte           `msgpack:"planned_private,omitempty"`
	Diagnostics     []*Diagnostic    `msgpack:"diagnostics,omitempty"`
}

// ApplyResourceChangeRequest applies a planned change. A Null planned
// state asks for deletion; a Null prior state asks for creation.
type ApplyResourceChangeRequest struct {
	TypeName       string        `msgpack:"type_name"`
	PriorState     *DynamicValue `msgpack:"prior_state,omitempty"`
	PlannedState   *DynamicValue `msgpack:"planned_state,omitempty"`
	Config         *DynamicValue `msgpack:"config,omitempty"`
	PlannedPrivate []byte        `msgpack:"planned_private,omitempty"`
}

// ApplyResourceChangeResponse carries the state after the change.
type ApplyResourceChangeResponse struct {
	NewState    *DynamicValue `msgpack:"new_state,omitempty"`
	Private     []byte        `msgpack:"private,omitempty"`
	Diagnostics []*Diagnostic `msgpack:"diagnostics,omitempty"`
}

// ImportResourceStateRequest adopts an out-of-band object.
type ImportResourceStateRequest struct {
	TypeName string `msgpack:"type_name"`
	ID       string `msgpack:"id"`
}

// An ImportedResource is one state produced by an import.
type ImportedResource struct {
	TypeName string        `msgpack:"type_name"`
	State    *DynamicValue `msgpack:"state,omitempty"`
	Private  []byte        `msgpack:"private,omitempty"`
}

// ImportResourceStateResponse carries the imported states; a compound
// identifier may fan out into several.
type ImportResourceStateResponse struct {
	ImportedResources []*ImportedResource `msgpack:"imported_resources,omitempty"`
	Diagnostics       []*Diagnostic       `msgpack:"diagnostics,omitempty"`
}

// ReadDataSourceRequest performs a data source lookup.
type ReadDataSourceRequest struct {
	TypeName string        `msgpack:"type_name"`
	Config   *DynamicValue `msgpack:"config,omitempty"`
}

// ReadDataSourceResponse carries the lookup result.
type ReadDataSourceResponse struct {
	State       *DynamicValue `msgpack:"state,omitempty"`
	Diagnostics []*Diagnostic `msgpack:"diagnostics,omitempty"`
}

// A FunctionSignature describes a callable function.
type FunctionSignature struct {
	Summary    string   `msgpack:"summary,omitempty"`
	Parameters []string `msgpack:"parameters,omitempty"`
	Return     string   `msgpack:"return,omitempty"`
}

// GetFunctionsRequest lists the provider's functions.
type GetFunctionsRequest struct{}

// GetFunctionsResponse carries the provider's function signatures.
type GetFunctionsResponse struct {
	Functions   map[string]*FunctionSignature `msgpack:"functions,omitempty"`
	Diagnostics []*Diagnostic                 `msgpack:"diagnostics,omitempty"`
}

// CallFunctionRequest evaluates a function.
type CallFunctionRequest struct {
	Name      string          `msgpack:"name"`
	Arguments []*DynamicValue `msgpack:"arguments,omitempty"`
}

// CallFunctionResponse carries a function result.
type CallFunctionResponse struct {
	Result      *DynamicValue `msgpack:"result,omitempty"`
	Diagnostics []*Diagnostic `msgpack:"diagnostics,omitempty"`
}
