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

package provider

import (
	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

// A CreateRequest asks a Resource to create its remote object.
type CreateRequest struct {
	// Config is the configuration as written.
	Config dynamic.Value

	// Planned is the planned new state, with defaults and plan modifiers
	// applied. Computed attributes may be Unknown.
	Planned dynamic.Value
}

// A CreateResponse reports the outcome of a create.
type CreateResponse struct {
	// State is the new state. Every schema attribute must be populated,
	// even when Diagnostics carries an Error.
	State dynamic.Value

	// Private is opaque bookkeeping the resource wants persisted alongside
	// its state.
	Private []byte

	Diagnostics diag.Diagnostics
}

// A ReadRequest asks a Resource to refresh its state.
type ReadRequest struct {
	// State is the current persisted state.
	State dynamic.Value

	// Private is the resource's persisted private bookkeeping.
	Private []byte
}

// A ReadResponse reports a refreshed state, or that the object is absent.
type ReadResponse struct {
	// State is the refreshed state. Ignored when ResourceExists is false.
	State dynamic.Value

	// ResourceExists is false only when the remote object is confirmed
	// absent, in which case the orchestrator forgets it.
	ResourceExists bool

	Private []byte

	Diagnostics diag.Diagnostics
}

// An UpdateRequest asks a Resource to apply configuration changes.
type UpdateRequest struct {
	// State is the prior state.
	State dynamic.Value

	// Config is the configuration as written.
	Config dynamic.Value

	// Planned is the planned new state.
	Planned dynamic.Value

	Private []byte
}

// An UpdateResponse reports the state after an update.
type UpdateResponse struct {
	// State is the new state, or the unchanged prior state when
	// Diagnostics carries an Error.
	State dynamic.Value

	Private []byte

	Diagnostics diag.Diagnostics
}

// A DeleteRequest asks a Resource to remove its remote object.
type DeleteRequest struct {
	// State is the prior state.
	State dynamic.Value

	Private []byte
}

// A DeleteResponse reports the outcome of a delete.
type DeleteResponse struct {
	Diagnostics diag.Diagnostics
}

// An ImportStateRequest asks a Resource to adopt an out-of-band object.
type ImportStateRequest struct {
	// ID is the opaque identifier supplied by the operator.
	ID string
}

// An ImportedResource is one state produced by an import.
type ImportedResource struct {
	// TypeName is the imported resource's type name. Empty means the type
	// the import was addressed to.
	TypeName string

	State dynamic.Value

	Private []byte
}

// An ImportStateResponse reports the states adopted by an import. A
// compound identifier may fan out into multiple imported resources.
type ImportStateResponse struct {
	Imported []ImportedResource

	Diagnostics diag.Diagnostics
}

// A ModifyPlanRequest carries a whole-resource plan into the resource-level
// planning hook, after all per-attribute pipelines have run.
type ModifyPlanRequest struct {
	// State is the prior state.
	State dynamic.Value

	// Plan is the planned new state.
	Plan dynamic.Value

	// Config is the configuration as written.
	Config dynamic.Value

	// RequiresReplace are the attribute paths already forcing replacement.
	RequiresReplace []dynamic.Path
}

// A ModifyPlanResponse carries the hook's rewritten plan.
type ModifyPlanResponse struct {
	// Plan is the rewritten planned state.
	Plan dynamic.Value

	// RequiresReplace is the full set of attribute paths forcing
	// replacement, including any the hook appended.
	RequiresReplace []dynamic.Path

	Diagnostics diag.Diagnostics
}

// An UpgradeStateRequest asks a Resource to migrate state persisted under
// an earlier schema version.
type UpgradeStateRequest struct {
	// PriorVersion is the schema version the state was persisted under.
	PriorVersion int64

	// State is the persisted state, decoded without schema enforcement.
	State dynamic.Value
}

// An UpgradeStateResponse carries the migrated state.
type UpgradeStateResponse struct {
	State dynamic.Value

	Diagnostics diag.Diagnostics
}

// A DataSourceReadRequest asks a DataSource to perform its lookup.
type DataSourceReadRequest struct {
	// Config is the configuration as written.
	Config dynamic.Value
}

// A DataSourceReadResponse reports a lookup result.
type DataSourceReadResponse struct {
	State dynamic.Value

	Diagnostics diag.Diagnostics
}
