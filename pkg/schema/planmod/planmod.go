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

// Package planmod provides per-attribute plan modifiers. Modifiers attached
// to an attribute form an ordered pipeline run during planning: each stage
// consumes the previous stage's output plan value and may rewrite it,
// demand replacement of the object, and append diagnostics. Stages never
// abort the pipeline; they append and continue.
package planmod

import (
	"context"

	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

// A Request carries a single attribute's values into a pipeline stage.
type Request struct {
	// State is the attribute's value in the prior state, Null if absent.
	State dynamic.Value

	// Plan is the attribute's planned value as produced by the previous
	// stage, or the proposed value for the first stage.
	Plan dynamic.Value

	// Config is the attribute's value as configured, Null if absent.
	Config dynamic.Value

	// Path locates the attribute within the resource.
	Path dynamic.Path
}

// A Response carries a stage's decision.
type Response struct {
	// Plan is the stage's output plan value, consumed by the next stage.
	Plan dynamic.Value

	// RequiresReplace is set when the change cannot be applied in place
	// and the object must be destroyed and recreated. Once set by any
	// stage it is never unset by the pipeline.
	RequiresReplace bool

	// Diagnostics collects the stage's messages.
	Diagnostics diag.Diagnostics
}

// A Modifier is a single plan modification stage.
type Modifier interface {
	// Description returns a plain-text description of the modifier's
	// behavior.
	Description() string

	// Modify inspects the request and updates the response. resp.Plan is
	// pre-populated with req.Plan; a stage that makes no change leaves it
	// as is.
	Modify(ctx context.Context, req Request, resp *Response)
}
