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

// Package validator provides per-attribute configuration validators. All
// validators attached to an attribute run independently and unconditionally
// so a single validation pass surfaces every violation.
package validator

import (
	"context"

	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

// A Validator checks a single attribute value. Implementations must be pure
// apart from appending diagnostics, and must skip Null and Unknown values;
// presence requirements are enforced by the schema, not by validators.
type Validator interface {
	// Description returns a plain-text description of the constraint, used
	// in diagnostic detail text.
	Description() string

	// Validate checks the supplied value and appends any violations to
	// diags. It never aborts the validation pass.
	Validate(ctx context.Context, v dynamic.Value, p dynamic.Path, diags *diag.Diagnostics)
}
