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

// Package defaults provides per-attribute default value providers, invoked
// during planning when the configuration value is absent and the attribute
// is optional and computed.
package defaults

import (
	"context"
	"fmt"

	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

// A Provider produces a default value for an attribute. Custom providers
// may read ambient process state, but should be deterministic enough that
// re-planning without configuration changes does not itself force a diff.
type Provider interface {
	// Description returns a plain-text description of the default.
	Description() string

	// DefaultValue returns the default value for the attribute.
	DefaultValue(ctx context.Context) (dynamic.Value, diag.Diagnostics)
}

// StaticString returns a Provider yielding a constant string.
func StaticString(s string) Provider {
	return static{v: dynamic.StringVal(s), desc: fmt.Sprintf("defaults to %q", s)}
}

// StaticBool returns a Provider yielding a constant bool.
func StaticBool(b bool) Provider {
	return static{v: dynamic.BoolVal(b), desc: fmt.Sprintf("defaults to %t", b)}
}

// StaticNumber returns a Provider yielding a constant number.
func StaticNumber(n float64) Provider {
	return static{v: dynamic.NumberVal(n), desc: fmt.Sprintf("defaults to %v", n)}
}

type static struct {
	v    dynamic.Value
	desc string
}

func (s static) Description() string { return s.desc }

func (s static) DefaultValue(_ context.Context) (dynamic.Value, diag.Diagnostics) {
	return s.v, nil
}
