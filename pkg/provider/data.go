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
	"fmt"
	"reflect"

	"github.com/skycrane/provider-runtime/pkg/diag"
)

// Data is the opaque, type-tagged payload produced once by a Provider's
// Configure and handed to every subsequently created Resource and
// DataSource instance. It is shared and read-mostly for the lifetime of
// the provider process, and never mutated after construction.
type Data struct {
	tag   string
	value any
}

// NewData wraps a payload with a type tag. The tag names the payload shape
// for diagnostics; implementations typically use their client type's name.
func NewData(tag string, value any) *Data {
	return &Data{tag: tag, value: value}
}

// Tag returns the payload's type tag.
func (d *Data) Tag() string {
	if d == nil {
		return ""
	}
	return d.tag
}

// As performs a checked cast of the payload into target, which must be a
// non-nil pointer to a type the payload is assignable to. Failure produces
// an Error diagnostic, never a panic. A nil Data indicates the provider
// has not been configured, which is also reported as an Error diagnostic.
func (d *Data) As(target any) diag.Diagnostics {
	var diags diag.Diagnostics

	if d == nil {
		diags.AddError("Provider not configured",
			"The provider's shared data was requested before the provider was successfully configured.")
		return diags
	}

	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		diags.AddError("Invalid provider data target",
			"The target of a provider data cast must be a non-nil pointer.")
		return diags
	}

	pv := reflect.ValueOf(d.value)
	elem := rv.Elem()
	if !pv.IsValid() || !pv.Type().AssignableTo(elem.Type()) {
		got := "nil"
		if pv.IsValid() {
			got = pv.Type().String()
		}
		diags.AddError("Unexpected provider data type",
			fmt.Sprintf("The provider's shared data %q holds %s, not %s.", d.tag, got, elem.Type().String()))
		return diags
	}

	elem.Set(pv)
	return diags
}
