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

package test

import (
	"reflect"

	"github.com/google/go-cmp/cmp"

	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

// EquateErrors returns true if the supplied errors are of the same type and
// produce the same error message.
func EquateErrors() cmp.Option {
	return cmp.Comparer(func(a, b error) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}

		av := reflect.ValueOf(a)
		bv := reflect.ValueOf(b)
		if av.Type() != bv.Type() {
			return false
		}

		return a.Error() == b.Error()
	})
}

// EquateValues compares dynamic values structurally.
func EquateValues() cmp.Option {
	return cmp.Comparer(func(a, b dynamic.Value) bool {
		return a.Equal(b)
	})
}

// EquatePaths compares attribute paths step by step.
func EquatePaths() cmp.Option {
	return cmp.Comparer(func(a, b dynamic.Path) bool {
		return a.Equal(b)
	})
}
