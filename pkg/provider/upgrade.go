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
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/pkg/errors"

	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

const (
	errMarshalState = "cannot marshal state for patching"
	errApplyPatch   = "cannot apply state migration patch"
	errDecodePatch  = "cannot decode patched state"
)

// UpgradeStateWithPatch applies a JSON merge patch to a persisted state.
// It is a convenience for ResourceWithUpgradeState implementations whose
// migrations are simple renames, removals or constant injections.
func UpgradeStateWithPatch(state dynamic.Value, patch []byte) (dynamic.Value, error) {
	old, err := dynamic.MarshalJSON(state)
	if err != nil {
		return dynamic.Value{}, errors.Wrap(err, errMarshalState)
	}
	upgraded, err := jsonpatch.MergePatch(old, patch)
	if err != nil {
		return dynamic.Value{}, errors.Wrap(err, errApplyPatch)
	}
	v, err := dynamic.UnmarshalJSON(upgraded)
	return v, errors.Wrap(err, errDecodePatch)
}
