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

package plan

import (
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/pkg/errors"

	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

const errCreatePatch = "cannot compute change summary"

// ChangeSummary renders the difference between a prior and a planned state
// as a JSON merge patch, for debug logging. Unknown values appear as null
// in the summary, per the JSON fallback encoding.
func ChangeSummary(prior, planned dynamic.Value) ([]byte, error) {
	a, err := dynamic.MarshalJSON(prior)
	if err != nil {
		return nil, errors.Wrap(err, errCreatePatch)
	}
	b, err := dynamic.MarshalJSON(planned)
	if err != nil {
		return nil, errors.Wrap(err, errCreatePatch)
	}
	patch, err := jsonpatch.CreateMergePatch(a, b)
	return patch, errors.Wrap(err, errCreatePatch)
}
