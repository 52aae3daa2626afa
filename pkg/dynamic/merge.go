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

package dynamic

import (
	"github.com/pkg/errors"
)

const errNotMaps = "both values must be Map values"

// FillMissing returns a copy of base with gaps filled in from fill,
// recursively for nested maps. A gap is an attribute that is absent or Null
// in base; everything base carries is kept, including false, zero and the
// empty string. It backs the create contract: a state returned from a
// failed create must still carry every schema attribute, echoing back the
// best-known planned values only where the backend reported nothing.
func FillMissing(base, fill Value) (Value, error) {
	if base.kind != KindMap || fill.kind != KindMap {
		return Value{}, errors.Wrap(ErrTypeMismatch, errNotMaps)
	}
	return fillMap(base, fill), nil
}

func fillMap(base, fill Value) Value {
	attrs := make(map[string]Value, len(base.attrs))
	for k, v := range base.attrs {
		attrs[k] = v
	}
	for k, fv := range fill.attrs {
		bv, ok := attrs[k]
		switch {
		case !ok || bv.IsNull():
			attrs[k] = fv
		case bv.kind == KindMap && fv.kind == KindMap:
			attrs[k] = fillMap(bv, fv)
		}
	}
	return Value{kind: KindMap, attrs: attrs}
}
