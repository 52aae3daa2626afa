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
	"testing"

	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

func TestUpgradeStateWithPatch(t *testing.T) {
	cases := map[string]struct {
		reason string
		state  dynamic.Value
		patch  string
		want   dynamic.Value
	}{
		"RenameViaAddAndRemove": {
			reason: "A merge patch can inject the new name and null out the old one.",
			state: dynamic.MapVal(map[string]dynamic.Value{
				"cidr_block": dynamic.StringVal("10.0.0.0/16"),
			}),
			patch: `{"cidr":"10.0.0.0/16","cidr_block":null}`,
			want: dynamic.MapVal(map[string]dynamic.Value{
				"cidr": dynamic.StringVal("10.0.0.0/16"),
			}),
		},
		"InjectConstant": {
			reason: "A merge patch can inject a constant for a new attribute.",
			state: dynamic.MapVal(map[string]dynamic.Value{
				"name": dynamic.StringVal("a"),
			}),
			patch: `{"tier":"standard"}`,
			want: dynamic.MapVal(map[string]dynamic.Value{
				"name": dynamic.StringVal("a"),
				"tier": dynamic.StringVal("standard"),
			}),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := UpgradeStateWithPatch(tc.state, []byte(tc.patch))
			if err != nil {
				t.Fatalf("\n%s\nUpgradeStateWithPatch(...): unexpected error: %v", tc.reason, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("\n%s\nUpgradeStateWithPatch(...): want %v, got %v", tc.reason, tc.want, got)
			}
		})
	}

	t.Run("BadPatch", func(t *testing.T) {
		if _, err := UpgradeStateWithPatch(dynamic.MapVal(nil), []byte(`{`)); err == nil {
			t.Error("UpgradeStateWithPatch(...): want error for malformed patch")
		}
	})
}
