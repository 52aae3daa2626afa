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
)

type fakeClient struct {
	endpoint string
}

func TestDataAs(t *testing.T) {
	t.Run("Assigns", func(t *testing.T) {
		d := NewData("fakeClient", &fakeClient{endpoint: "https://api.example.org"})
		var got *fakeClient
		if diags := d.As(&got); diags.HasError() {
			t.Fatalf("As(...): unexpected errors: %v", diags)
		}
		if got == nil || got.endpoint != "https://api.example.org" {
			t.Errorf("As(...): want populated client, got %+v", got)
		}
	})

	t.Run("NilData", func(t *testing.T) {
		var d *Data
		var got *fakeClient
		diags := d.As(&got)
		if !diags.HasError() {
			t.Fatal("As(...): want error for unconfigured provider")
		}
		if diags[0].Summary != "Provider not configured" {
			t.Errorf("As(...): want 'Provider not configured', got %q", diags[0].Summary)
		}
	})

	t.Run("NonPointerTarget", func(t *testing.T) {
		d := NewData("fakeClient", &fakeClient{})
		var got *fakeClient
		if diags := d.As(got); !diags.HasError() {
			t.Error("As(...): want error for non-pointer target")
		}
	})

	t.Run("WrongType", func(t *testing.T) {
		d := NewData("fakeClient", &fakeClient{})
		var got string
		diags := d.As(&got)
		if !diags.HasError() {
			t.Fatal("As(...): want error for unassignable target")
		}
		if diags[0].Summary != "Unexpected provider data type" {
			t.Errorf("As(...): want 'Unexpected provider data type', got %q", diags[0].Summary)
		}
	})

	t.Run("Tag", func(t *testing.T) {
		if got := NewData("fakeClient", nil).Tag(); got != "fakeClient" {
			t.Errorf("Tag(): want fakeClient, got %q", got)
		}
		var d *Data
		if got := d.Tag(); got != "" {
			t.Errorf("Tag(): want empty for nil Data, got %q", got)
		}
	})
}
