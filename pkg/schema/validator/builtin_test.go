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

package validator

import (
	"context"
	"regexp"
	"testing"

	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

func TestBuiltins(t *testing.T) {
	p := dynamic.EmptyPath().Attribute("a")

	cases := map[string]struct {
		reason     string
		v          Validator
		val        dynamic.Value
		wantErrors int
	}{
		"StringLengthOK": {
			reason:     "A string within bounds should pass.",
			v:          StringLengthBetween(1, 5),
			val:        dynamic.StringVal("abc"),
			wantErrors: 0,
		},
		"StringLengthTooLong": {
			reason:     "A string over the bound should fail.",
			v:          StringLengthBetween(1, 3),
			val:        dynamic.StringVal("abcdef"),
			wantErrors: 1,
		},
		"StringLengthSkipsNull": {
			reason:     "Null is not validated; required-ness is a separate check.",
			v:          StringLengthBetween(1, 3),
			val:        dynamic.NullVal(),
			wantErrors: 0,
		},
		"StringLengthSkipsUnknown": {
			reason:     "Unknown cannot be validated before it resolves.",
			v:          StringLengthBetween(1, 3),
			val:        dynamic.UnknownVal(),
			wantErrors: 0,
		},
		"StringLengthWrongKind": {
			reason:     "A non-string value is itself a violation.",
			v:          StringLengthBetween(1, 3),
			val:        dynamic.NumberVal(1),
			wantErrors: 1,
		},
		"StringMatchOK": {
			reason:     "A matching string should pass.",
			v:          StringMatch(regexp.MustCompile(`^vpc-`), "must start with vpc-"),
			val:        dynamic.StringVal("vpc-123"),
			wantErrors: 0,
		},
		"StringMatchFails": {
			reason:     "A non-matching string should fail.",
			v:          StringMatch(regexp.MustCompile(`^vpc-`), "must start with vpc-"),
			val:        dynamic.StringVal("subnet-123"),
			wantErrors: 1,
		},
		"StringOneOfOK": {
			reason:     "A member of the allowed set should pass.",
			v:          StringOneOf("small", "large"),
			val:        dynamic.StringVal("small"),
			wantErrors: 0,
		},
		"StringOneOfFails": {
			reason:     "A value outside the allowed set should fail.",
			v:          StringOneOf("small", "large"),
			val:        dynamic.StringVal("medium"),
			wantErrors: 1,
		},
		"NumberBetweenOK": {
			reason:     "A number within bounds should pass.",
			v:          NumberBetween(0, 10),
			val:        dynamic.NumberVal(5),
			wantErrors: 0,
		},
		"NumberBetweenFails": {
			reason:     "A number outside bounds should fail.",
			v:          NumberBetween(0, 10),
			val:        dynamic.NumberVal(11),
			wantErrors: 1,
		},
		"ListSizeOK": {
			reason:     "A list within bounds should pass.",
			v:          ListSizeBetween(1, 2),
			val:        dynamic.ListVal([]dynamic.Value{dynamic.NumberVal(1)}),
			wantErrors: 0,
		},
		"ListSizeFails": {
			reason:     "A list outside bounds should fail.",
			v:          ListSizeBetween(2, 3),
			val:        dynamic.ListVal([]dynamic.Value{dynamic.NumberVal(1)}),
			wantErrors: 1,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var diags diag.Diagnostics
			tc.v.Validate(context.Background(), tc.val, p, &diags)
			if got := diags.ErrorCount(); got != tc.wantErrors {
				t.Errorf("\n%s\nValidate(...): want %d errors, got %d: %v", tc.reason, tc.wantErrors, got, diags)
			}
			for _, d := range diags {
				if !d.Path.Equal(p) {
					t.Errorf("\n%s\nValidate(...): diagnostic not scoped to %v: %v", tc.reason, p, d.Path)
				}
			}
		})
	}
}

func TestValidatorsAccumulate(t *testing.T) {
	// Two independent violations on the same value must both surface, in
	// the order the validators ran.
	p := dynamic.EmptyPath().Attribute("a")
	val := dynamic.StringVal("medium")

	var diags diag.Diagnostics
	StringLengthBetween(1, 3).Validate(context.Background(), val, p, &diags)
	StringOneOf("small", "large").Validate(context.Background(), val, p, &diags)

	if got := diags.ErrorCount(); got != 2 {
		t.Fatalf("Validate(...): want 2 errors, got %d: %v", got, diags)
	}
}
