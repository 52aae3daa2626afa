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
	"fmt"
	"regexp"
	"strings"

	"github.com/skycrane/provider-runtime/pkg/diag"
	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

const (
	summaryInvalidValue = "Invalid attribute value"
)

// StringLengthBetween returns a validator requiring a string value whose
// length in bytes is within [min, max].
func StringLengthBetween(min, max int) Validator {
	return stringLengthBetween{min: min, max: max}
}

type stringLengthBetween struct {
	min, max int
}

func (v stringLengthBetween) Description() string {
	return fmt.Sprintf("string length must be between %d and %d", v.min, v.max)
}

func (v stringLengthBetween) Validate(_ context.Context, val dynamic.Value, p dynamic.Path, diags *diag.Diagnostics) {
	s, ok := stringValue(val, p, v, diags)
	if !ok {
		return
	}
	if len(s) < v.min || len(s) > v.max {
		diags.AddAttributeError(p, summaryInvalidValue,
			fmt.Sprintf("%s, got a string of length %d", v.Description(), len(s)))
	}
}

// StringMatch returns a validator requiring a string value matching the
// supplied pattern. An empty message falls back to the pattern itself.
func StringMatch(re *regexp.Regexp, message string) Validator {
	return stringMatch{re: re, message: message}
}

type stringMatch struct {
	re      *regexp.Regexp
	message string
}

func (v stringMatch) Description() string {
	if v.message != "" {
		return v.message
	}
	return fmt.Sprintf("string must match pattern %q", v.re.String())
}

func (v stringMatch) Validate(_ context.Context, val dynamic.Value, p dynamic.Path, diags *diag.Diagnostics) {
	s, ok := stringValue(val, p, v, diags)
	if !ok {
		return
	}
	if !v.re.MatchString(s) {
		diags.AddAttributeError(p, summaryInvalidValue,
			fmt.Sprintf("%s, got %q", v.Description(), s))
	}
}

// StringOneOf returns a validator requiring a string value from the
// supplied set.
func StringOneOf(allowed ...string) Validator {
	return stringOneOf{allowed: allowed}
}

type stringOneOf struct {
	allowed []string
}

func (v stringOneOf) Description() string {
	return fmt.Sprintf("string must be one of [%s]", strings.Join(v.allowed, ", "))
}

func (v stringOneOf) Validate(_ context.Context, val dynamic.Value, p dynamic.Path, diags *diag.Diagnostics) {
	s, ok := stringValue(val, p, v, diags)
	if !ok {
		return
	}
	for _, a := range v.allowed {
		if s == a {
			return
		}
	}
	diags.AddAttributeError(p, summaryInvalidValue,
		fmt.Sprintf("%s, got %q", v.Description(), s))
}

// NumberBetween returns a validator requiring a number value within
// [min, max].
func NumberBetween(min, max float64) Validator {
	return numberBetween{min: min, max: max}
}

type numberBetween struct {
	min, max float64
}

func (v numberBetween) Description() string {
	return fmt.Sprintf("number must be between %v and %v", v.min, v.max)
}

func (v numberBetween) Validate(_ context.Context, val dynamic.Value, p dynamic.Path, diags *diag.Diagnostics) {
	if val.IsNull() || val.IsUnknown() {
		return
	}
	n, err := val.AsNumber()
	if err != nil {
		diags.AddAttributeError(p, summaryInvalidValue,
			fmt.Sprintf("%s, got a %s value", v.Description(), val.Kind()))
		return
	}
	if n < v.min || n > v.max {
		diags.AddAttributeError(p, summaryInvalidValue,
			fmt.Sprintf("%s, got %v", v.Description(), n))
	}
}

// ListSizeBetween returns a validator requiring a list value with between
// min and max elements.
func ListSizeBetween(min, max int) Validator {
	return listSizeBetween{min: min, max: max}
}

type listSizeBetween struct {
	min, max int
}

func (v listSizeBetween) Description() string {
	return fmt.Sprintf("list must contain between %d and %d elements", v.min, v.max)
}

func (v listSizeBetween) Validate(_ context.Context, val dynamic.Value, p dynamic.Path, diags *diag.Diagnostics) {
	if val.IsNull() || val.IsUnknown() {
		return
	}
	elems, err := val.AsList()
	if err != nil {
		diags.AddAttributeError(p, summaryInvalidValue,
			fmt.Sprintf("%s, got a %s value", v.Description(), val.Kind()))
		return
	}
	if len(elems) < v.min || len(elems) > v.max {
		diags.AddAttributeError(p, summaryInvalidValue,
			fmt.Sprintf("%s, got %d", v.Description(), len(elems)))
	}
}

func stringValue(val dynamic.Value, p dynamic.Path, v Validator, diags *diag.Diagnostics) (string, bool) {
	if val.IsNull() || val.IsUnknown() {
		return "", false
	}
	s, err := val.AsString()
	if err != nil {
		diags.AddAttributeError(p, summaryInvalidValue,
			fmt.Sprintf("%s, got a %s value", v.Description(), val.Kind()))
		return "", false
	}
	return s, true
}
