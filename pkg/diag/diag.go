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

// Package diag provides severity-tagged messages optionally scoped to a
// path into a dynamic value. A collected set with at least one Error marks
// the originating operation as logically failed even when the RPC itself
// completes successfully at the transport level.
package diag

import (
	"github.com/skycrane/provider-runtime/pkg/dynamic"
)

// Severity indicates how a Diagnostic affects an operation.
type Severity int

const (
	// SeverityInvalid is the zero severity and indicates a malformed
	// diagnostic.
	SeverityInvalid Severity = iota

	// SeverityError marks the originating operation as failed.
	SeverityError

	// SeverityWarning is advisory and does not fail the operation.
	SeverityWarning
)

// String returns the severity's name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return "invalid"
}

// A Diagnostic is a severity-tagged message, optionally scoped to an
// attribute path. Sensitive attribute values must not be interpolated into
// Summary or Detail; the sensitivity flag travels on the schema, and
// rendering layers are responsible for honoring it.
type Diagnostic struct {
	Severity Severity
	Summary  string
	Detail   string

	// Path scopes the diagnostic to a node of the offending value. An
	// empty path scopes it to the whole operation.
	Path dynamic.Path
}

// Diagnostics is an ordered collection of Diagnostic values. Append order
// is preserved so a single validation pass surfaces every issue in the
// order it was found.
type Diagnostics []Diagnostic

// AddError appends an Error diagnostic.
func (d *Diagnostics) AddError(summary, detail string) {
	*d = append(*d, Diagnostic{Severity: SeverityError, Summary: summary, Detail: detail})
}

// AddWarning appends a Warning diagnostic.
func (d *Diagnostics) AddWarning(summary, detail string) {
	*d = append(*d, Diagnostic{Severity: SeverityWarning, Summary: summary, Detail: detail})
}

// AddAttributeError appends an Error diagnostic scoped to the supplied path.
func (d *Diagnostics) AddAttributeError(p dynamic.Path, summary, detail string) {
	*d = append(*d, Diagnostic{Severity: SeverityError, Summary: summary, Detail: detail, Path: p})
}

// AddAttributeWarning appends a Warning diagnostic scoped to the supplied
// path.
func (d *Diagnostics) AddAttributeWarning(p dynamic.Path, summary, detail string) {
	*d = append(*d, Diagnostic{Severity: SeverityWarning, Summary: summary, Detail: detail, Path: p})
}

// Append appends the supplied diagnostics.
func (d *Diagnostics) Append(in ...Diagnostic) {
	*d = append(*d, in...)
}

// Extend appends all diagnostics of another collection.
func (d *Diagnostics) Extend(in Diagnostics) {
	*d = append(*d, in...)
}

// HasError returns true if the collection contains at least one Error.
func (d Diagnostics) HasError() bool {
	for _, dg := range d {
		if dg.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of Error diagnostics.
func (d Diagnostics) ErrorCount() int {
	n := 0
	for _, dg := range d {
		if dg.Severity == SeverityError {
			n++
		}
	}
	return n
}
