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

// Package logging provides the runtime's structured logging interface.
package logging

import (
	"github.com/go-logr/logr"
)

// A Logger logs messages. Messages should be a simple description of what
// happened written in past tense. The messages should not end with
// punctuation. Structured data should be supplied as key-value pairs.
type Logger interface {
	// Info logs a message with optional structured data. Use Info for
	// messages that an operator of the plugin process would want to see.
	Info(msg string, keysAndValues ...any)

	// Debug logs a message with optional structured data. Use Debug for
	// messages that only a developer debugging the plugin would want to see.
	Debug(msg string, keysAndValues ...any)

	// WithValues returns a Logger that will include the supplied structured
	// data with every subsequent message it logs.
	WithValues(keysAndValues ...any) Logger
}

// NewNopLogger returns a Logger that does nothing.
func NewNopLogger() Logger { return nopLogger{} }

type nopLogger struct{}

func (l nopLogger) Info(_ string, _ ...any)    {}
func (l nopLogger) Debug(_ string, _ ...any)   {}
func (l nopLogger) WithValues(_ ...any) Logger { return nopLogger{} }

// NewLogrLogger returns a Logger backed by the supplied logr.Logger. Debug
// messages are logged at verbosity level 1.
func NewLogrLogger(l logr.Logger) Logger {
	return logrLogger{log: l}
}

type logrLogger struct {
	log logr.Logger
}

func (l logrLogger) Info(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

func (l logrLogger) Debug(msg string, keysAndValues ...any) {
	l.log.V(1).Info(msg, keysAndValues...)
}

func (l logrLogger) WithValues(keysAndValues ...any) Logger {
	return logrLogger{log: l.log.WithValues(keysAndValues...)}
}
