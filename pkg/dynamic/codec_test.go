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
	"bytes"
	"testing"
)

func TestMsgpackRoundTrip(t *testing.T) {
	cases := map[string]struct {
		reason string
		v      Value
	}{
		"Null": {
			reason: "Null should survive a round trip.",
			v:      NullVal(),
		},
		"Bool": {
			reason: "Bool should survive a round trip.",
			v:      BoolVal(true),
		},
		"Number": {
			reason: "Number should survive a round trip.",
			v:      NumberVal(4.5),
		},
		"String": {
			reason: "String should survive a round trip.",
			v:      StringVal("hello"),
		},
		"Unknown": {
			reason: "Unknown must survive the primary format without degrading.",
			v:      UnknownVal(),
		},
		"NestedTree": {
			reason: "A nested tree mixing every kind should survive a round trip.",
			v: MapVal(map[string]Value{
				"name":    StringVal("vpc-1"),
				"enabled": BoolVal(false),
				"count":   NumberVal(3),
				"id":      UnknownVal(),
				"absent":  NullVal(),
				"tags":    ListVal([]Value{StringVal("a"), UnknownVal()}),
				"nested":  MapVal(map[string]Value{"cidr": StringVal("10.0.0.0/16")}),
			}),
		},
		"EmptyMap": {
			reason: "An empty Map should survive a round trip.",
			v:      MapVal(nil),
		},
		"EmptyList": {
			reason: "An empty List should survive a round trip.",
			v:      ListVal(nil),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			b, err := MarshalMsgpack(tc.v)
			if err != nil {
				t.Fatalf("\n%s\nMarshalMsgpack(...): unexpected error: %v", tc.reason, err)
			}
			got, err := UnmarshalMsgpack(b)
			if err != nil {
				t.Fatalf("\n%s\nUnmarshalMsgpack(...): unexpected error: %v", tc.reason, err)
			}
			if !got.Equal(tc.v) {
				t.Errorf("\n%s\nround trip: want %v, got %v", tc.reason, tc.v, got)
			}
		})
	}
}

func TestMsgpackDeterministic(t *testing.T) {
	// Two equal maps built in different insertion orders must produce
	// byte-for-byte identical encodings.
	a := MapVal(map[string]Value{
		"alpha": NumberVal(1),
		"beta":  NumberVal(2),
		"gamma": NumberVal(3),
	})
	b := MapVal(map[string]Value{
		"gamma": NumberVal(3),
		"alpha": NumberVal(1),
		"beta":  NumberVal(2),
	})

	ab, err := MarshalMsgpack(a)
	if err != nil {
		t.Fatalf("MarshalMsgpack(...): unexpected error: %v", err)
	}
	bb, err := MarshalMsgpack(b)
	if err != nil {
		t.Fatalf("MarshalMsgpack(...): unexpected error: %v", err)
	}
	if !bytes.Equal(ab, bb) {
		t.Errorf("MarshalMsgpack(...): equal values produced different encodings:\n%x\n%x", ab, bb)
	}
}

func TestJSONDegradesUnknown(t *testing.T) {
	in := MapVal(map[string]Value{
		"id":   UnknownVal(),
		"name": StringVal("a"),
	})
	want := MapVal(map[string]Value{
		"id":   NullVal(),
		"name": StringVal("a"),
	})

	b, err := MarshalJSON(in)
	if err != nil {
		t.Fatalf("MarshalJSON(...): unexpected error: %v", err)
	}
	got, err := UnmarshalJSON(b)
	if err != nil {
		t.Fatalf("UnmarshalJSON(...): unexpected error: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("JSON round trip: want %v, got %v", want, got)
	}
}

func TestDecode(t *testing.T) {
	mp, err := MarshalMsgpack(MapVal(map[string]Value{"a": NumberVal(1)}))
	if err != nil {
		t.Fatalf("MarshalMsgpack(...): unexpected error: %v", err)
	}

	cases := map[string]struct {
		reason string
		b      []byte
		want   Value
	}{
		"Empty": {
			reason: "An empty payload must decode to an empty Map, never an error.",
			b:      nil,
			want:   MapVal(nil),
		},
		"Msgpack": {
			reason: "A msgpack payload should decode via the primary format.",
			b:      mp,
			want:   MapVal(map[string]Value{"a": NumberVal(1)}),
		},
		"JSON": {
			reason: "A JSON payload should decode via the fallback format.",
			b:      []byte(`{"a":1,"b":"x"}`),
			want:   MapVal(map[string]Value{"a": NumberVal(1), "b": StringVal("x")}),
		},
		"JSONScalar": {
			reason: "A bare JSON scalar should decode via the fallback format.",
			b:      []byte(`true`),
			want:   BoolVal(true),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Decode(tc.b)
			if err != nil {
				t.Fatalf("\n%s\nDecode(...): unexpected error: %v", tc.reason, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("\n%s\nDecode(...): want %v, got %v", tc.reason, tc.want, got)
			}
		})
	}
}

func TestFillMissing(t *testing.T) {
	type args struct {
		base Value
		fill Value
	}
	type want struct {
		v   Value
		err bool
	}
	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"FillsAbsent": {
			reason: "Attributes absent from base should be taken from fill.",
			args: args{
				base: MapVal(map[string]Value{"name": StringVal("a")}),
				fill: MapVal(map[string]Value{"name": StringVal("ignored"), "size": NumberVal(2)}),
			},
			want: want{v: MapVal(map[string]Value{
				"name": StringVal("a"),
				"size": NumberVal(2),
			})},
		},
		"FillsNull": {
			reason: "Attributes that are Null in base should be taken from fill.",
			args: args{
				base: MapVal(map[string]Value{"name": NullVal()}),
				fill: MapVal(map[string]Value{"name": StringVal("planned")}),
			},
			want: want{v: MapVal(map[string]Value{"name": StringVal("planned")})},
		},
		"KeepsZeroValues": {
			reason: "false, zero and the empty string are real values, not gaps; fill must not overwrite them.",
			args: args{
				base: MapVal(map[string]Value{
					"enabled": BoolVal(false),
					"count":   NumberVal(0),
					"name":    StringVal(""),
				}),
				fill: MapVal(map[string]Value{
					"enabled": BoolVal(true),
					"count":   NumberVal(5),
					"name":    StringVal("planned"),
				}),
			},
			want: want{v: MapVal(map[string]Value{
				"enabled": BoolVal(false),
				"count":   NumberVal(0),
				"name":    StringVal(""),
			})},
		},
		"FillsNestedGapsOnly": {
			reason: "Nested maps are filled recursively, and only where the base carries nothing.",
			args: args{
				base: MapVal(map[string]Value{
					"config": MapVal(map[string]Value{
						"retries": NumberVal(0),
						"timeout": NullVal(),
					}),
				}),
				fill: MapVal(map[string]Value{
					"config": MapVal(map[string]Value{
						"retries": NumberVal(3),
						"timeout": NumberVal(30),
					}),
				}),
			},
			want: want{v: MapVal(map[string]Value{
				"config": MapVal(map[string]Value{
					"retries": NumberVal(0),
					"timeout": NumberVal(30),
				}),
			})},
		},
		"PreservesUnknown": {
			reason: "Unknown carried by fill should survive the merge.",
			args: args{
				base: MapVal(map[string]Value{"name": StringVal("a")}),
				fill: MapVal(map[string]Value{"name": StringVal("a"), "id": UnknownVal()}),
			},
			want: want{v: MapVal(map[string]Value{
				"name": StringVal("a"),
				"id":   UnknownVal(),
			})},
		},
		"NotMaps": {
			reason: "Non-Map operands should be rejected.",
			args: args{
				base: StringVal("a"),
				fill: MapVal(nil),
			},
			want: want{err: true},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := FillMissing(tc.args.base, tc.args.fill)
			if tc.want.err {
				if err == nil {
					t.Errorf("\n%s\nFillMissing(...): want error, got nil", tc.reason)
				}
				return
			}
			if err != nil {
				t.Fatalf("\n%s\nFillMissing(...): unexpected error: %v", tc.reason, err)
			}
			if !got.Equal(tc.want.v) {
				t.Errorf("\n%s\nFillMissing(...): want %v, got %v", tc.reason, tc.want.v, got)
			}
		})
	}
}
