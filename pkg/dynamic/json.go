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
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	errMarshalJSON   = "cannot marshal value to JSON"
	errUnmarshalJSON = "cannot unmarshal value from JSON"
)

// MarshalJSON encodes the value in the canonical JSON fallback format via a
// protobuf Struct tree. The Struct tree cannot represent Unknown, so
// Unknown degrades to Null here. This is an accepted lossy edge of the
// fallback format, not a defect: a decoding context that cannot represent
// Unknown must degrade it rather than invent a concrete value.
func MarshalJSON(v Value) ([]byte, error) {
	pv := ToStructpb(v)
	b, err := protojson.Marshal(pv)
	return b, errors.Wrap(err, errMarshalJSON)
}

// UnmarshalJSON decodes a value from the canonical JSON fallback format.
func UnmarshalJSON(b []byte) (Value, error) {
	pv := &structpb.Value{}
	if err := protojson.Unmarshal(b, pv); err != nil {
		return Value{}, errors.Wrap(err, errUnmarshalJSON)
	}
	return FromStructpb(pv), nil
}

// ToStructpb converts the value to a protobuf Struct tree. Unknown degrades
// to Null; see MarshalJSON.
func ToStructpb(v Value) *structpb.Value {
	switch v.kind {
	case KindBool:
		return structpb.NewBoolValue(v.b)
	case KindNumber:
		return structpb.NewNumberValue(v.n)
	case KindString:
		return structpb.NewStringValue(v.s)
	case KindList:
		elems := make([]*structpb.Value, 0, len(v.list))
		for _, e := range v.list {
			elems = append(elems, ToStructpb(e))
		}
		return structpb.NewListValue(&structpb.ListValue{Values: elems})
	case KindMap:
		fields := make(map[string]*structpb.Value, len(v.attrs))
		for k, e := range v.attrs {
			fields[k] = ToStructpb(e)
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields})
	default:
		// Null, and Unknown degraded to Null.
		return structpb.NewNullValue()
	}
}

// FromStructpb converts a protobuf Struct tree to a Value.
func FromStructpb(pv *structpb.Value) Value {
	switch k := pv.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return BoolVal(k.BoolValue)
	case *structpb.Value_NumberValue:
		return NumberVal(k.NumberValue)
	case *structpb.Value_StringValue:
		return StringVal(k.StringValue)
	case *structpb.Value_ListValue:
		elems := make([]Value, 0, len(k.ListValue.GetValues()))
		for _, e := range k.ListValue.GetValues() {
			elems = append(elems, FromStructpb(e))
		}
		return Value{kind: KindList, list: elems}
	case *structpb.Value_StructValue:
		attrs := make(map[string]Value, len(k.StructValue.GetFields()))
		for name, e := range k.StructValue.GetFields() {
			attrs[name] = FromStructpb(e)
		}
		return Value{kind: KindMap, attrs: attrs}
	default:
		return NullVal()
	}
}
