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

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// UnknownExtID is the msgpack extension type identifier used as the wire
// sentinel for Unknown. Unknown has no native msgpack representation, so it
// is carried as a one-byte extension payload distinguishable from every
// valid nil, bool and number encoding.
const UnknownExtID int8 = 0

const (
	errEncodeValue = "cannot encode value"
	errDecodeValue = "cannot decode value"
)

// MarshalMsgpack encodes the value in the compact primary binary format.
// Map attributes are encoded in sorted key order so that equal values
// produce byte-for-byte equal encodings across implementations.
func MarshalMsgpack(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeMsgpack(enc, v); err != nil {
		return nil, errors.Wrap(err, errEncodeValue)
	}
	return buf.Bytes(), nil
}

func encodeMsgpack(enc *msgpack.Encoder, v Value) error {
	switch v.kind {
	case KindNull:
		return enc.EncodeNil()
	case KindBool:
		return enc.EncodeBool(v.b)
	case KindNumber:
		return enc.EncodeFloat64(v.n)
	case KindString:
		return enc.EncodeString(v.s)
	case KindList:
		if err := enc.EncodeArrayLen(len(v.list)); err != nil {
			return err
		}
		for _, e := range v.list {
			if err := encodeMsgpack(enc, e); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		if err := enc.EncodeMapLen(len(v.attrs)); err != nil {
			return err
		}
		for _, k := range v.AttributeNames() {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			if err := encodeMsgpack(enc, v.attrs[k]); err != nil {
				return err
			}
		}
		return nil
	case KindUnknown:
		if err := enc.EncodeExtHeader(UnknownExtID, 1); err != nil {
			return err
		}
		_, err := enc.Writer().Write([]byte{0})
		return err
	}
	return errors.Errorf("invalid value kind %d", int(v.kind))
}

// UnmarshalMsgpack decodes a value from the compact primary binary format.
func UnmarshalMsgpack(b []byte) (Value, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	v, err := decodeMsgpack(dec)
	return v, errors.Wrap(err, errDecodeValue)
}

func decodeMsgpack(dec *msgpack.Decoder) (Value, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return Value{}, err
	}

	switch {
	case code == msgpcode.Nil:
		return NullVal(), dec.DecodeNil()

	case code == msgpcode.True || code == msgpcode.False:
		b, err := dec.DecodeBool()
		return BoolVal(b), err

	case code == msgpcode.Float || code == msgpcode.Double:
		n, err := dec.DecodeFloat64()
		return NumberVal(n), err

	case msgpcode.IsFixedNum(code) ||
		code == msgpcode.Int8 || code == msgpcode.Int16 ||
		code == msgpcode.Int32 || code == msgpcode.Int64:
		n, err := dec.DecodeInt64()
		return NumberVal(float64(n)), err

	case code == msgpcode.Uint8 || code == msgpcode.Uint16 ||
		code == msgpcode.Uint32 || code == msgpcode.Uint64:
		n, err := dec.DecodeUint64()
		return NumberVal(float64(n)), err

	case msgpcode.IsString(code):
		s, err := dec.DecodeString()
		return StringVal(s), err

	case msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return Value{}, err
		}
		elems := make([]Value, 0, n)
		for i := 0; i < n; i++ {
			e, err := decodeMsgpack(dec)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, e)
		}
		return Value{kind: KindList, list: elems}, nil

	case msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return Value{}, err
		}
		attrs := make(map[string]Value, n)
		for i := 0; i < n; i++ {
			k, err := dec.DecodeString()
			if err != nil {
				return Value{}, err
			}
			e, err := decodeMsgpack(dec)
			if err != nil {
				return Value{}, err
			}
			attrs[k] = e
		}
		return Value{kind: KindMap, attrs: attrs}, nil

	case msgpcode.IsExt(code):
		// Any extension is treated as the Unknown sentinel. The payload
		// carries no information.
		if err := dec.Skip(); err != nil {
			return Value{}, err
		}
		return UnknownVal(), nil
	}

	return Value{}, errors.Errorf("unsupported msgpack code 0x%02x", code)
}

// Decode decodes a wire payload in either encoding. An empty or absent
// payload decodes to an empty Map, never an error.
func Decode(b []byte) (Value, error) {
	if len(b) == 0 {
		return MapVal(nil), nil
	}
	if jsonStart(b[0]) {
		if v, err := UnmarshalJSON(b); err == nil {
			return v, nil
		}
	}
	return UnmarshalMsgpack(b)
}

// jsonStart reports whether c can begin a JSON document. Every such byte
// is a positive fixint in msgpack, which MarshalMsgpack never emits at the
// top level, so the two encodings are distinguishable by their first byte.
func jsonStart(c byte) bool {
	switch c {
	case '{', '[', '"', '-', 't', 'f', 'n', ' ', '\t', '\n', '\r':
		return true
	}
	return c >= '0' && c <= '9'
}
