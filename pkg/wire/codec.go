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

package wire

import (
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype the protocol's messages travel
// under.
const CodecName = "msgpack"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec is a gRPC codec carrying the protocol's messages in msgpack. It
// replaces the default protobuf marshalling; the service's message types
// are plain structs with msgpack tags.
type Codec struct{}

// Marshal encodes a message.
func (Codec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes a message.
func (Codec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// Name returns the codec's registered name.
func (Codec) Name() string { return CodecName }
