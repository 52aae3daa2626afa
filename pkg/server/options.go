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

package server

import (
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
)

// DefaultServerOptions returns the gRPC options every plugin server starts
// from: keepalive probing so a vanished host is noticed within a couple of
// minutes, an enforcement policy tolerating the probing the host does in
// return, and message size caps comfortably above any schema or state
// payload.
func DefaultServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.KeepaliveParams(keepalive.ServerParameters{
			// Probe a connection idle for a minute; call it dead when the
			// ack takes over 20 seconds.
			Time:    60 * time.Second,
			Timeout: 20 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			// The host may ping at most twice a minute, streams or not.
			MinTime:             30 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.MaxRecvMsgSize(4 * 1024 * 1024),
		grpc.MaxSendMsgSize(4 * 1024 * 1024),
	}
}

// WithMaxConcurrentStreams caps the number of concurrent streams per
// connection.
func WithMaxConcurrentStreams(max uint32) grpc.ServerOption {
	return grpc.MaxConcurrentStreams(max)
}
