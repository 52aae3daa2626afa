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
	"context"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/skycrane/provider-runtime/pkg/logging"
)

const errRateLimited = "too many concurrent calls"

// RateLimitInterceptor returns a gRPC interceptor that sheds load once the
// host exceeds the supplied call rate. Shed calls fail with
// ResourceExhausted so a well-behaved host backs off and retries.
func RateLimitInterceptor(limit rate.Limit, burst int) grpc.UnaryServerInterceptor {
	limiter := rate.NewLimiter(limit, burst)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !limiter.Allow() {
			return nil, status.Error(codes.ResourceExhausted, errRateLimited)
		}
		return handler(ctx, req)
	}
}

// LoggingInterceptor returns a gRPC interceptor that logs each call at
// debug level.
func LoggingInterceptor(log logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		log.Debug("Served RPC", "method", info.FullMethod, "code", status.Code(err).String())
		return resp, err
	}
}
