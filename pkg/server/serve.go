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
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/skycrane/provider-runtime/pkg/logging"
	"github.com/skycrane/provider-runtime/pkg/provider"
	"github.com/skycrane/provider-runtime/pkg/wire"
)

// Error strings.
const (
	errListen    = "cannot listen on %s"
	errLoadCert  = "cannot load TLS certificate"
	errLoadKey   = "cannot load TLS key"
	errKeyPair   = "cannot parse TLS key pair"
	errHandshake = "cannot write handshake line"
	errServe     = "gRPC server stopped"
)

// HandshakeFormat is the line a plugin process writes to stdout once its
// listener is ready: core protocol version, plugin protocol major version,
// network, address, and transport, pipe-separated.
const HandshakeFormat = "1|%d|tcp|%s|grpc\n"

// ServeOptions configure Serve.
type ServeOptions struct {
	// Address to listen on. The default is an ephemeral port on loopback,
	// reported to the host through the handshake line.
	Address string

	// Handshake is where the handshake line is written. Only the handshake
	// goes there; everything else the process emits must use the logger.
	// Defaults to stdout.
	Handshake io.Writer

	// CertFile and KeyFile name a PEM certificate pair. When set the server
	// requires TLS.
	CertFile string
	KeyFile  string

	// Fs is the filesystem the certificate pair is read from. Defaults to
	// the OS filesystem.
	Fs afero.Fs

	// Logger is the server logger. Defaults to a zap logger writing JSON to
	// stderr.
	Logger logging.Logger

	// Metrics, when set, records per-RPC counts and latencies.
	Metrics *Metrics

	// GRPCOptions are appended to the default server options.
	GRPCOptions []grpc.ServerOption
}

// A ServeOption configures Serve.
type ServeOption func(*ServeOptions)

// WithAddress sets the listen address.
func WithAddress(addr string) ServeOption {
	return func(o *ServeOptions) {
		o.Address = addr
	}
}

// WithHandshakeWriter sets where the handshake line is written.
func WithHandshakeWriter(w io.Writer) ServeOption {
	return func(o *ServeOptions) {
		o.Handshake = w
	}
}

// WithTLS sets the PEM certificate pair the server presents.
func WithTLS(certFile, keyFile string) ServeOption {
	return func(o *ServeOptions) {
		o.CertFile = certFile
		o.KeyFile = keyFile
	}
}

// WithFs sets the filesystem the certificate pair is read from.
func WithFs(fs afero.Fs) ServeOption {
	return func(o *ServeOptions) {
		o.Fs = fs
	}
}

// WithServeLogger sets the server logger.
func WithServeLogger(log logging.Logger) ServeOption {
	return func(o *ServeOptions) {
		o.Logger = log
	}
}

// WithMetrics records per-RPC metrics.
func WithMetrics(m *Metrics) ServeOption {
	return func(o *ServeOptions) {
		o.Metrics = m
	}
}

// WithServeGRPCOptions appends gRPC server options.
func WithServeGRPCOptions(opts ...grpc.ServerOption) ServeOption {
	return func(o *ServeOptions) {
		o.GRPCOptions = opts
	}
}

// Serve runs a plugin process serving the supplied provider: it listens on
// an ephemeral loopback port, writes the handshake line, and serves the
// provider protocol until ctx is cancelled. Cancellation triggers a
// graceful stop, letting in-flight calls finish.
func Serve(ctx context.Context, p provider.Provider, o ...ServeOption) error {
	opts := &ServeOptions{
		Address:   "127.0.0.1:0",
		Handshake: os.Stdout,
		Fs:        afero.NewOsFs(),
		Logger:    logging.NewZapLogger(false),
	}
	for _, opt := range o {
		opt(opts)
	}
	log := opts.Logger

	lis, err := net.Listen("tcp", opts.Address)
	if err != nil {
		return errors.Wrapf(err, errListen, opts.Address)
	}

	gopts := DefaultServerOptions()
	if opts.CertFile != "" {
		creds, err := loadTLS(opts.Fs, opts.CertFile, opts.KeyFile)
		if err != nil {
			_ = lis.Close()
			return err
		}
		gopts = append(gopts, grpc.Creds(creds))
	}

	interceptors := []grpc.UnaryServerInterceptor{LoggingInterceptor(log)}
	if opts.Metrics != nil {
		interceptors = append(interceptors, opts.Metrics.UnaryInterceptor())
	}
	gopts = append(gopts, grpc.ChainUnaryInterceptor(interceptors...))
	gopts = append(gopts, opts.GRPCOptions...)

	gs := grpc.NewServer(gopts...)
	wire.RegisterProviderServer(gs, NewPluginServer(p, WithLogger(log)))

	if _, err := fmt.Fprintf(opts.Handshake, HandshakeFormat, wire.ProtocolVersionMajor, lis.Addr().String()); err != nil {
		_ = lis.Close()
		return errors.Wrap(err, errHandshake)
	}

	go func() {
		<-ctx.Done()
		log.Info("Stopping gRPC server", "address", lis.Addr().String())
		gs.GracefulStop()
	}()

	log.Info("Starting gRPC server", "address", lis.Addr().String())
	if err := gs.Serve(lis); err != nil {
		return errors.Wrap(err, errServe)
	}
	return nil
}

// loadTLS reads a PEM certificate pair from the supplied filesystem and
// returns transport credentials presenting it.
func loadTLS(fs afero.Fs, certFile, keyFile string) (credentials.TransportCredentials, error) {
	cert, err := afero.ReadFile(fs, certFile)
	if err != nil {
		return nil, errors.Wrap(err, errLoadCert)
	}
	key, err := afero.ReadFile(fs, keyFile)
	if err != nil {
		return nil, errors.Wrap(err, errLoadKey)
	}
	pair, err := tls.X509KeyPair(cert, key)
	if err != nil {
		return nil, errors.Wrap(err, errKeyPair)
	}
	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS12,
	}), nil
}
