package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/lifelog/internal/logging"
	"github.com/dmitrijs2005/lifelog/internal/server/services"
	"google.golang.org/grpc"
)

// Options tune the boundary behaviour of the server.
type Options struct {
	// SecretKey verifies access tokens.
	SecretKey string
	// MaskForbidden reports records owned by someone else as not found.
	MaskForbidden bool
	// Metrics records per-method counters; nil disables them.
	Metrics *Metrics
}

type GRPCServer struct {
	address       string
	logger        logging.Logger
	svc           *services.Services
	jwtSecret     []byte
	maskForbidden bool
	metrics       *Metrics
	routes        map[string]route
}

func NewGRPCServer(a string, l logging.Logger, svc *services.Services, opts Options) *GRPCServer {
	s := &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		svc:           svc,
		jwtSecret:     []byte(opts.SecretKey),
		maskForbidden: opts.MaskForbidden,
		metrics:       opts.Metrics,
	}
	s.routes = s.buildRoutes()
	return s
}

// newServer builds a grpc.Server with the interceptor chain and the
// LifeLog service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	var chain []grpc.UnaryServerInterceptor
	if s.metrics != nil {
		chain = append(chain, s.metrics.UnaryInterceptor)
	}
	chain = append(chain, s.loggingInterceptor, s.accessTokenInterceptor)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))
	srv.RegisterService(s.serviceDesc(), s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
