package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lifelog/internal/common"
	"github.com/dmitrijs2005/lifelog/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const ownerIDKey ctxKey = "ownerID"

func withOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// ownerFrom returns the user id resolved by accessTokenInterceptor.
func ownerFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ownerIDKey).(string)
	return id, ok && id != ""
}

func tokenFrom(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// accessTokenInterceptor resolves the caller once per request: token ->
// principal -> user id. Public methods pass through untouched.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if r, ok := s.routes[methodName(info.FullMethod)]; ok && r.public {
		return handler(ctx, req)
	}

	token := tokenFrom(ctx)
	if token == "" {
		return nil, s.toStatus(common.ErrInvalidToken, "missing token")
	}
	principal, err := auth.PrincipalFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, s.toStatus(err, "")
	}
	ownerID, err := s.svc.Identity.Resolve(ctx, principal)
	if err != nil {
		return nil, s.toStatus(err, "")
	}
	return handler(withOwner(ctx, ownerID), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
	if code == codes.Internal || code == codes.Unknown {
		s.logger.Error(ctx, "request failed", args...)
	} else {
		s.logger.Debug(ctx, "request", args...)
	}
	return resp, err
}
