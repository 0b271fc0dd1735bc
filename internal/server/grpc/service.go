package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dmitrijs2005/lifelog/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service. Every method takes and
// returns a google.protobuf.Struct.
const ServiceName = "lifelog.v1.LifeLog"

// handler serves one method for an already resolved owner. Public
// methods get an empty owner.
type handler func(ctx context.Context, owner string, req *structpb.Struct) (any, error)

type route struct {
	public bool
	handle handler
}

// FullMethod returns the path a client invokes for method.
func FullMethod(method string) string { return "/" + ServiceName + "/" + method }

func methodName(fullMethod string) string {
	prefix := "/" + ServiceName + "/"
	if !strings.HasPrefix(fullMethod, prefix) {
		return ""
	}
	return strings.TrimPrefix(fullMethod, prefix)
}

func (s *GRPCServer) serviceDesc() *grpc.ServiceDesc {
	names := make([]string, 0, len(s.routes))
	for name := range s.routes {
		names = append(names, name)
	}
	sort.Strings(names)

	desc := &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*any)(nil),
		Streams:     []grpc.StreamDesc{},
		Metadata:    "lifelog/v1/lifelog.proto",
	}
	for _, name := range names {
		desc.Methods = append(desc.Methods, s.methodDesc(name, s.routes[name]))
	}
	return desc
}

func (s *GRPCServer) methodDesc(name string, r route) grpc.MethodDesc {
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: FullMethod(name)}
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(_ any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			h := func(ctx context.Context, req any) (any, error) {
				return s.dispatch(ctx, r, req.(*structpb.Struct))
			}
			if interceptor == nil {
				return h(ctx, in)
			}
			return interceptor(ctx, in, info, h)
		},
	}
}

func (s *GRPCServer) dispatch(ctx context.Context, r route, req *structpb.Struct) (*structpb.Struct, error) {
	owner, ok := ownerFrom(ctx)
	if !r.public && !ok {
		return nil, s.toStatus(common.ErrorUnknownPrincipal, "")
	}
	out, err := r.handle(ctx, owner, req)
	if err != nil {
		if codeOf(err, s.maskForbidden) == codes.Internal {
			s.logger.Error(ctx, "internal error", "error", err)
		}
		return nil, s.toStatus(err, "")
	}
	resp, err := encode(out)
	if err != nil {
		s.logger.Error(ctx, "encode response", "error", err)
		return nil, s.toStatus(err, "")
	}
	return resp, nil
}

// encode turns a service result into a Struct. Slices are wrapped as
// {"items": [...]}; nil becomes an empty Struct.
func encode(v any) (*structpb.Struct, error) {
	if v == nil {
		return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice {
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		v = map[string]any{"items": items}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return structpb.NewStruct(m)
}

// decode fills dst from the request body.
func decode(req *structpb.Struct, dst any) error {
	b, err := json.Marshal(req.AsMap())
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("%w: malformed request: %v", common.ErrorValidation, err)
	}
	return nil
}

func str(req *structpb.Struct, name string) string {
	if v, ok := req.GetFields()[name]; ok {
		return v.GetStringValue()
	}
	return ""
}

func requiredStr(req *structpb.Struct, name string) (string, error) {
	v := str(req, name)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", common.ErrorValidation, name)
	}
	return v, nil
}
