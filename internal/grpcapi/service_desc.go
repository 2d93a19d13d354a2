// Package grpcapi exposes the stateless window evaluator and lock-side PIN
// verification over gRPC. Messages are google.protobuf.Struct values whose
// fields mirror the HTTP JSON bodies, so no generated code is needed.
package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "bedfast.v1.AccessWindow"

	EvaluateMethod = "/" + ServiceName + "/Evaluate"
	VerifyMethod   = "/" + ServiceName + "/Verify"
)

// AccessWindowServer is the server side of bedfast.v1.AccessWindow.
type AccessWindowServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Verify(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var accessWindowServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccessWindowServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: unaryHandler(EvaluateMethod, AccessWindowServer.Evaluate)},
		{MethodName: "Verify", Handler: unaryHandler(VerifyMethod, AccessWindowServer.Verify)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bedfast/v1/access_window.proto",
}

type unaryMethod func(AccessWindowServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccessWindowServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccessWindowServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
