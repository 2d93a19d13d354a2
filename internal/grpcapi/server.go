package grpcapi

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bedfast/access-service/internal/bedfast/service"
	"github.com/bedfast/access-service/internal/bedfast/types"
)

type serverAPI struct {
	log         *zap.Logger
	evaluator   *service.WindowEvaluator
	guestAccess *service.GuestAccessService
}

func Register(gRPCServer *grpc.Server, log *zap.Logger, ev *service.WindowEvaluator, ga *service.GuestAccessService) {
	gRPCServer.RegisterService(&accessWindowServiceDesc, &serverAPI{
		log:         log,
		evaluator:   ev,
		guestAccess: ga,
	})
}

func (s *serverAPI) Evaluate(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req types.EvaluateRequest
	if err := types.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.evaluator.Evaluate(req)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return encode(resp)
}

func (s *serverAPI) Verify(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req types.VerifyRequest
	if err := types.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.guestAccess.Verify(ctx, req)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return encode(resp)
}

func encode(v any) (*structpb.Struct, error) {
	st, err := types.ToStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return st, nil
}

func (s *serverAPI) toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidWindow), errors.Is(err, service.ErrInvalidVerify):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.log.Error("grpc handler failed", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}
