package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bedfast/access-service/internal/bedfast/types"
)

// Client calls bedfast.v1.AccessWindow with the typed request and response
// structs.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Evaluate(ctx context.Context, req types.EvaluateRequest, opts ...grpc.CallOption) (types.EvaluateResponse, error) {
	var resp types.EvaluateResponse
	err := c.invoke(ctx, EvaluateMethod, req, &resp, opts...)
	return resp, err
}

func (c *Client) Verify(ctx context.Context, req types.VerifyRequest, opts ...grpc.CallOption) (types.VerifyResponse, error) {
	var resp types.VerifyResponse
	err := c.invoke(ctx, VerifyMethod, req, &resp, opts...)
	return resp, err
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := types.ToStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return err
	}
	return types.FromStruct(out, resp)
}
