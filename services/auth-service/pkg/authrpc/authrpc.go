// Package authrpc describes the AuthService gRPC contract and provides its client.
package authrpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/vasapolrittideah/blob-api/services/auth-service/pkg/types"
	"github.com/vasapolrittideah/blob-api/shared/rpc"
)

const ServiceName = "blob.auth.v1.AuthService"

const (
	GoogleSignInMethod = "/" + ServiceName + "/GoogleSignIn"
	MeMethod           = "/" + ServiceName + "/Me"
)

// AuthServiceServer is the server API for AuthService.
type AuthServiceServer interface {
	GoogleSignIn(ctx context.Context, req *types.GoogleSignInRequest) (*types.GoogleSignInResponse, error)
	Me(ctx context.Context, req *types.MeRequest) (*types.MeResponse, error)
}

// RegisterAuthServiceServer registers srv on the given gRPC server.
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&authServiceDesc, srv)
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GoogleSignIn", Handler: googleSignInHandler},
		{MethodName: "Me", Handler: meHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "authrpc.go",
}

func googleSignInHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(types.GoogleSignInRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServiceServer).GoogleSignIn(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GoogleSignInMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AuthServiceServer).GoogleSignIn(ctx, req.(*types.GoogleSignInRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func meHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(types.MeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServiceServer).Me(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AuthServiceServer).Me(ctx, req.(*types.MeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls AuthService over a gRPC connection using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a Client on top of an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) GoogleSignIn(
	ctx context.Context,
	in *types.GoogleSignInRequest,
	opts ...grpc.CallOption,
) (*types.GoogleSignInResponse, error) {
	out := new(types.GoogleSignInResponse)
	if err := c.cc.Invoke(ctx, GoogleSignInMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Me(ctx context.Context, in *types.MeRequest, opts ...grpc.CallOption) (*types.MeResponse, error) {
	out := new(types.MeResponse)
	if err := c.cc.Invoke(ctx, MeMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{rpc.CallOption()}, opts...)
}
