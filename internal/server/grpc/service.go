package grpc

import (
	"context"

	"github.com/dmitrijs2005/severity/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "severity.v1.SeverityService"

const (
	RegisterMethod      = "/" + ServiceName + "/Register"
	LoginMethod         = "/" + ServiceName + "/Login"
	PredictMethod       = "/" + ServiceName + "/Predict"
	HistoryMethod       = "/" + ServiceName + "/History"
	DeleteHistoryMethod = "/" + ServiceName + "/DeleteHistory"
)

// SeverityServiceServer is the server API. Requests and responses are
// google.protobuf.Struct messages:
//
//	Register      {username, password}  -> {user_id, username}
//	Login         {username, password}  -> {access_token, expires_at}
//	Predict       {features: [10 numbers]} -> {local_id, result, advice, created_at}
//	History       {}                    -> {records: [...]}
//	DeleteHistory {}                    -> {deleted}
type SeverityServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Predict(context.Context, *structpb.Struct) (*structpb.Struct, error)
	History(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(SeverityServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SeverityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(RegisterMethod, SeverityServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(LoginMethod, SeverityServiceServer.Login)},
		{MethodName: "Predict", Handler: unaryHandler(PredictMethod, SeverityServiceServer.Predict)},
		{MethodName: "History", Handler: unaryHandler(HistoryMethod, SeverityServiceServer.History)},
		{MethodName: "DeleteHistory", Handler: unaryHandler(DeleteHistoryMethod, SeverityServiceServer.DeleteHistory)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "severity/v1/severity.proto",
}

func RegisterSeverityServiceServer(s grpc.ServiceRegistrar, srv SeverityServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SeverityServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SeverityServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client is a thin client for SeverityService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
}

func (c *Client) Register(ctx context.Context, username, password string) (*structpb.Struct, error) {
	return c.invoke(ctx, RegisterMethod, map[string]any{"username": username, "password": password})
}

// Login returns the access token to pass to the other calls.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	out, err := c.invoke(ctx, LoginMethod, map[string]any{"username": username, "password": password})
	if err != nil {
		return "", err
	}
	return out.GetFields()["access_token"].GetStringValue(), nil
}

func (c *Client) Predict(ctx context.Context, token string, features [common.FeatureCount]float64) (*structpb.Struct, error) {
	list := make([]any, len(features))
	for i, f := range features {
		list[i] = f
	}
	return c.invoke(withToken(ctx, token), PredictMethod, map[string]any{"features": list})
}

func (c *Client) History(ctx context.Context, token string) (*structpb.Struct, error) {
	return c.invoke(withToken(ctx, token), HistoryMethod, nil)
}

func (c *Client) DeleteHistory(ctx context.Context, token string) (*structpb.Struct, error) {
	return c.invoke(withToken(ctx, token), DeleteHistoryMethod, nil)
}
