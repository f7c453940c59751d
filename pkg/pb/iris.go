// Package pb defines the iris.v1.IrisService gRPC contract.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "iris.v1.IrisService"

const (
	GetCurrentReadingMethod = "/" + ServiceName + "/GetCurrentReading"
	GetHistoryMethod        = "/" + ServiceName + "/GetHistory"
	FetchReadingMethod      = "/" + ServiceName + "/FetchReading"
	RecordReadingMethod     = "/" + ServiceName + "/RecordReading"
)

// Reading is the wire form of a stored iris reading
type Reading struct {
	Id                   int64   `json:"id"`
	Timestamp            int64   `json:"timestamp"` // unix seconds
	Lux                  float64 `json:"lux"`
	SmoothedLux          float64 `json:"smoothedLux"`
	LuxChange            float64 `json:"luxChange"`
	AdjustedSpeed        float64 `json:"adjustedSpeed"`
	AdjustedAcceleration float64 `json:"adjustedAcceleration"`
	TargetPosition       int32   `json:"targetPosition"`
	CurrentPosition      int32   `json:"currentPosition"`
	Category             string  `json:"category,omitempty"`
}

type GetCurrentReadingResponse struct {
	Reading *Reading `json:"reading"`
}

type GetHistoryRequest struct {
	StartTime int64 `json:"startTime"`
	EndTime   int64 `json:"endTime"`
}

type GetHistoryResponse struct {
	Readings   []*Reading `json:"readings"`
	AverageLux float64    `json:"averageLux"`
	MinLux     float64    `json:"minLux"`
	MaxLux     float64    `json:"maxLux"`
}

type FetchReadingResponse struct {
	Reading *Reading `json:"reading"`
}

type RecordReadingRequest struct {
	Reading *Reading `json:"reading"`
}

type RecordReadingResponse struct {
	Reading *Reading `json:"reading"`
}

// IrisServiceClient is the client API for IrisService.
type IrisServiceClient interface {
	// GetCurrentReading returns the latest stored reading
	GetCurrentReading(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetCurrentReadingResponse, error)
	// GetHistory returns readings in [start, end) with lux statistics
	GetHistory(ctx context.Context, in *GetHistoryRequest, opts ...grpc.CallOption) (*GetHistoryResponse, error)
	// FetchReading polls the device now and stores the result
	FetchReading(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*FetchReadingResponse, error)
	// RecordReading stores a manually supplied reading
	RecordReading(ctx context.Context, in *RecordReadingRequest, opts ...grpc.CallOption) (*RecordReadingResponse, error)
}

type irisServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewIrisServiceClient(cc grpc.ClientConnInterface) IrisServiceClient {
	return &irisServiceClient{cc}
}

func (c *irisServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *irisServiceClient) GetCurrentReading(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetCurrentReadingResponse, error) {
	out := new(GetCurrentReadingResponse)
	if err := c.invoke(ctx, GetCurrentReadingMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *irisServiceClient) GetHistory(ctx context.Context, in *GetHistoryRequest, opts ...grpc.CallOption) (*GetHistoryResponse, error) {
	out := new(GetHistoryResponse)
	if err := c.invoke(ctx, GetHistoryMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *irisServiceClient) FetchReading(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*FetchReadingResponse, error) {
	out := new(FetchReadingResponse)
	if err := c.invoke(ctx, FetchReadingMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *irisServiceClient) RecordReading(ctx context.Context, in *RecordReadingRequest, opts ...grpc.CallOption) (*RecordReadingResponse, error) {
	out := new(RecordReadingResponse)
	if err := c.invoke(ctx, RecordReadingMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// IrisServiceServer is the server API for IrisService.
// Implementations must embed UnimplementedIrisServiceServer.
type IrisServiceServer interface {
	GetCurrentReading(context.Context, *emptypb.Empty) (*GetCurrentReadingResponse, error)
	GetHistory(context.Context, *GetHistoryRequest) (*GetHistoryResponse, error)
	FetchReading(context.Context, *emptypb.Empty) (*FetchReadingResponse, error)
	RecordReading(context.Context, *RecordReadingRequest) (*RecordReadingResponse, error)
	mustEmbedUnimplementedIrisServiceServer()
}

// UnimplementedIrisServiceServer answers every call with codes.Unimplemented.
type UnimplementedIrisServiceServer struct{}

func (UnimplementedIrisServiceServer) GetCurrentReading(context.Context, *emptypb.Empty) (*GetCurrentReadingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCurrentReading not implemented")
}
func (UnimplementedIrisServiceServer) GetHistory(context.Context, *GetHistoryRequest) (*GetHistoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetHistory not implemented")
}
func (UnimplementedIrisServiceServer) FetchReading(context.Context, *emptypb.Empty) (*FetchReadingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FetchReading not implemented")
}
func (UnimplementedIrisServiceServer) RecordReading(context.Context, *RecordReadingRequest) (*RecordReadingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecordReading not implemented")
}
func (UnimplementedIrisServiceServer) mustEmbedUnimplementedIrisServiceServer() {}

// RegisterIrisServiceServer attaches srv to s
func RegisterIrisServiceServer(s grpc.ServiceRegistrar, srv IrisServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodDesc.
func unaryHandler[Req any, Resp any](method string, call func(IrisServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(IrisServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(IrisServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes IrisService for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IrisServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetCurrentReading",
			Handler:    unaryHandler(GetCurrentReadingMethod, IrisServiceServer.GetCurrentReading),
		},
		{
			MethodName: "GetHistory",
			Handler:    unaryHandler(GetHistoryMethod, IrisServiceServer.GetHistory),
		},
		{
			MethodName: "FetchReading",
			Handler:    unaryHandler(FetchReadingMethod, IrisServiceServer.FetchReading),
		},
		{
			MethodName: "RecordReading",
			Handler:    unaryHandler(RecordReadingMethod, IrisServiceServer.RecordReading),
		},
	},
	Streams: []grpc.StreamDesc{},
}
