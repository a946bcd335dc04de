package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/chancekeeper/internal/logger"
	"github.com/solatis/chancekeeper/internal/types"
)

// Request and response field names of GetFactor.
const (
	FieldChance  = "chance"
	FieldContext = "context"
	FieldFactor  = "factor"
	FieldApplied = "applied"
)

// GetFactorFullMethod is the full gRPC method name of GetFactor.
const GetFactorFullMethod = "/chancekeeper.v1.ChanceService/GetFactor"

// ChanceServiceServer is the server API of chancekeeper.v1.ChanceService.
//
// Messages are google.protobuf.Struct so the service needs no generated code:
//
//	request:  {"chance": "<name>", "context": {<condition>: <value>, ...}}
//	response: {"chance": "<name>", "factor": <number>, "applied": [<bool>, ...]}
type ChanceServiceServer interface {
	GetFactor(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ChanceServiceDesc describes chancekeeper.v1.ChanceService for grpc.Server.
var ChanceServiceDesc = grpc.ServiceDesc{
	ServiceName: "chancekeeper.v1.ChanceService",
	HandlerType: (*ChanceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetFactor",
			Handler:    getFactorHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chancekeeper/v1/chance_service.proto",
}

// RegisterChanceServiceServer registers srv with s.
func RegisterChanceServiceServer(s grpc.ServiceRegistrar, srv ChanceServiceServer) {
	s.RegisterService(&ChanceServiceDesc, srv)
}

func getFactorHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChanceServiceServer).GetFactor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetFactorFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChanceServiceServer).GetFactor(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ChanceServiceClient is the client API of chancekeeper.v1.ChanceService.
type ChanceServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewChanceServiceClient returns a client using cc.
func NewChanceServiceClient(cc grpc.ClientConnInterface) *ChanceServiceClient {
	return &ChanceServiceClient{cc: cc}
}

// GetFactor evaluates the named chance against evalCtx.
func (c *ChanceServiceClient) GetFactor(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetFactorFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFactor implements ChanceServiceServer.
func (s *ChanceService) GetFactor(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name := req.GetFields()[FieldChance].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "chance name required")
	}

	evalCtx := types.Context{}
	if v, ok := req.GetFields()[FieldContext]; ok {
		fields := v.GetStructValue()
		if fields == nil {
			return nil, status.Error(codes.InvalidArgument, "context must be an object")
		}
		evalCtx = fields.AsMap()
	}

	result, err := s.Evaluate(ctx, name, evalCtx)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("chance", name).Msg("evaluation failed")
		return nil, toStatus(err)
	}

	applied := make([]any, len(result.Applied))
	for i, ok := range result.Applied {
		applied[i] = ok
	}

	resp, err := structpb.NewStruct(map[string]any{
		FieldChance:  name,
		FieldFactor:  result.Factor,
		FieldApplied: applied,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}
