// Package status exposes the live sessions over gRPC. Requests and responses
// use the well-known Empty and Struct messages, so no generated code is needed.
package status

import (
	"context"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"gogame/internal/domain/game"
)

const ServiceName = "gogame.v1.Sessions"

// SessionLister is the read side of the lobby.
type SessionLister interface {
	Summaries() []game.SessionSummary
}

type SessionsServer interface {
	List(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SessionsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "List", Handler: listHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gogame/v1/sessions.proto",
}

func listHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionsServer).List(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/List"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionsServer).List(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

type Server struct {
	log    *zap.SugaredLogger
	lister SessionLister
}

func NewServer(log *zap.SugaredLogger, lister SessionLister) *Server {
	return &Server{log: log, lister: lister}
}

func (s *Server) List(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	summaries := s.lister.Summaries()
	items := make([]any, 0, len(summaries))
	for _, sum := range summaries {
		items = append(items, map[string]any{
			"id":             sum.ID,
			"board_size":     sum.BoardSize,
			"mode":           sum.Mode,
			"phase":          sum.Phase,
			"started":        sum.Started,
			"current_color":  sum.CurrentColor,
			"player_black":   sum.PlayerBlack,
			"player_white":   sum.PlayerWhite,
			"black_captures": sum.BlackCaptures,
			"white_captures": sum.WhiteCaptures,
		})
	}
	out, err := structpb.NewStruct(map[string]any{"sessions": items})
	if err != nil {
		s.log.Errorw("failed to encode sessions", "error", err)
		return nil, grpcstatus.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// NewGRPCServer builds a traced gRPC server with the sessions and health services.
func NewGRPCServer(log *zap.SugaredLogger, lister SessionLister) *grpc.Server {
	gs := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	gs.RegisterService(&ServiceDesc, NewServer(log, lister))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return gs
}

// Client calls the sessions service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) List(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/List", &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
