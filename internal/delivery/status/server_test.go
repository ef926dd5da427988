package status

import (
	"context"
	"net"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"gogame/internal/domain/game"
)

type staticLister []game.SessionSummary

func (s staticLister) Summaries() []game.SessionSummary { return s }

func dial(t *testing.T, lister SessionLister) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := NewGRPCServer(zap.NewNop().Sugar(), lister)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("Unexpected dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestList(t *testing.T) {
	lister := staticLister{
		{ID: "a", BoardSize: 9, Mode: "BOT", Phase: "PLAYING", Started: true, CurrentColor: "BLACK", PlayerBlack: "BlackPlayer", PlayerWhite: "Bot", BlackCaptures: 2},
		{ID: "b", BoardSize: 19, Mode: "PVP", Phase: "PLAYING", PlayerBlack: "BlackPlayer"},
	}
	conn := dial(t, lister)

	out, err := NewClient(conn).List(context.Background())
	if err != nil {
		t.Fatalf("Unexpected List() error: %v", err)
	}
	sessions := out.GetFields()["sessions"].GetListValue().GetValues()
	if len(sessions) != 2 {
		t.Fatalf("Unexpected number of sessions:\nwant: 2,\ngot: %d.", len(sessions))
	}
	first := sessions[0].GetStructValue().GetFields()
	if first["id"].GetStringValue() != "a" || first["board_size"].GetNumberValue() != 9 || first["black_captures"].GetNumberValue() != 2 {
		t.Errorf("Unexpected first session: %v", first)
	}
	if !first["started"].GetBoolValue() {
		t.Errorf("First session should be started")
	}
}

func TestHealth(t *testing.T) {
	conn := dial(t, staticLister{})
	res, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Unexpected Check() error: %v", err)
	}
	if res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("Unexpected health status: %v", res.GetStatus())
	}
}
