package adapters

import (
	"context"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"gogame/internal/bootstrap"
)

func TestAdapterRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	for _, url := range []string{mr.Addr(), "redis://" + mr.Addr() + "/0"} {
		a := NewAdapterRedis(&bootstrap.Config{RedisUrl: url}, zap.NewNop().Sugar())
		if err := a.Init(context.Background()); err != nil {
			t.Fatalf("Unexpected Init(%s) error: %v", url, err)
		}
		if a.GetClient() == nil {
			t.Errorf("Client is nil after Init")
		}
		if err := a.Close(context.Background()); err != nil {
			t.Errorf("Unexpected Close() error: %v", err)
		}
	}
}

func TestAdapterSQLite(t *testing.T) {
	cfg := &bootstrap.Config{
		DatabaseDriver: "sqlite",
		DatabaseUrl:    filepath.Join(t.TempDir(), "games.db"),
	}
	a := NewAdapterSQL(cfg, zap.NewNop().Sugar())
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("Unexpected Init() error: %v", err)
	}
	defer a.Close(context.Background())
	if a.Driver() != "sqlite" || a.DB == nil {
		t.Errorf("Unexpected adapter state: %s %v", a.Driver(), a.DB)
	}
}

func TestAdapterSQLUnknownDriver(t *testing.T) {
	a := NewAdapterSQL(&bootstrap.Config{DatabaseDriver: "oracle"}, zap.NewNop().Sugar())
	if err := a.Init(context.Background()); err == nil {
		t.Fatalf("Expected Init() to reject an unknown driver")
	}
}
