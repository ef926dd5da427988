package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gogame/internal/adapters"
	"gogame/internal/bootstrap"
	gameDelivery "gogame/internal/delivery/game"
	statusDelivery "gogame/internal/delivery/status"
	repo "gogame/internal/repository"
	"gogame/internal/telemetry"
	"gogame/internal/usecase/recording"
)

const shutdownTimeout = 5 * time.Second

type closer interface {
	Close(ctx context.Context) error
}

func main() {
	cfgPath := flag.String("config", ".env", "path to the configuration file")
	flag.Parse()

	cfg, err := bootstrap.Setup(*cfgPath)
	if err != nil {
		panic("failed to setup configuration: " + err.Error())
	}
	log, err := bootstrap.NewLogger(cfg.LogLevel)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Errorw("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *bootstrap.Config, log *zap.SugaredLogger) error {
	shutdownTracing, err := telemetry.Setup(ctx, cfg.OtelEndpoint, "gogame")
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warnw("failed to flush traces", "error", err)
		}
	}()

	stores, closers := initStores(ctx, cfg, log)
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, c := range closers {
			if err := c.Close(cctx); err != nil {
				log.Warnw("failed to close adapter", "error", err)
			}
		}
	}()

	recorder := recording.NewService(cfg, log, stores...)
	lobby := gameDelivery.NewLobby(cfg, log, recorder)

	r := chi.NewRouter()
	gameDelivery.NewGameHandler(log, lobby).Router(r)
	httpServer := &http.Server{Addr: cfg.ServerPort, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	grpcServer := statusDelivery.NewGRPCServer(log, lobby)

	tcpListener, err := net.Listen("tcp", cfg.TcpPort)
	if err != nil {
		return err
	}
	grpcListener, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		_ = tcpListener.Close()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return lobby.ServeTCP(gctx, tcpListener)
	})
	g.Go(func() error {
		log.Infof("http server is running on %s", cfg.ServerPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Infof("grpc server is running on %s", cfg.GrpcPort)
		return grpcServer.Serve(grpcListener)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(sctx); err != nil {
			log.Warnw("http shutdown", "error", err)
		}
		grpcServer.GracefulStop()
		lobby.Close()
		return nil
	})
	return g.Wait()
}

// initStores connects the configured backends. A backend that cannot be
// reached is skipped and the server runs without it.
func initStores(ctx context.Context, cfg *bootstrap.Config, log *zap.SugaredLogger) ([]recording.Store, []closer) {
	var stores []recording.Store
	var closers []closer

	if cfg.MongoUri != "" {
		mongoAdapter := adapters.NewAdapterMongo(cfg, log)
		if err := mongoAdapter.Init(ctx); err != nil {
			log.Errorw("mongo is unavailable, games will not be stored there", "error", err)
		} else {
			stores = append(stores, repo.NewGameRepository(log, mongoAdapter.Database))
			closers = append(closers, mongoAdapter)
		}
	}

	if cfg.RedisUrl != "" {
		redisAdapter := adapters.NewAdapterRedis(cfg, log)
		if err := redisAdapter.Init(ctx); err != nil {
			log.Errorw("redis is unavailable, live games will not be cached", "error", err)
		} else {
			stores = append(stores, repo.NewSessionRedisStorage(log, redisAdapter.GetClient()))
			closers = append(closers, redisAdapter)
		}
	}

	if cfg.DatabaseUrl != "" {
		sqlAdapter := adapters.NewAdapterSQL(cfg, log)
		if err := sqlAdapter.Init(ctx); err != nil {
			log.Errorw("sql database is unavailable", "driver", cfg.DatabaseDriver, "error", err)
		} else {
			sqlRepo, err := repo.NewSQLGameRepository(ctx, log, sqlAdapter.DB, sqlAdapter.Driver())
			if err != nil {
				log.Errorw("failed to prepare sql schema", "error", err)
				_ = sqlAdapter.Close(ctx)
			} else {
				stores = append(stores, sqlRepo)
				closers = append(closers, sqlAdapter)
			}
		}
	}

	log.Infow("recording stores ready", "count", len(stores))
	return stores, closers
}
