package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	profilesv1 "github.com/pribylovaa/valet/api/profilesv1"
	"github.com/pribylovaa/valet/internal/auth"
	"github.com/pribylovaa/valet/internal/cache"
	"github.com/pribylovaa/valet/internal/config"
	valethttp "github.com/pribylovaa/valet/internal/http"
	"github.com/pribylovaa/valet/internal/service"
	"github.com/pribylovaa/valet/internal/storage"
	"github.com/pribylovaa/valet/internal/storage/memory"
	"github.com/pribylovaa/valet/internal/storage/minio"
	"github.com/pribylovaa/valet/internal/storage/mongo"
	"github.com/pribylovaa/valet/internal/storage/postgres"
	"github.com/pribylovaa/valet/internal/storage/s3"
	profilesgrpc "github.com/pribylovaa/valet/internal/transport/grpc"
	"github.com/pribylovaa/valet/pkg/interceptors"
	logpkg "github.com/pribylovaa/valet/pkg/log"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	// minGRPCMsgSize — дефолт gRPC; фото в JSON приходят в base64 и могут быть больше.
	minGRPCMsgSize = 4 << 20
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := logpkg.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)
	log.Info("starting valet-service", "env", cfg.Env, "storage", cfg.Storage.Driver, "photos", cfg.Photos.Backend)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	profilesStore, err := openProfiles(rootCtx, cfg, log)
	if err != nil {
		log.Error("profiles_store_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	photosStore, err := openPhotos(rootCtx, cfg)
	if err != nil {
		log.Error("photos_store_init_failed", slog.String("err", err.Error()))
		profilesStore.Close()
		os.Exit(1)
	}
	log.Info("photos_store_ready", slog.String("backend", cfg.Photos.Backend))

	svc := service.New(profilesStore, photosStore, cfg)
	verifier := auth.NewVerifier(cfg.Auth)
	profilesServer := profilesgrpc.NewProfilesServer(svc)
	log.Info("service_initialized")

	var ready int32 // 0 — not ready; 1 — ready

	apiHandler := valethttp.NewRouter(profilesServer, verifier, valethttp.Options{
		Logger:        log,
		Timeout:       cfg.HTTP.RequestTimeout,
		BasePath:      cfg.HTTP.BasePath,
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		MaxPhotoBytes: cfg.Photos.MaxSizeBytes,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpc_prometheus.EnableHandlingTimeHistogram()

	msgSize := int(cfg.Photos.MaxSizeBytes/3*4) + 64<<10
	if msgSize < minGRPCMsgSize {
		msgSize = minGRPCMsgSize
	}

	grpcServer := grpc.NewServer(
		grpc.MaxRecvMsgSize(msgSize),
		grpc.ChainUnaryInterceptor(
			interceptors.Recover(log),
			interceptors.UnaryLoggingInterceptor(log),
			grpc_prometheus.UnaryServerInterceptor,
			auth.UnaryServerInterceptor(verifier),
			interceptors.WithTimeout(cfg.Timeouts.Service),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	profilesv1.RegisterProfilesServiceServer(grpcServer, profilesServer)

	if cfg.Env == envLocal || cfg.Env == envDev {
		reflection.Register(grpcServer)
	}

	grpc_prometheus.Register(grpcServer)

	grpcAddr := cfg.GRPC.Addr()
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Error("grpc_listen_failed",
			slog.String("addr", grpcAddr),
			slog.String("err", err.Error()),
		)
		profilesStore.Close()
		os.Exit(1)
	}
	log.Info("grpc_listen_start", slog.String("addr", grpcAddr))

	serveErrCh := make(chan error, 2)
	go func() {
		log.Info("http_listen_start", slog.String("addr", httpAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErrCh <- fmt.Errorf("grpc: %w", err)
		}
	}()

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(profilesv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	atomic.StoreInt32(&ready, 1)
	log.Info("service_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		log.Error("serve_failed", slog.String("err", err.Error()))
	}

	hs.Shutdown()
	atomic.StoreInt32(&ready, 0)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc_stopped")
	case <-shutdownCtx.Done():
		log.Warn("grpc_force_stop")
		grpcServer.Stop()
	}

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	profilesStore.Close()

	log.Info("service_stopped")
}

// openProfiles выбирает хранилище профилей по storage.driver и при наличии
// redis.url оборачивает его кэшем чтения.
func openProfiles(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.ProfilesStorage, error) {
	var store storage.ProfilesStorage

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dbCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		pg, err := postgres.New(dbCtx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		log.Info("postgres_connected")

		if cfg.Postgres.Migrate {
			if err := pg.Migrate(dbCtx); err != nil {
				pg.Close()
				return nil, fmt.Errorf("postgres migrate: %w", err)
			}
			log.Info("postgres_migrated")
		}
		store = pg
	case config.DriverMongo:
		dbCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		mg, err := mongo.New(dbCtx, cfg.Mongo.URL, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		log.Info("mongo_connected", slog.String("database", cfg.Mongo.Database))
		store = mg
	case config.DriverMemory:
		log.Warn("memory_profiles_store: data is lost on restart")
		store = memory.NewProfilesStorage()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Redis.URL == "" {
		return store, nil
	}

	redisCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	cached, err := cache.New(redisCtx, store, cfg.Redis.URL, cfg.Redis.Prefix, cfg.Redis.TTL)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	log.Info("redis_cache_enabled", slog.Duration("ttl", cfg.Redis.TTL))

	return cached, nil
}

// openPhotos выбирает объектное хранилище фотографий по photos.backend.
func openPhotos(ctx context.Context, cfg *config.Config) (storage.PhotosStorage, error) {
	s3Ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.Photos.Backend {
	case config.PhotosMinIO:
		return minio.New(s3Ctx, cfg)
	case config.PhotosS3:
		return s3.New(s3Ctx, cfg)
	case config.PhotosMemory:
		return memory.NewPhotosStorage(cfg.Photos.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown photos backend %q", cfg.Photos.Backend)
	}
}
