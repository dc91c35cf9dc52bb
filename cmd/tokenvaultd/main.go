package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hexlayer/tokenvault"
	"github.com/hexlayer/tokenvault/directory/postgres"
	"github.com/hexlayer/tokenvault/internal/daemonconfig"
	"github.com/hexlayer/tokenvault/password"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional, env vars override)")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := daemonconfig.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting tokenvaultd", zap.String("env", cfg.App.Env), zap.String("addr", cfg.Server.Addr))

	b := tokenvault.New().
		WithConfig(managerConfig(cfg, logger)).
		WithLogger(logger)

	if cfg.Audit.Enabled {
		b.WithAuditSink(tokenvault.NewZapSink(logger.Named("audit")))
	}

	var dir *postgres.Directory
	if cfg.Directory.DSN != "" {
		dir, err = postgres.New(rootCtx, postgres.Config{
			URL:          cfg.Directory.DSN,
			MaxConns:     cfg.Directory.MaxConns,
			MinConns:     cfg.Directory.MinConns,
			QueryTimeout: cfg.Directory.QueryTimeout,
		})
		if err != nil {
			logger.Fatal("directory connect", zap.Error(err))
		}
		defer dir.Close()

		hasher, err := password.NewBcrypt(password.DefaultCost)
		if err != nil {
			logger.Fatal("hasher init", zap.Error(err))
		}
		b.WithDirectory(dir).WithHasher(hasher)
	} else {
		logger.Warn("no directory.dsn configured, account endpoints disabled")
	}

	manager, err := b.Build()
	if err != nil {
		logger.Fatal("manager build", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newRouter(manager, dir != nil, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	_ = srv.Shutdown(shCtx)
	if err := manager.Close(shCtx); err != nil {
		logger.Warn("manager close", zap.Error(err))
	}

	time.Sleep(100 * time.Millisecond)
	logger.Info("bye")
}

func managerConfig(cfg *daemonconfig.Config, logger *zap.Logger) tokenvault.Config {
	mc := tokenvault.DefaultConfig()
	mc.JWT.AccessSecret = []byte(cfg.JWT.AccessSecret)
	mc.JWT.RefreshSecret = []byte(cfg.JWT.RefreshSecret)
	mc.JWT.AccessTTL = cfg.JWT.AccessTTL
	mc.JWT.RefreshTTL = cfg.JWT.RefreshTTL
	mc.JWT.Issuer = cfg.JWT.Issuer

	mc.Store.Addr = cfg.Store.Addr
	mc.Store.Username = cfg.Store.Username
	mc.Store.Password = cfg.Store.Password
	mc.Store.DB = cfg.Store.DB

	mc.Pool.Min = cfg.Pool.Min
	mc.Pool.Max = cfg.Pool.Max
	mc.Pool.AcquireTimeout = cfg.Pool.AcquireTimeout
	mc.Pool.IdleTimeout = cfg.Pool.IdleTimeout
	mc.Pool.EvictionInterval = cfg.Pool.EvictionInterval

	mc.Audit.Enabled = cfg.Audit.Enabled
	mc.Audit.BufferSize = cfg.Audit.BufferSize
	mc.Audit.DropIfFull = true

	mc.Logger = logger
	return mc
}
