package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"neetgenie/internal/backendclient"
	"neetgenie/internal/chat"
	"neetgenie/internal/config"
	"neetgenie/internal/notify"
	"neetgenie/internal/server"
	"neetgenie/internal/session"
	"neetgenie/internal/state"
	"neetgenie/internal/storage"
	"neetgenie/internal/store"
	"neetgenie/internal/util"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel)

	sessionTTL, _ := config.ParseDuration(cfg.SessionTTL)
	assistantTimeout, _ := config.ParseDuration(cfg.AssistantTimeout)
	backendTimeout, _ := config.ParseDuration(cfg.BackendHTTPTimeout)

	proxyPolicy, err := util.NewProxyPolicy(cfg.TrustedProxyCIDRs)
	if err != nil {
		log.Fatalf("failed to parse trusted proxies: %v", err)
	}

	var recordStore store.Store
	if cfg.DatabaseDSN != "" {
		gormStore, err := store.NewGormStore(cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("failed to init database store: %v", err)
		}
		recordStore = gormStore
	} else {
		slog.Warn("databaseDSN not set, using in-memory store")
		recordStore = store.NewMemoryStore()
	}

	var objects storage.ObjectStore
	if cfg.MinioEndpoint != "" {
		minioStore, err := storage.NewMinioStore(
			cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("failed to init object store: %v", err)
		}
		objects = minioStore
	} else {
		slog.Warn("minioEndpoint not set, material file storage disabled")
	}

	backend := backendclient.NewClient(cfg.BackendBaseURL, backendTimeout)
	notifier := notify.NewCenter()
	chatState := state.NewChat()

	httpServer, err := server.New(server.Config{
		Backend:                  backend,
		Chat:                     chat.NewService(chatState, backend, notifier, assistantTimeout),
		Notifier:                 notifier,
		ChatState:                chatState,
		Catalog:                  state.NewCatalog(),
		Plans:                    state.NewPlans(),
		Attempt:                  state.NewAttempt(),
		Sessions:                 session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, ""),
		SessionTTL:               sessionTTL,
		Store:                    recordStore,
		Objects:                  objects,
		AllowedOrigin:            cfg.AllowedOrigin,
		MaxUploadBytes:           cfg.MaxUploadBytes,
		ProxyPolicy:              proxyPolicy,
		RedisAddr:                cfg.RedisAddr,
		RedisPassword:            cfg.RedisPassword,
		VerifyRateLimitPerMinute: cfg.VerifyRateLimitPerMinute,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", addr, "backend", cfg.BackendBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "err", err)
	}
}
