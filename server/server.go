package server

import (
	"context"
	"lending/providers"
	configprovider "lending/providers/configProvider"
	"lending/providers/loggerProvider"
	metricsprovider "lending/providers/metricsProvider"
	"lending/providers/middlewareprovider"
	inventoryservice "lending/services/inventory"
	"lending/services/remoteapi"
	sessionservice "lending/services/session"
	"lending/services/snapshot"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Server struct {
	Config           providers.ConfigProvider
	Logger           providers.ZapLoggerProvider
	Metrics          providers.MetricsProvider
	Store            snapshot.Repository
	Middleware       providers.AuthMiddlewareService
	Inventory        inventoryservice.InventoryService
	SessionHandler   *sessionservice.SessionHandler
	InventoryHandler *inventoryservice.InventoryHandler
	httpServer       *http.Server
}

func ServerInit() (*Server, error) {
	cfg := configprovider.NewConfigProvider()
	if err := cfg.LoadEnv(); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	logger := loggerProvider.NewLogProvider(cfg.GetEnv())
	logger.InitLogger()
	metrics := metricsprovider.NewMetricsProvider()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := snapshot.NewRepositoryFromConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s snapshot store", cfg.GetCacheBackend())
	}

	client := remoteapi.NewClient(cfg.GetRemoteAPIURL(),
		remoteapi.WithTimeout(cfg.GetRemoteAPITimeout()),
		remoteapi.WithLogger(logger.GetLogger()),
		remoteapi.WithMetrics(metrics),
	)

	// services
	sessionService := sessionservice.NewSessionService(client, sessionservice.NewTokenDecoder(cfg.GetRemoteJWTSecret()), logger)
	inventoryService := inventoryservice.NewInventoryService(client, store, logger, metrics, cfg.GetStaleAfter())
	middleware := middlewareprovider.NewAuthMiddlewareService(sessionService, logger)

	// handlers
	sessionHandler := sessionservice.NewSessionHandler(sessionService, logger, middleware)
	inventoryHandler := inventoryservice.NewInventoryHandler(inventoryService, logger, middleware)

	return &Server{
		Config:           cfg,
		Logger:           logger,
		Metrics:          metrics,
		Store:            store,
		Middleware:       middleware,
		Inventory:        inventoryService,
		SessionHandler:   sessionHandler,
		InventoryHandler: inventoryHandler,
	}, nil
}

func (s *Server) Start() {
	addr := ":" + s.Config.GetServerPort()

	// Warm the state so the first page load does not wait on the remote API.
	go func() {
		if err := s.Inventory.Refresh(context.Background()); err != nil {
			s.Logger.GetLogger().Warn("initial inventory fetch failed", zap.Error(err))
		}
	}()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.InjectRoutes(),
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	s.Logger.GetLogger().Info("server running", zap.String("addr", addr), zap.String("remote_api", s.Config.GetRemoteAPIURL()))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.Logger.GetLogger().Fatal("server error", zap.Error(err))
	}
}

func (s *Server) Stop() {
	s.Logger.GetLogger().Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.Logger.GetLogger().Error("error shutting down server", zap.Error(err))
		}
	}

	if err := s.Store.Close(); err != nil {
		s.Logger.GetLogger().Error("error closing snapshot store", zap.Error(err))
	}

	s.Logger.GetLogger().Info("server shutdown complete")
	s.Logger.SyncLogger()
}
