package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dex_data/internal/app/service"
	gqlclient "dex_data/internal/client"
	"dex_data/internal/infrastructure/configloader"
	"dex_data/internal/infrastructure/contract"
	evmclient "dex_data/internal/infrastructure/network/client"
	networkdefinition "dex_data/internal/infrastructure/network/definition"
	"dex_data/internal/infrastructure/restapi"
	"dex_data/internal/infrastructure/tokenloader"
	"dex_data/internal/pkg/logger"
	"dex_data/internal/pkg/swr"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	configPath := flag.String("config", "config/config.yml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := configloader.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.Init(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	appLogger := logger.NewSlogAdapter()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	networks := networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.Networks, cfg.Indexer.Endpoints)
	libraries := evmclient.NewEVMClientProvider(cfg, networks, appLogger)
	defer libraries.Close()

	tokens := tokenloader.NewTokenLoader(cfg.TokenLists.Directory, appLogger)
	if err := tokens.Load(networks.GetAllNetworkDefinitions()); err != nil {
		appLogger.Warn("Token lists not loaded, tokens will be resolved on chain", "error", err)
	}

	cache := swr.New(swr.Config{
		Retention:           cfg.Cache.RetentionDuration(),
		CleanupInterval:     cfg.Cache.CleanupDuration(),
		FetchTimeout:        cfg.Cache.FetchTimeout(),
		ObserverLeaseCycles: cfg.Cache.ObserverLeaseCycles,
	}, appLogger, registry)
	defer cache.Close()

	indexerLimit := rate.Inf
	if cfg.Indexer.RateLimit > 0 {
		indexerLimit = rate.Limit(cfg.Indexer.RateLimit)
	}
	indexer := gqlclient.NewGraphQLClient(nil, cfg.Indexer.RequestTimeout(), rate.NewLimiter(indexerLimit, cfg.Indexer.BurstLimit), zapLogger)
	zapLogger.Info("GraphQL indexer client initialized", zap.Int("endpoints", len(networks.IndexerEndpoints())))

	dataSvc := service.NewDataService(cache, contract.NewFactory(), indexer, networks.IndexerEndpoints(), appLogger)

	handler := restapi.NewDataHandler(dataSvc, libraries, tokens, appLogger)
	router := restapi.SetupRouter(handler, registry, zapLogger)

	addr := cfg.Server.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
