package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	_ "pool_monitor/docs" // swagger spec
	"pool_monitor/internal/app/port"
	"pool_monitor/internal/app/provider"
	"pool_monitor/internal/app/service"
	coindefinition "pool_monitor/internal/infrastructure/coin/definition"
	"pool_monitor/internal/infrastructure/configloader"
	"pool_monitor/internal/infrastructure/httpclient"
	poolclient "pool_monitor/internal/infrastructure/pool/client"
	pooldefinition "pool_monitor/internal/infrastructure/pool/definition"
	poolparser "pool_monitor/internal/infrastructure/pool/parser"
	"pool_monitor/internal/infrastructure/restapi"
	"pool_monitor/internal/infrastructure/walletloader"
	"pool_monitor/internal/pkg/logger"
	"pool_monitor/internal/pkg/metrics"
	"pool_monitor/internal/pkg/tracing"
	"pool_monitor/internal/pkg/utils"
)

const serviceName = "pool_monitor"

// @title        Pool Monitor API
// @version      1.0
// @description  Aggregated mining pool statistics for a user's wallets.
// @BasePath     /api/v1
func main() {
	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := configloader.Load(cfgPath, utils.GetEnv("ENV_FILE", ".env"))
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	logger.SetDefault(slog.New(zapslog.NewHandler(zapLogger.Core())))
	appLogger := logger.NewSlogAdapter()
	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.TracingConfig(serviceName))
	if err != nil {
		zapLogger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	coins := coindefinition.NewCoinRegistry()
	pools := pooldefinition.NewPoolRegistry()
	parsers := poolparser.NewRegistry()

	poolClient := poolclient.NewClient(poolclient.Config{
		Timeout:           cfg.PoolTimeout(),
		UserAgent:         cfg.PoolClient.UserAgent,
		RequestsPerSecond: cfg.PoolClient.RequestsPerSecond,
		Burst:             cfg.PoolClient.Burst,
	}, zapLogger)
	fetcher := service.NewPoolFetchService(pools, parsers, poolClient, appLogger, cfg.StaleAfterOverrides())

	var prices port.CoinPriceService
	if cfg.PriceServiceEnabled() {
		feed := httpclient.NewCoinGeckoClient(cfg.CoinGecko.BaseURL, cfg.CoinGecko.APIKey,
			time.Duration(cfg.CoinGecko.RequestTimeoutMillis)*time.Millisecond, zapLogger)
		prices = service.NewCoinPriceService(coins, feed, appLogger, service.CoinPriceConfig{
			VsCurrency:       cfg.PriceService.VsCurrency,
			CacheTTL:         time.Duration(cfg.PriceService.CacheTTLMinutes) * time.Minute,
			MaxIDsPerRequest: cfg.PriceService.MaxIDsPerBatchRequest,
			MaxConcurrent:    cfg.PriceService.MaxConcurrentRequests,
		})
		go runPriceRefresher(ctx, prices, time.Duration(cfg.PriceService.RefreshMinutes)*time.Minute, zapLogger)
	} else {
		zapLogger.Info("Price service disabled, wallets carry no USD values")
	}

	settingsLoader := walletloader.NewSettingsFileLoader(cfg.Settings.Path, coins, pools, appLogger)
	wallets := provider.NewWalletProvider(settingsLoader, appLogger)

	coordinator := service.NewRefreshCoordinator(wallets, fetcher, service.NewEntitlementPolicy(), pools, prices, appLogger,
		service.RefreshConfig{
			MaxConcurrent:   cfg.Coordinator.MaxConcurrentFetches,
			StuckTimeout:    time.Duration(cfg.Coordinator.StuckTimeoutMinutes) * time.Minute,
			WalletTimeout:   time.Duration(cfg.Coordinator.WalletTimeoutSeconds) * time.Second,
			DefaultInterval: time.Duration(cfg.Coordinator.DefaultIntervalMinutes) * time.Minute,
		})

	go walletloader.Watch(ctx, settingsLoader, time.Duration(cfg.Settings.WatchIntervalSeconds)*time.Second,
		coordinator.NotifyWalletsChanged, appLogger)

	coordinatorDone := make(chan struct{})
	go func() {
		defer close(coordinatorDone)
		if err := coordinator.Run(ctx); err != nil {
			zapLogger.Error("Refresh coordinator stopped", zap.Error(err))
		}
	}()

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := restapi.NewHandler(coordinator, fetcher, coins, pools, zapLogger)
	router := restapi.SetupRouter(handler, zapLogger, restapi.RouterOptions{
		SwaggerEnabled: cfg.Swagger.Enabled,
		SwaggerPath:    cfg.Swagger.Path,
		PprofEnabled:   cfg.Server.Pprof,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	select {
	case <-coordinatorDone:
	case <-ctxShutdown.Done():
		zapLogger.Warn("Refresh coordinator did not stop in time")
	}
	if err := shutdownTracer(ctxShutdown); err != nil {
		zapLogger.Warn("Failed to flush traces", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}

// runPriceRefresher loads prices now and then on every tick.
func runPriceRefresher(ctx context.Context, prices port.CoinPriceService, every time.Duration, zapLogger *zap.Logger) {
	load := func() {
		loadCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := prices.LoadAndCachePrices(loadCtx); err != nil {
			zapLogger.Warn("Failed to refresh coin prices", zap.Error(err))
		}
	}

	load()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			load()
		}
	}
}
