package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"pool_monitor/internal/app/port"
	"pool_monitor/internal/app/provider"
	"pool_monitor/internal/app/service"
	"pool_monitor/internal/domain/entity"
	coindefinition "pool_monitor/internal/infrastructure/coin/definition"
	"pool_monitor/internal/infrastructure/configloader"
	"pool_monitor/internal/infrastructure/httpclient"
	poolclient "pool_monitor/internal/infrastructure/pool/client"
	pooldefinition "pool_monitor/internal/infrastructure/pool/definition"
	poolparser "pool_monitor/internal/infrastructure/pool/parser"
	"pool_monitor/internal/infrastructure/walletloader"
	"pool_monitor/internal/pkg/logger"
	"pool_monitor/internal/pkg/utils"
)

// checker runs a single refresh cycle over the configured wallets and prints a table.
func main() {
	var (
		cfgPath      = flag.String("config", utils.GetEnv("CONFIG_PATH", "config/config.yml"), "Path to config.yml")
		envFile      = flag.String("env", utils.GetEnv("ENV_FILE", ".env"), "Optional dotenv file")
		settingsPath = flag.String("settings", "", "Override settings file path")
		withPrices   = flag.Bool("prices", true, "Load CoinGecko prices before fetching")
		timeout      = flag.Duration("timeout", 2*time.Minute, "Overall deadline for the run")
	)
	flag.Parse()

	cfg, err := configloader.Load(*cfgPath, *envFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if *settingsPath != "" {
		cfg.Settings.Path = *settingsPath
	}

	zapLogger, err := logger.NewZapLogger(cfg.Logging.Level, "console")
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.InitFromZap(zapLogger, cfg.Logging.Level)
	appLogger := logger.NewSlogAdapter()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	coins := coindefinition.NewCoinRegistry()
	pools := pooldefinition.NewPoolRegistry()
	poolClient := poolclient.NewClient(poolclient.Config{
		Timeout:           cfg.PoolTimeout(),
		UserAgent:         cfg.PoolClient.UserAgent,
		RequestsPerSecond: cfg.PoolClient.RequestsPerSecond,
		Burst:             cfg.PoolClient.Burst,
	}, zapLogger)
	fetcher := service.NewPoolFetchService(pools, poolparser.NewRegistry(), poolClient, appLogger, cfg.StaleAfterOverrides())

	var prices port.CoinPriceService
	if *withPrices && cfg.PriceServiceEnabled() {
		feed := httpclient.NewCoinGeckoClient(cfg.CoinGecko.BaseURL, cfg.CoinGecko.APIKey,
			time.Duration(cfg.CoinGecko.RequestTimeoutMillis)*time.Millisecond, zapLogger)
		prices = service.NewCoinPriceService(coins, feed, appLogger, service.CoinPriceConfig{
			VsCurrency:       cfg.PriceService.VsCurrency,
			CacheTTL:         time.Duration(cfg.PriceService.CacheTTLMinutes) * time.Minute,
			MaxIDsPerRequest: cfg.PriceService.MaxIDsPerBatchRequest,
			MaxConcurrent:    cfg.PriceService.MaxConcurrentRequests,
		})
		if err := prices.LoadAndCachePrices(ctx); err != nil {
			zapLogger.Warn("Prices unavailable, USD columns stay empty", zap.Error(err))
		}
	}

	settings := walletloader.NewSettingsFileLoader(cfg.Settings.Path, coins, pools, appLogger)
	coordinator := service.NewRefreshCoordinator(provider.NewWalletProvider(settings, appLogger), fetcher,
		service.NewEntitlementPolicy(), pools, prices, appLogger,
		service.RefreshConfig{
			MaxConcurrent: cfg.Coordinator.MaxConcurrentFetches,
			StuckTimeout:  time.Duration(cfg.Coordinator.StuckTimeoutMinutes) * time.Minute,
			WalletTimeout: time.Duration(cfg.Coordinator.WalletTimeoutSeconds) * time.Second,
		})

	if _, err := coordinator.Refresh(ctx); err != nil {
		zapLogger.Error("Refresh failed", zap.Error(err))
		os.Exit(1)
	}

	printTable(os.Stdout, coordinator.Snapshot().Wallets, coins)
}

func printTable(out io.Writer, wallets []entity.WalletData, coins port.CoinRegistry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WALLET\tPOOL\tCOIN\tHASHRATE\tWORKERS\tBALANCE\t24H\tUSD/DAY\tERROR")
	for _, d := range wallets {
		usd := "-"
		if d.Profit != nil {
			usd = fmt.Sprintf("%.2f", d.Profit.NetProfit)
		}
		symbol := coins.GetSymbol(d.Coin)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s %s\t%s\t%s\t%s\n",
			d.Name, d.PoolID, symbol,
			utils.FormatHashrate(d.Hashrate, utils.HashrateWorkerDecimals),
			d.WorkersOnline, d.WorkersTotal,
			utils.FormatCoinAmount(d.Balance, 8), symbol,
			utils.FormatCoinAmount(d.Earnings24h, 8),
			usd, d.Error)
	}
	_ = w.Flush()
}
